package manaba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const queryListPage = `
<table class="stdlist">
	<tr class="title"><th>タイトル</th><th>状態</th><th>受付開始日時</th><th>受付終了日時</th></tr>
	<tr class="row0">
		<td><h3><img src="/icon_on.png"><a href="course_1234_query_11">第1回小テスト</a></h3></td>
		<td>受付中<br>未提出</td>
		<td>2021-07-01 09:00:00</td>
		<td>2021-07-15 23:59:00</td>
	</tr>
	<tr class="row1">
		<td><h3><img src="/icon_off.png"><a href="course_1234_query_12">第2回小テスト</a></h3></td>
		<td>受付開始待ち</td>
		<td>2021-08-01 09:00:00</td>
		<td></td>
	</tr>
</table>`

func TestParseTaskRows(t *testing.T) {
	doc := docFromString(t, queryListPage)

	rows, err := parseTaskRows(doc, queryIDRegex)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	require.Equal(t, 11, first.id)
	require.Equal(t, "第1回小テスト", first.title)
	require.True(t, first.lamp)
	require.Equal(t, TaskOpening, first.status.Flag)
	require.NotNil(t, first.status.YourStatus)
	require.Equal(t, YourUnsubmitted, *first.status.YourStatus)
	require.NotNil(t, first.startTime)
	require.NotNil(t, first.endTime)

	second := rows[1]
	require.Equal(t, 12, second.id)
	require.False(t, second.lamp)
	require.Equal(t, TaskWaiting, second.status.Flag)
	require.Nil(t, second.status.YourStatus)
	require.Nil(t, second.endTime)
}

func TestParseTaskRowsWithoutTable(t *testing.T) {
	doc := docFromString(t, `<p>このコースには小テストがありません</p>`)

	rows, err := parseTaskRows(doc, queryIDRegex)
	require.NoError(t, err)
	require.Empty(t, rows)
}

const queryDetailTable = `
<table class="stdlist-query">
	<tr class="title"><td>第1回小テスト</td></tr>
	<tr><th>課題に関する説明</th><td>教科書1章を読んで解答してください。</td></tr>
	<tr><th>受付開始日時</th><td>2021-07-01 09:00:00</td></tr>
	<tr><th>受付終了日時</th><td>2021-07-15 23:59:00</td></tr>
	<tr><th>ポートフォリオ</th><td>ポートフォリオに追加しない</td></tr>
	<tr><th>採点結果と正解の公開</th><td>提出時に採点結果と正解を公開</td></tr>
	<tr><th>状態</th><td>受付中
提出済み</td></tr>
</table>`

func TestParseDetailTable(t *testing.T) {
	doc := docFromString(t, queryDetailTable)

	details := parseDetailTable(doc.Find("table.stdlist-query"), false)
	require.Equal(t, "教科書1章を読んで解答してください。", details[detailDescription])
	require.Equal(t, "2021-07-01 09:00:00", details[detailStartTime])
	require.Equal(t, "ポートフォリオに追加しない", details[detailPortfolio])
	require.NotContains(t, details, "タイトル")

	status, err := detailStatusOf(details, false)
	require.NoError(t, err)
	require.NotNil(t, status)
	require.Equal(t, TaskOpening, status.Flag)
	require.NotNil(t, status.YourStatus)
	require.Equal(t, YourSubmitted, *status.YourStatus)
}

func TestParseDetailTableBreakLines(t *testing.T) {
	doc := docFromString(t, `
		<table class="stdlist-report">
			<tr><th>状態</th><td>受付終了<br>未提出</td></tr>
		</table>`)

	details := parseDetailTable(doc.Find("table.stdlist-report"), true)
	require.Equal(t, "受付終了\n未提出", details[detailStatus])
}

func TestDetailStatusExpiredOverride(t *testing.T) {
	details := map[string]string{detailStatus: "受付中\n提出済み"}

	status, err := detailStatusOf(details, true)
	require.NoError(t, err)
	require.NotNil(t, status)
	require.Equal(t, TaskClosed, status.Flag)
	require.NotNil(t, status.YourStatus)
	require.Equal(t, YourUnsubmitted, *status.YourStatus)
}

func TestDetailStatusAbsent(t *testing.T) {
	status, err := detailStatusOf(map[string]string{}, true)
	require.NoError(t, err)
	require.Nil(t, status)
}

func TestParseGradeBar(t *testing.T) {
	parse := func(t *testing.T, html string) (*GradePosition, error) {
		doc := docFromString(t, `<table class="gradelist"><tr><td>`+html+`</td></tr></table>`)
		return parseGradeBar(doc.Find("table.gradelist"))
	}

	t.Run("no bar", func(t *testing.T) {
		position, err := parse(t, `<span class="grade">80</span>`)
		require.NoError(t, err)
		require.Nil(t, position)
	})
	t.Run("single segment", func(t *testing.T) {
		position, err := parse(t, `<table class="form"><tr><td class="gradebar" width="100%"></td></tr></table>`)
		require.NoError(t, err)
		require.NotNil(t, position)
		require.Nil(t, position.BelowPercent)
		require.Equal(t, 100, position.MyPosPercent)
		require.Nil(t, position.AbovePercent)
	})
	t.Run("bottom of the distribution", func(t *testing.T) {
		position, err := parse(t, `<table class="form"><tr>
			<td class="gradebar" width="30%"></td><td width="70%"></td>
		</tr></table>`)
		require.NoError(t, err)
		require.NotNil(t, position)
		require.Nil(t, position.BelowPercent)
		require.Equal(t, 30, position.MyPosPercent)
		require.NotNil(t, position.AbovePercent)
		require.Equal(t, 70, *position.AbovePercent)
	})
	t.Run("top of the distribution", func(t *testing.T) {
		position, err := parse(t, `<table class="form"><tr>
			<td width="60%"></td><td class="gradebar" width="40%"></td>
		</tr></table>`)
		require.NoError(t, err)
		require.NotNil(t, position)
		require.NotNil(t, position.BelowPercent)
		require.Equal(t, 60, *position.BelowPercent)
		require.Equal(t, 40, position.MyPosPercent)
		require.Nil(t, position.AbovePercent)
	})
	t.Run("middle of the distribution", func(t *testing.T) {
		position, err := parse(t, `<table class="form"><tr>
			<td width="25%"></td><td class="gradebar" width="50%"></td><td width="25%"></td>
		</tr></table>`)
		require.NoError(t, err)
		require.NotNil(t, position)
		require.Equal(t, 25, *position.BelowPercent)
		require.Equal(t, 50, position.MyPosPercent)
		require.Equal(t, 25, *position.AbovePercent)
	})
	t.Run("two segments without marker", func(t *testing.T) {
		_, err := parse(t, `<table class="form"><tr>
			<td width="50%"></td><td width="50%"></td>
		</tr></table>`)
		require.ErrorIs(t, err, ErrMalformedPage)
	})
	t.Run("four segments", func(t *testing.T) {
		_, err := parse(t, `<table class="form"><tr>
			<td width="25%"></td><td width="25%"></td><td width="25%"></td><td width="25%"></td>
		</tr></table>`)
		require.ErrorIs(t, err, ErrMalformedPage)
	})
}

func TestDrillCounts(t *testing.T) {
	require.Equal(t, 3, boundedCount("3回"))
	require.Equal(t, -1, boundedCount("無制限"))
	require.Equal(t, -1, boundedCount(""))

	score := optionalCount("80点")
	require.NotNil(t, score)
	require.Equal(t, 80, *score)
	require.Nil(t, optionalCount(""))
	require.Nil(t, optionalCount("未受験"))
}
