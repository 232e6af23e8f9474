package manaba

import (
	"testing"
	"time"

	"manaba-go/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestParsePublishWindow(t *testing.T) {
	t.Run("both ends", func(t *testing.T) {
		start, end, err := parsePublishWindow("公開期間 2021-04-01 00:00:00 ～ 2022-03-31 23:59:59")
		require.NoError(t, err)
		require.NotNil(t, start)
		require.NotNil(t, end)
		require.Equal(t, time.Date(2021, 4, 1, 0, 0, 0, 0, timezone.JST), *start)
		require.Equal(t, time.Date(2022, 3, 31, 23, 59, 59, 0, timezone.JST), *end)
	})
	t.Run("start only", func(t *testing.T) {
		start, end, err := parsePublishWindow("公開期間 2021-04-01 00:00:00 ～")
		require.NoError(t, err)
		require.NotNil(t, start)
		require.Nil(t, end)
	})
	t.Run("end only", func(t *testing.T) {
		start, end, err := parsePublishWindow("公開期間 ～ 2022-03-31 23:59:59")
		require.NoError(t, err)
		require.Nil(t, start)
		require.NotNil(t, end)
	})
	t.Run("no window", func(t *testing.T) {
		start, end, err := parsePublishWindow("")
		require.NoError(t, err)
		require.Nil(t, start)
		require.Nil(t, end)
	})
}

func TestArticleAuthorLine(t *testing.T) {
	groups := articleAuthorRegex.FindStringSubmatch("2021-08-04 10:25 - 山田 太郎- 1.2版")
	require.NotNil(t, groups)
	require.Equal(t, "2021-08-04 10:25", groups[1])
	require.Equal(t, "山田 太郎", groups[2])
	require.Equal(t, "1.2", groups[3])
}
