package manaba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTaskStatusFlag(t *testing.T) {
	for label, want := range map[string]TaskStatusFlag{
		"受付開始待ち": TaskWaiting,
		"受付中":    TaskOpening,
		"受付終了":   TaskClosed,
	} {
		flag := ParseTaskStatusFlag(label)
		require.NotNil(t, flag, label)
		require.Equal(t, want, *flag, label)
	}

	require.Nil(t, ParseTaskStatusFlag(""))
	require.Nil(t, ParseTaskStatusFlag("受付"))
	require.Nil(t, ParseTaskStatusFlag("受付中です"))
}

func TestParseYourStatusFlag(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		flag := ParseYourStatusFlag("提出済み")
		require.NotNil(t, flag)
		require.Equal(t, YourSubmitted, *flag)

		flag = ParseYourStatusFlag("未提出")
		require.NotNil(t, flag)
		require.Equal(t, YourUnsubmitted, *flag)
	})
	t.Run("synonym", func(t *testing.T) {
		flag := ParseYourStatusFlag("まだ提出していません")
		require.NotNil(t, flag)
		require.Equal(t, YourUnsubmitted, *flag)
	})
	t.Run("prefix", func(t *testing.T) {
		flag := ParseYourStatusFlag("提出済み (2021-08-04 10:25)")
		require.NotNil(t, flag)
		require.Equal(t, YourSubmitted, *flag)
	})
	t.Run("unrecognized", func(t *testing.T) {
		require.Nil(t, ParseYourStatusFlag(""))
		require.Nil(t, ParseYourStatusFlag("採点済み"))
	})
}

func TestParsePortfolioType(t *testing.T) {
	t.Run("negative label wins over its substring", func(t *testing.T) {
		typ := ParsePortfolioType("ポートフォリオに追加しない")
		require.NotNil(t, typ)
		require.Equal(t, PortfolioNotAdd, *typ)

		typ = ParsePortfolioType("ポートフォリオに追加")
		require.NotNil(t, typ)
		require.Equal(t, PortfolioAdd, *typ)
	})
	t.Run("containment", func(t *testing.T) {
		typ := ParsePortfolioType("提出後、ポートフォリオに追加しない設定です")
		require.NotNil(t, typ)
		require.Equal(t, PortfolioNotAdd, *typ)
	})
	t.Run("unknown member on miss", func(t *testing.T) {
		typ := ParsePortfolioType("別の設定")
		require.NotNil(t, typ)
		require.Equal(t, PortfolioUnknown, *typ)
	})
	t.Run("absent", func(t *testing.T) {
		require.Nil(t, ParsePortfolioType(""))
	})
}

func TestParseResultViewType(t *testing.T) {
	typ := ParseResultViewType("受付終了時に採点結果と正解を公開")
	require.NotNil(t, typ)
	require.Equal(t, ResultViewAtEnd, *typ)

	typ = ParseResultViewType("設定: コースメンバー全員が閲覧・コメント可")
	require.NotNil(t, typ)
	require.Equal(t, ResultViewAllMembers, *typ)

	typ = ParseResultViewType("何か別の方針")
	require.NotNil(t, typ)
	require.Equal(t, ResultViewUnknown, *typ)

	require.Nil(t, ParseResultViewType(""))
}

func TestParseStudentResubmitType(t *testing.T) {
	typ := ParseStudentResubmitType("再提出を許可する")
	require.NotNil(t, typ)
	require.Equal(t, Resubmittable, *typ)

	typ = ParseStudentResubmitType("再提出を許可しない")
	require.NotNil(t, typ)
	require.Equal(t, Unresubmittable, *typ)

	// exact match only, unlike the portfolio resolver
	typ = ParseStudentResubmitType("現在は再提出を許可する設定")
	require.NotNil(t, typ)
	require.Equal(t, ResubmitUnknown, *typ)

	require.Nil(t, ParseStudentResubmitType(""))
}

func TestParseAnswerViewType(t *testing.T) {
	typ := ParseAnswerViewType("提出時に公開する")
	require.NotNil(t, typ)
	require.Equal(t, AnswerPublishAtSubmit, *typ)

	typ = ParseAnswerViewType("公開しない")
	require.NotNil(t, typ)
	require.Equal(t, AnswerUnpublished, *typ)

	typ = ParseAnswerViewType("一部公開")
	require.NotNil(t, typ)
	require.Equal(t, AnswerViewUnknown, *typ)

	require.Nil(t, ParseAnswerViewType(""))
}
