package manaba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		status, err := ParseTaskStatus("受付開始待ち")
		require.NoError(t, err)
		require.Equal(t, TaskWaiting, status.Flag)
		require.Nil(t, status.YourStatus)
	})
	t.Run("two lines", func(t *testing.T) {
		status, err := ParseTaskStatus("受付中\n提出済み")
		require.NoError(t, err)
		require.Equal(t, TaskOpening, status.Flag)
		require.NotNil(t, status.YourStatus)
		require.Equal(t, YourSubmitted, *status.YourStatus)
	})
	t.Run("still submittable annotation means unsubmitted", func(t *testing.T) {
		status, err := ParseTaskStatus("受付中\n※遅延として取り扱われますが、まだ提出は可能です。")
		require.NoError(t, err)
		require.Equal(t, TaskOpening, status.Flag)
		require.NotNil(t, status.YourStatus)
		require.Equal(t, YourUnsubmitted, *status.YourStatus)
	})
	t.Run("three lines", func(t *testing.T) {
		status, err := ParseTaskStatus("受付終了\n未提出\n閲覧のみ可能")
		require.NoError(t, err)
		require.Equal(t, TaskClosed, status.Flag)
		require.NotNil(t, status.YourStatus)
		require.Equal(t, YourUnsubmitted, *status.YourStatus)
	})
	t.Run("four lines take the third", func(t *testing.T) {
		status, err := ParseTaskStatus("受付終了\n80点\n提出済み\n閲覧のみ可能")
		require.NoError(t, err)
		require.Equal(t, TaskClosed, status.Flag)
		require.NotNil(t, status.YourStatus)
		require.Equal(t, YourSubmitted, *status.YourStatus)
	})
	t.Run("blank lines are dropped before counting", func(t *testing.T) {
		status, err := ParseTaskStatus("\n 受付中 \n\n  提出済み \n")
		require.NoError(t, err)
		require.Equal(t, TaskOpening, status.Flag)
		require.NotNil(t, status.YourStatus)
		require.Equal(t, YourSubmitted, *status.YourStatus)
	})

	t.Run("empty block", func(t *testing.T) {
		_, err := ParseTaskStatus("")
		require.ErrorIs(t, err, ErrMalformedPage)
	})
	t.Run("five lines", func(t *testing.T) {
		_, err := ParseTaskStatus("受付中\na\nb\nc\nd")
		require.ErrorIs(t, err, ErrMalformedPage)
	})
	t.Run("unknown task status", func(t *testing.T) {
		_, err := ParseTaskStatus("採点中\n提出済み")
		require.ErrorIs(t, err, ErrMalformedPage)
	})
	t.Run("unknown submission status", func(t *testing.T) {
		_, err := ParseTaskStatus("受付中\n謎の状態")
		require.ErrorIs(t, err, ErrMalformedPage)
	})
}
