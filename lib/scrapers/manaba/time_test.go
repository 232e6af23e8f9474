package manaba

import (
	"testing"
	"time"

	"manaba-go/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	t.Run("with seconds", func(t *testing.T) {
		parsed, err := ParseDateTime("2021-08-04 10:25:30")
		require.NoError(t, err)
		require.NotNil(t, parsed)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 30, 0, timezone.JST), *parsed)
	})
	t.Run("without seconds", func(t *testing.T) {
		parsed, err := ParseDateTime("2021-08-04 10:25")
		require.NoError(t, err)
		require.NotNil(t, parsed)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 0, 0, timezone.JST), *parsed)
	})
	t.Run("doubled interior space", func(t *testing.T) {
		parsed, err := ParseDateTime("2021-08-04  10:25")
		require.NoError(t, err)
		require.NotNil(t, parsed)
		require.Equal(t, time.Date(2021, 8, 4, 10, 25, 0, 0, timezone.JST), *parsed)
	})
	t.Run("always jst", func(t *testing.T) {
		parsed, err := ParseDateTime("2021-08-04 10:25:30")
		require.NoError(t, err)
		_, offset := parsed.Zone()
		require.Equal(t, 9*60*60, offset)
	})
	t.Run("empty is absent", func(t *testing.T) {
		parsed, err := ParseDateTime("")
		require.NoError(t, err)
		require.Nil(t, parsed)
	})
	t.Run("unexpected shape", func(t *testing.T) {
		_, err := ParseDateTime("2021/08/04 10:25")
		require.ErrorIs(t, err, ErrMalformedPage)
		_, err = ParseDateTime("明日")
		require.ErrorIs(t, err, ErrMalformedPage)
	})
}
