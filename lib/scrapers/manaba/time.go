package manaba

import (
	"fmt"
	"strings"
	"time"

	"manaba-go/lib/timezone"
)

// ParseDateTime converts manaba's fixed-width timestamp text into an
// instant pinned to JST. Two formats exist: with and without seconds
// (some pages pad the interior with a doubled space, collapsed first).
// Empty input is an absent value, not an error.
func ParseDateTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, "  ", " ")

	var layout string
	switch len(s) {
	case 19:
		layout = "2006-01-02 15:04:05"
	case 16:
		layout = "2006-01-02 15:04"
	default:
		return nil, fmt.Errorf("unexpected datetime %q: %w", s, ErrMalformedPage)
	}

	t, err := time.ParseInLocation(layout, s, timezone.JST)
	if err != nil {
		return nil, fmt.Errorf("unexpected datetime %q: %w", s, ErrMalformedPage)
	}
	return &t, nil
}
