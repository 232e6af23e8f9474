package manaba

import (
	"fmt"
	"strings"
)

// The status cell of a quiz/survey/report renders one to four non-empty
// lines. Line 0 is always the task status; which line carries the user's
// submission status depends on the line count (extra lines are grades or
// annotations). Anything else means the page layout changed and must not
// be guessed at.
//
// One carve-out: a second line containing まだ提出は可能です ("can still be
// submitted despite being treated as late") is not a regular label and
// always means unsubmitted.
const stillSubmittableMarker = "まだ提出は可能です"

func ParseTaskStatus(text string) (TaskStatus, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 1 || len(lines) > 4 {
		return TaskStatus{}, fmt.Errorf("status block has %d lines: %w", len(lines), ErrMalformedPage)
	}

	flag := ParseTaskStatusFlag(lines[0])
	if flag == nil {
		return TaskStatus{}, fmt.Errorf("unrecognized task status %q: %w", lines[0], ErrMalformedPage)
	}

	var yourLine string
	switch len(lines) {
	case 1:
		return TaskStatus{Flag: *flag}, nil
	case 2:
		if strings.Contains(lines[1], stillSubmittableMarker) {
			your := YourUnsubmitted
			return TaskStatus{Flag: *flag, YourStatus: &your}, nil
		}
		yourLine = lines[1]
	case 3:
		yourLine = lines[1]
	case 4:
		yourLine = lines[2]
	}

	your := ParseYourStatusFlag(yourLine)
	if your == nil {
		return TaskStatus{}, fmt.Errorf("unrecognized submission status %q: %w", yourLine, ErrMalformedPage)
	}
	return TaskStatus{Flag: *flag, YourStatus: your}, nil
}
