package timezone

import "time"

// manaba renders every timestamp in server-local wall time with no zone
// marker, so parsed instants are pinned to a fixed UTC+9 offset instead of
// whatever zone the process happens to run in.
var JST = time.FixedZone("JST", 9*60*60)

func Now() time.Time {
	return time.Now().In(JST)
}
