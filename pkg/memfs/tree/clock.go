package tree

import "time"

// Clock supplies timestamps for new and written files.
type Clock func() time.Time

// SystemClock returns the local wall time truncated to whole seconds, the
// resolution kept by the persisted store.
func SystemClock() time.Time {
	return time.Now().Truncate(time.Second)
}
