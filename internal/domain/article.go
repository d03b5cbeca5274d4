package domain

import "fmt"

// UnknownSource labels entries whose feed document carries no title.
const UnknownSource = "Unknown Source"

// Article is a single feed entry. Title and Summary may still contain
// markup and HTML entities; downstream formatters normalize on read.
// Articles are never mutated after creation; the pipeline only reads
// and reorders them.
type Article struct {
	Title   string
	Summary string
	Link    string
	Source  string
}

// Digest is the subject/body pair handed to the dispatcher. It has no
// identity and no persistence: produced, optionally previewed, and
// consumed exactly once.
type Digest struct {
	Subject string
	Body    string
}

// ScheduleSpec captures everything a daily digest run needs, frozen at
// arm time. Re-arming replaces the spec; it is never updated in place.
type ScheduleSpec struct {
	Recipients []string
	Hour       int
	Minute     int
	MaxItems   int
}

// At renders the trigger time-of-day as HH:MM for logs and the UI.
func (s ScheduleSpec) At() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}
