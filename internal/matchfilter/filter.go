package matchfilter

import "fmt"

// Live-broadcast status tags reported by the retrieval engine.
const (
	StatusNotLive     = "not_live"
	StatusIsLive      = "is_live"
	StatusIsUpcoming  = "is_upcoming"
	StatusWasLive     = "was_live"
	StatusPostLive    = "post_live"
	StatusUnavailable = ""
)

// completedStatuses are the live-status tags describing a finished,
// fully retrievable broadcast.
var completedStatuses = map[string]struct{}{
	StatusNotLive: {},
	StatusWasLive: {},
}

// Candidate is the per-item metadata the retrieval engine exposes before
// acquisition. UploadDate is the fixed-width YYYYMMDD form, or empty when
// the engine does not know it.
type Candidate struct {
	ID         string
	Title      string
	UploadDate string
	LiveStatus string
}

// Func decides whether a candidate should be skipped. It returns a
// human-readable skip reason and true to reject, or ("", false) to accept.
type Func func(Candidate) (string, bool)

// New builds a filter predicate closed over a normalized YYYYMMDD lower
// bound and, when liveOnly is set, the completed-broadcast status set.
// The returned predicate is pure and safe for concurrent use.
func New(notBefore string, liveOnly bool) Func {
	return func(c Candidate) (string, bool) {
		if liveOnly {
			if _, ok := completedStatuses[c.LiveStatus]; !ok {
				return fmt.Sprintf("not a completed broadcast (live_status=%s)", c.LiveStatus), true
			}
		}
		if notBefore != "" && c.UploadDate != "" && c.UploadDate < notBefore {
			// Lexicographic comparison is valid because the form is
			// fixed-width and zero-padded.
			return fmt.Sprintf("too old (upload_date=%s < %s)", c.UploadDate, notBefore), true
		}
		return "", false
	}
}
