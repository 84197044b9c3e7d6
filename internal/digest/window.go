package digest

import "time"

// ValidateWindow verifies that the fetched page reaches back past the
// cutoff: at least one event must be strictly older. Otherwise the
// page was likely truncated by the event limit and the digest would be
// silently incomplete, so the run fails with WindowTooNarrowError.
// Runs once, before classification.
func ValidateWindow(events []Event, cutoff time.Time, nEvents int, window time.Duration) error {
	for _, ev := range events {
		if ev.CreatedAt.Before(cutoff) {
			return nil
		}
	}
	return &WindowTooNarrowError{NEvents: nEvents, Window: window}
}
