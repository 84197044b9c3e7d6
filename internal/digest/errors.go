package digest

import (
	"fmt"
	"time"
)

// WindowTooNarrowError reports that no fetched event reaches back past
// the requested cutoff, so the page is suspected to be truncated by the
// event limit rather than the window.
type WindowTooNarrowError struct {
	NEvents int
	Window  time.Duration
}

func (e *WindowTooNarrowError) Error() string {
	return fmt.Sprintf(
		"none of the %d fetched events is older than the %s window; raise the event limit to cover the full period",
		e.NEvents, e.Window)
}

// MissingFieldError reports a pull request event that lacks a field
// required for display. Such events are malformed upstream data and
// abort the run.
type MissingFieldError struct {
	Field  string
	Number int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pull request #%d has no %s", e.Number, e.Field)
}

// MissingRepoURLError reports resolved repository metadata without a
// display URL. Fatal, since the repository line cannot be rendered.
type MissingRepoURLError struct {
	Repo string
}

func (e *MissingRepoURLError) Error() string {
	return fmt.Sprintf("no display URL for repository %s", e.Repo)
}
