// Package digest turns a window of raw GitHub activity events into a
// deduplicated, deterministically ordered summary of
// repository -> topic -> interaction kinds.
package digest

import "time"

// RepoRef identifies a repository touched by an event. Identity and
// ordering are by Name only; URL is the API locator riding along for
// later metadata resolution.
type RepoRef struct {
	Name string // "owner/repo"
	URL  string // API resource locator
}

// Topic is an issue or pull request. Identity and ordering are by
// Number only; URL and Title ride along for display.
type Topic struct {
	URL    string
	Number int
	Title  string
}

// Kind is the category of engagement a user had with a topic.
// The declaration order is the fixed rendering priority.
type Kind int

const (
	KindCode    Kind = iota // opened a pull request
	KindWrite               // opened an issue
	KindReview              // reviewed a PR
	KindComment             // commented, or edited own issue/PR/comment
	KindAssist              // any other non-authoring interaction
)

// Symbol returns the digest glyph for the kind.
func (k Kind) Symbol() string {
	switch k {
	case KindCode:
		return "🔨"
	case KindWrite:
		return "✍️"
	case KindReview:
		return "🕵️"
	case KindComment:
		return "💬"
	case KindAssist:
		return "⚙️"
	}
	return "?"
}

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindWrite:
		return "write"
	case KindReview:
		return "review"
	case KindComment:
		return "comment"
	case KindAssist:
		return "assist"
	}
	return "unknown"
}

// Options are the capability flags of a digest run. The zero value
// disables all filtering and sanitization; DefaultOptions is what the
// CLI starts from.
type Options struct {
	// IncludeOrgs restricts events to repositories matching one of the
	// listed orgs. Entries are either bare org names ("acme") or
	// doublestar patterns against the full "owner/repo" name
	// ("acme-*/infra"). Empty means no restriction.
	IncludeOrgs []string

	// ExcludeOrgs drops events on matching repositories. Evaluated
	// after IncludeOrgs, so an org listed in both is excluded.
	ExcludeOrgs []string

	// TrackAssist keeps Assist-classified events. When false they are
	// dropped as if unrecognized.
	TrackAssist bool

	// SanitizeTitles strips unsafe characters from topic titles at
	// render time.
	SanitizeTitles bool

	// Compact joins repositories with "; " on a single line instead of
	// one repository per line.
	Compact bool
}

// DefaultOptions returns the options for a full-fidelity digest.
func DefaultOptions() Options {
	return Options{
		TrackAssist:    true,
		SanitizeTitles: true,
	}
}

// Event is one raw activity event as supplied by the event feed.
// At most one payload pointer is non-nil; events with no recognized
// payload are skipped by the classifier.
type Event struct {
	Public    bool
	CreatedAt time.Time
	RepoName  string
	RepoURL   string

	Issues       *IssuesPayload
	IssueComment *IssueCommentPayload
	PullRequest  *PullRequestPayload
	Review       *ReviewPayload
}

// Issue carries the issue fields the digest needs.
type Issue struct {
	URL    string
	Number int
	Title  string
	Author string
}

// PullRequest carries the PR fields the digest needs. URL and Title
// may be absent upstream; converting such a PR into a Topic fails.
type PullRequest struct {
	URL    string
	Number int
	Title  string
	Author string
}

// IssuesPayload is an issue state-change event.
type IssuesPayload struct {
	Action string
	Issue  Issue
}

// IssueCommentPayload is a comment created/edited/deleted on an issue
// or PR conversation.
type IssueCommentPayload struct {
	Action        string
	Issue         Issue
	CommentAuthor string
}

// PullRequestPayload is a PR state-change event.
type PullRequestPayload struct {
	Action      string
	PullRequest PullRequest
}

// ReviewPayload covers both review and review-comment events; any
// action on either classifies as Review.
type ReviewPayload struct {
	PullRequest PullRequest
}

// Interaction is one classified event: the repo and topic it touched
// and the kind of engagement it records.
type Interaction struct {
	Repo  RepoRef
	Topic Topic
	Kind  Kind
}
