package digest

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// GitHub event action values the classifier understands. Anything else
// is skipped without error so newer API actions do not break the run.
const (
	actionOpened               = "opened"
	actionClosed               = "closed"
	actionReopened             = "reopened"
	actionEdited               = "edited"
	actionCreated              = "created"
	actionDeleted              = "deleted"
	actionAssigned             = "assigned"
	actionUnassigned           = "unassigned"
	actionLabeled              = "labeled"
	actionUnlabeled            = "unlabeled"
	actionReviewRequested      = "review_requested"
	actionReviewRequestRemoved = "review_request_removed"
	actionSynchronize          = "synchronize"
)

// Classifier maps raw events to interactions for one digest run.
type Classifier struct {
	username string
	cutoff   time.Time
	opts     Options
}

// NewClassifier returns a classifier for the given user and cutoff.
func NewClassifier(username string, cutoff time.Time, opts Options) *Classifier {
	return &Classifier{username: username, cutoff: cutoff, opts: opts}
}

// Classify maps one raw event to an interaction. A nil result with nil
// error means the event was filtered out or is of an unrecognized
// shape. Errors are only returned for malformed PR data.
func (c *Classifier) Classify(ev Event) (*Interaction, error) {
	if !ev.Public {
		return nil, nil
	}
	if len(c.opts.IncludeOrgs) > 0 && !matchesOrg(c.opts.IncludeOrgs, ev.RepoName) {
		return nil, nil
	}
	if matchesOrg(c.opts.ExcludeOrgs, ev.RepoName) {
		return nil, nil
	}
	if ev.CreatedAt.Before(c.cutoff) {
		return nil, nil
	}

	topic, kind, ok, err := c.classifyPayload(ev)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if kind == KindAssist && !c.opts.TrackAssist {
		return nil, nil
	}

	return &Interaction{
		Repo:  RepoRef{Name: ev.RepoName, URL: ev.RepoURL},
		Topic: topic,
		Kind:  kind,
	}, nil
}

func (c *Classifier) classifyPayload(ev Event) (Topic, Kind, bool, error) {
	switch {
	case ev.Issues != nil:
		kind, ok := c.issuesKind(ev.Issues)
		if !ok {
			return Topic{}, 0, false, nil
		}
		return issueTopic(ev.Issues.Issue), kind, true, nil

	case ev.IssueComment != nil:
		kind, ok := c.issueCommentKind(ev.IssueComment)
		if !ok {
			return Topic{}, 0, false, nil
		}
		return issueTopic(ev.IssueComment.Issue), kind, true, nil

	case ev.PullRequest != nil:
		kind, ok := c.pullRequestKind(ev.PullRequest)
		if !ok {
			return Topic{}, 0, false, nil
		}
		topic, err := prTopic(ev.PullRequest.PullRequest)
		if err != nil {
			return Topic{}, 0, false, err
		}
		return topic, kind, true, nil

	case ev.Review != nil:
		topic, err := prTopic(ev.Review.PullRequest)
		if err != nil {
			return Topic{}, 0, false, err
		}
		return topic, KindReview, true, nil
	}
	return Topic{}, 0, false, nil
}

func (c *Classifier) issuesKind(p *IssuesPayload) (Kind, bool) {
	switch p.Action {
	case actionOpened:
		return KindWrite, true
	case actionClosed, actionReopened, actionAssigned, actionUnassigned,
		actionLabeled, actionUnlabeled:
		return KindAssist, true
	case actionEdited:
		// Editing your own issue reads as authorship, someone else's
		// as assistance.
		if p.Issue.Author == c.username {
			return KindComment, true
		}
		return KindAssist, true
	}
	return 0, false
}

func (c *Classifier) issueCommentKind(p *IssueCommentPayload) (Kind, bool) {
	switch p.Action {
	case actionCreated:
		return KindComment, true
	case actionEdited:
		if p.CommentAuthor == c.username {
			return KindComment, true
		}
		return KindAssist, true
	case actionDeleted:
		return KindAssist, true
	}
	return 0, false
}

func (c *Classifier) pullRequestKind(p *PullRequestPayload) (Kind, bool) {
	switch p.Action {
	case actionOpened:
		return KindCode, true
	case actionClosed, actionReopened, actionAssigned, actionUnassigned,
		actionReviewRequested, actionReviewRequestRemoved,
		actionLabeled, actionUnlabeled, actionSynchronize:
		return KindAssist, true
	case actionEdited:
		if p.PullRequest.Author == c.username {
			return KindComment, true
		}
		return KindAssist, true
	}
	return 0, false
}

func issueTopic(is Issue) Topic {
	return Topic{URL: is.URL, Number: is.Number, Title: is.Title}
}

// prTopic converts PR data into a Topic. A PR without a display URL or
// title cannot be rendered, so the conversion fails instead of
// silently dropping the event.
func prTopic(pr PullRequest) (Topic, error) {
	if pr.URL == "" {
		return Topic{}, &MissingFieldError{Field: "display URL", Number: pr.Number}
	}
	if pr.Title == "" {
		return Topic{}, &MissingFieldError{Field: "title", Number: pr.Number}
	}
	return Topic{URL: pr.URL, Number: pr.Number, Title: pr.Title}, nil
}

// matchesOrg reports whether the repository name matches any of the
// patterns. Bare org names match every repository under the org;
// entries containing a slash are doublestar patterns against the full
// "owner/repo" name.
func matchesOrg(patterns []string, repoName string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		pat := p
		if !strings.Contains(p, "/") {
			pat = p + "/*"
		}
		if ok, err := doublestar.Match(pat, repoName); err == nil && ok {
			return true
		}
	}
	return false
}
