package github

import (
	"encoding/json"
	"time"

	"github.com/joss/ghdigest/internal/digest"
)

// Wire shapes for GitHub's REST v3 event feed. Only the fields the
// digest consumes are declared; the rest of the payload is ignored.

type wireEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Public    bool            `json:"public"`
	CreatedAt time.Time       `json:"created_at"`
	Repo      wireRepo        `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
}

type wireRepo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type wireUser struct {
	Login string `json:"login"`
}

type wireIssue struct {
	HTMLURL string   `json:"html_url"`
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	User    wireUser `json:"user"`
}

type wirePullRequest struct {
	HTMLURL string    `json:"html_url"`
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	User    *wireUser `json:"user"`
}

type issuesPayload struct {
	Action string    `json:"action"`
	Issue  wireIssue `json:"issue"`
}

type issueCommentPayload struct {
	Action  string    `json:"action"`
	Issue   wireIssue `json:"issue"`
	Comment struct {
		User wireUser `json:"user"`
	} `json:"comment"`
}

type pullRequestPayload struct {
	Action      string          `json:"action"`
	PullRequest wirePullRequest `json:"pull_request"`
}

type reviewPayload struct {
	PullRequest wirePullRequest `json:"pull_request"`
}

type wireRepository struct {
	HTMLURL string `json:"html_url"`
}

// toEvent maps one wire event into the digest's input model. Payloads
// of unknown type, or ones that fail to decode, come through with no
// payload set so the classifier skips them.
func toEvent(w wireEvent) digest.Event {
	ev := digest.Event{
		Public:    w.Public,
		CreatedAt: w.CreatedAt,
		RepoName:  w.Repo.Name,
		RepoURL:   w.Repo.URL,
	}

	switch w.Type {
	case "IssuesEvent":
		var p issuesPayload
		if json.Unmarshal(w.Payload, &p) == nil {
			ev.Issues = &digest.IssuesPayload{Action: p.Action, Issue: toIssue(p.Issue)}
		}
	case "IssueCommentEvent":
		var p issueCommentPayload
		if json.Unmarshal(w.Payload, &p) == nil {
			ev.IssueComment = &digest.IssueCommentPayload{
				Action:        p.Action,
				Issue:         toIssue(p.Issue),
				CommentAuthor: p.Comment.User.Login,
			}
		}
	case "PullRequestEvent":
		var p pullRequestPayload
		if json.Unmarshal(w.Payload, &p) == nil {
			ev.PullRequest = &digest.PullRequestPayload{Action: p.Action, PullRequest: toPullRequest(p.PullRequest)}
		}
	case "PullRequestReviewEvent", "PullRequestReviewCommentEvent":
		var p reviewPayload
		if json.Unmarshal(w.Payload, &p) == nil {
			ev.Review = &digest.ReviewPayload{PullRequest: toPullRequest(p.PullRequest)}
		}
	}
	return ev
}

func toIssue(w wireIssue) digest.Issue {
	return digest.Issue{URL: w.HTMLURL, Number: w.Number, Title: w.Title, Author: w.User.Login}
}

func toPullRequest(w wirePullRequest) digest.PullRequest {
	pr := digest.PullRequest{URL: w.HTMLURL, Number: w.Number, Title: w.Title}
	if w.User != nil {
		pr.Author = w.User.Login
	}
	return pr
}
