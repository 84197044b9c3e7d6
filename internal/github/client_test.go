package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsPage = `[
  {
    "id": "1", "type": "IssuesEvent", "public": true,
    "created_at": "2024-03-02T10:00:00Z",
    "repo": {"name": "acme/widgets", "url": "https://api.github.com/repos/acme/widgets"},
    "payload": {
      "action": "opened",
      "issue": {"html_url": "https://github.com/acme/widgets/issues/7", "number": 7,
                "title": "Crash on load", "user": {"login": "alice"}}
    }
  },
  {
    "id": "2", "type": "PullRequestReviewEvent", "public": true,
    "created_at": "2024-03-02T11:00:00Z",
    "repo": {"name": "acme/widgets", "url": "https://api.github.com/repos/acme/widgets"},
    "payload": {
      "pull_request": {"html_url": "https://github.com/acme/widgets/pull/12", "number": 12,
                       "title": "Add cache", "user": {"login": "bob"}}
    }
  },
  {
    "id": "3", "type": "WatchEvent", "public": true,
    "created_at": "2024-03-02T12:00:00Z",
    "repo": {"name": "acme/widgets", "url": "https://api.github.com/repos/acme/widgets"},
    "payload": {"action": "started"}
  }
]`

func TestListEvents(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, eventsPage)
	}))
	defer srv.Close()

	c := NewClient("tok-123", WithBaseURL(srv.URL))
	events, err := c.ListEvents(context.Background(), "alice", 100)
	require.NoError(t, err)

	assert.Equal(t, "/users/alice/events?per_page=100", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)

	require.Len(t, events, 3)

	issue := events[0]
	require.NotNil(t, issue.Issues)
	assert.Equal(t, "opened", issue.Issues.Action)
	assert.Equal(t, 7, issue.Issues.Issue.Number)
	assert.Equal(t, "alice", issue.Issues.Issue.Author)
	assert.Equal(t, "acme/widgets", issue.RepoName)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), issue.CreatedAt)

	review := events[1]
	require.NotNil(t, review.Review)
	assert.Equal(t, "Add cache", review.Review.PullRequest.Title)

	// Unknown event types pass through payload-less.
	watch := events[2]
	assert.Nil(t, watch.Issues)
	assert.Nil(t, watch.IssueComment)
	assert.Nil(t, watch.PullRequest)
	assert.Nil(t, watch.Review)
}

func TestListEventsNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	events, err := NewClient("", WithBaseURL(srv.URL)).ListEvents(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets", r.URL.Path)
		fmt.Fprint(w, `{"html_url": "https://github.com/acme/widgets"}`)
	}))
	defer srv.Close()

	meta, err := NewClient("", WithBaseURL(srv.URL)).GetRepo(context.Background(), srv.URL+"/repos/acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets", meta.HTMLURL)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).ListEvents(context.Background(), "ghost", 10)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "list events for ghost")
}
