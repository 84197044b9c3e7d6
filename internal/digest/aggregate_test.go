package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interaction(repo string, number int, kind Kind) Interaction {
	return Interaction{
		Repo:  RepoRef{Name: repo, URL: "https://api.github.com/repos/" + repo},
		Topic: Topic{URL: "https://github.com/" + repo + "/issues/1", Number: number, Title: "first title"},
		Kind:  kind,
	}
}

func TestAggregationIdempotentMerge(t *testing.T) {
	once := NewAggregation()
	once.Add(interaction("acme/widgets", 1, KindComment))

	twice := NewAggregation()
	twice.Add(interaction("acme/widgets", 1, KindComment))
	twice.Add(interaction("acme/widgets", 1, KindComment))

	assert.Equal(t, once.Repos(), twice.Repos())
}

func TestAggregationMultiKindTopic(t *testing.T) {
	agg := NewAggregation()
	agg.Add(interaction("acme/widgets", 12, KindReview))
	agg.Add(interaction("acme/widgets", 12, KindCode))

	repos := agg.Repos()
	require.Len(t, repos, 1)
	require.Len(t, repos[0].Topics, 1)
	// Code before Review regardless of arrival order.
	assert.Equal(t, []Kind{KindCode, KindReview}, repos[0].Topics[0].Kinds)
}

func TestAggregationOrderingDeterminism(t *testing.T) {
	forward := NewAggregation()
	backward := NewAggregation()

	ins := []Interaction{
		interaction("zeta/z", 3, KindWrite),
		interaction("acme/widgets", 9, KindAssist),
		interaction("acme/widgets", 2, KindComment),
		interaction("mid/repo", 1, KindCode),
	}
	for _, in := range ins {
		forward.Add(in)
	}
	for i := len(ins) - 1; i >= 0; i-- {
		backward.Add(ins[i])
	}

	assert.Equal(t, forward.Repos(), backward.Repos())

	repos := forward.Repos()
	require.Len(t, repos, 3)
	assert.Equal(t, "acme/widgets", repos[0].Ref.Name)
	assert.Equal(t, "mid/repo", repos[1].Ref.Name)
	assert.Equal(t, "zeta/z", repos[2].Ref.Name)
	assert.Equal(t, 2, repos[0].Topics[0].Topic.Number)
	assert.Equal(t, 9, repos[0].Topics[1].Topic.Number)
}

func TestAggregationFirstSeenWins(t *testing.T) {
	agg := NewAggregation()
	agg.Add(interaction("acme/widgets", 5, KindWrite))

	later := interaction("acme/widgets", 5, KindComment)
	later.Topic.Title = "edited title"
	later.Topic.URL = "https://example.com/elsewhere"
	later.Repo.URL = "https://api.github.com/other"
	agg.Add(later)

	repos := agg.Repos()
	require.Len(t, repos, 1)
	assert.Equal(t, "https://api.github.com/repos/acme/widgets", repos[0].Ref.URL)
	require.Len(t, repos[0].Topics, 1)
	assert.Equal(t, "first title", repos[0].Topics[0].Topic.Title)
	assert.Equal(t, []Kind{KindWrite, KindComment}, repos[0].Topics[0].Kinds)
}

func TestBuild(t *testing.T) {
	events := []Event{
		issueEvent("opened", "alice"),
		prEvent("opened", "alice"),
		prEvent("edited", "bob"),
		baseEvent(), // no payload, skipped
	}

	agg, err := Build(events, "alice", testCutoff, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, agg.Len())

	repos := agg.Repos()
	require.Len(t, repos[0].Topics, 2)
	assert.Equal(t, 7, repos[0].Topics[0].Topic.Number)
	assert.Equal(t, []Kind{KindWrite}, repos[0].Topics[0].Kinds)
	assert.Equal(t, 12, repos[0].Topics[1].Topic.Number)
	assert.Equal(t, []Kind{KindCode, KindAssist}, repos[0].Topics[1].Kinds)
}

func TestBuildAbortsOnMalformedPR(t *testing.T) {
	bad := prEvent("opened", "alice")
	bad.PullRequest.PullRequest.Title = ""

	_, err := Build([]Event{issueEvent("opened", "alice"), bad}, "alice", testCutoff, DefaultOptions())
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
}
