package digest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves repository metadata from a fixed map and records
// lookup order.
type fakeResolver struct {
	repos   map[string]RepoMetadata
	err     error
	lookups []string
}

func (f *fakeResolver) Resolve(_ context.Context, apiURL string) (RepoMetadata, error) {
	f.lookups = append(f.lookups, apiURL)
	if f.err != nil {
		return RepoMetadata{}, f.err
	}
	return f.repos[apiURL], nil
}

func renderAgg() *Aggregation {
	agg := NewAggregation()
	agg.Add(Interaction{
		Repo:  RepoRef{Name: "zeta/z", URL: "api/zeta"},
		Topic: Topic{URL: "https://github.com/zeta/z/issues/1", Number: 1, Title: "One"},
		Kind:  KindWrite,
	})
	agg.Add(Interaction{
		Repo:  RepoRef{Name: "acme/widgets", URL: "api/acme"},
		Topic: Topic{URL: "https://github.com/acme/widgets/pull/12", Number: 12, Title: "Add cache"},
		Kind:  KindReview,
	})
	agg.Add(Interaction{
		Repo:  RepoRef{Name: "acme/widgets", URL: "api/acme"},
		Topic: Topic{URL: "https://github.com/acme/widgets/pull/12", Number: 12, Title: "Add cache"},
		Kind:  KindCode,
	})
	agg.Add(Interaction{
		Repo:  RepoRef{Name: "acme/widgets", URL: "api/acme"},
		Topic: Topic{URL: "https://github.com/acme/widgets/issues/3", Number: 3, Title: "Bad <title>"},
		Kind:  KindComment,
	})
	return agg
}

func testResolver() *fakeResolver {
	return &fakeResolver{repos: map[string]RepoMetadata{
		"api/acme": {HTMLURL: "https://github.com/acme/widgets"},
		"api/zeta": {HTMLURL: "https://github.com/zeta/z"},
	}}
}

func TestRenderDigest(t *testing.T) {
	color.NoColor = true

	r := NewRenderer(testResolver(), DefaultOptions())
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), renderAgg(), &buf))

	want := "- *[acme/widgets](https://github.com/acme/widgets):*" +
		" 💬 [#3](https://github.com/acme/widgets/issues/3) (_Bad title_)," +
		" 🔨🕵️ [#12](https://github.com/acme/widgets/pull/12) (_Add cache_)\n" +
		"- *[zeta/z](https://github.com/zeta/z):*" +
		" ✍️ [#1](https://github.com/zeta/z/issues/1) (_One_)\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderDeterministic(t *testing.T) {
	color.NoColor = true

	agg := renderAgg()
	var first, second bytes.Buffer
	require.NoError(t, NewRenderer(testResolver(), DefaultOptions()).Render(context.Background(), agg, &first))
	require.NoError(t, NewRenderer(testResolver(), DefaultOptions()).Render(context.Background(), agg, &second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRenderResolvesInRepoOrder(t *testing.T) {
	color.NoColor = true

	resolver := testResolver()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(resolver, DefaultOptions()).Render(context.Background(), renderAgg(), &buf))
	assert.Equal(t, []string{"api/acme", "api/zeta"}, resolver.lookups)
}

func TestRenderCompact(t *testing.T) {
	color.NoColor = true

	opts := DefaultOptions()
	opts.Compact = true
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(testResolver(), opts).Render(context.Background(), renderAgg(), &buf))

	out := buf.String()
	assert.Contains(t, out, "; - *[zeta/z]")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestRenderMissingRepoURL(t *testing.T) {
	resolver := testResolver()
	resolver.repos["api/acme"] = RepoMetadata{}

	var buf bytes.Buffer
	err := NewRenderer(resolver, DefaultOptions()).Render(context.Background(), renderAgg(), &buf)
	var missing *MissingRepoURLError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "acme/widgets", missing.Repo)
}

func TestRenderResolverFailureAborts(t *testing.T) {
	resolver := testResolver()
	resolver.err = errors.New("boom")

	var buf bytes.Buffer
	err := NewRenderer(resolver, DefaultOptions()).Render(context.Background(), renderAgg(), &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len(), "no partial digest on failure")
}

func TestRenderUnsanitizedTitles(t *testing.T) {
	color.NoColor = true

	opts := DefaultOptions()
	opts.SanitizeTitles = false
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(testResolver(), opts).Render(context.Background(), renderAgg(), &buf))
	assert.Contains(t, buf.String(), "(_Bad <title>_)")
}

func TestRenderEmptyAggregation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(testResolver(), DefaultOptions()).Render(context.Background(), NewAggregation(), &buf))
	assert.Zero(t, buf.Len())
}
