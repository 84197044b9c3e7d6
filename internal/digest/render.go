package digest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// topicSep is an EN space, wide enough to keep the kind glyphs
// readable between topic cells.
const topicSep = " "

// RepoMetadata is the resolved repository record the renderer needs.
type RepoMetadata struct {
	HTMLURL string
}

// RepoResolver resolves full repository metadata from the API locator
// stored in a RepoRef. Called once per distinct repository, in render
// order, one outstanding call at a time.
type RepoResolver interface {
	Resolve(ctx context.Context, apiURL string) (RepoMetadata, error)
}

// Renderer walks an aggregation in its fixed order and writes the
// digest. Any resolver failure aborts rendering; partial digests are
// not produced.
type Renderer struct {
	resolver RepoResolver
	opts     Options

	repoColor  *color.Color
	topicColor *color.Color
}

// NewRenderer returns a renderer using the given metadata resolver.
func NewRenderer(resolver RepoResolver, opts Options) *Renderer {
	return &Renderer{
		resolver:   resolver,
		opts:       opts,
		repoColor:  color.New(color.FgCyan, color.Bold),
		topicColor: color.New(color.FgYellow),
	}
}

// Render writes the digest for the aggregation to w. Output is
// byte-identical across runs for the same aggregation: repositories by
// name, topics by number, kinds in priority order.
func (r *Renderer) Render(ctx context.Context, agg *Aggregation, w io.Writer) error {
	for i, repo := range agg.Repos() {
		meta, err := r.resolver.Resolve(ctx, repo.Ref.URL)
		if err != nil {
			return fmt.Errorf("resolve repository %s: %w", repo.Ref.Name, err)
		}
		if meta.HTMLURL == "" {
			return &MissingRepoURLError{Repo: repo.Ref.Name}
		}

		if i > 0 {
			if r.opts.Compact {
				if _, err := io.WriteString(w, "; "); err != nil {
					return err
				}
			} else {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, r.repoLine(repo, meta)); err != nil {
			return err
		}
	}
	if agg.Len() > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) repoLine(repo RepoInteractions, meta RepoMetadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- *[%s](%s):*", r.repoColor.Sprint(repo.Ref.Name), meta.HTMLURL)

	for i, t := range repo.Topics {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(topicSep)
		for _, k := range t.Kinds {
			b.WriteString(k.Symbol())
		}
		title := t.Topic.Title
		if r.opts.SanitizeTitles {
			title = Sanitize(title)
		}
		ref := r.topicColor.Sprintf("#%d", t.Topic.Number)
		fmt.Fprintf(&b, " [%s](%s) (_%s_)", ref, t.Topic.URL, title)
	}
	return b.String()
}
