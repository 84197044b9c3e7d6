package store

import (
	"context"
	"time"

	"github.com/joss/ghdigest/internal/digest"
	"github.com/joss/ghdigest/internal/logging"
)

// DefaultTTL is how long a cached repository display URL is trusted.
const DefaultTTL = 24 * time.Hour

// CachedResolver fronts a digest.RepoResolver with the local repo
// cache. Cache failures are logged and fall through to the wrapped
// resolver; only the wrapped resolver's errors are fatal.
type CachedResolver struct {
	store *Store
	next  digest.RepoResolver
	ttl   time.Duration
	log   *logging.Logger
}

// NewCachedResolver wraps next with the store. A zero ttl means
// DefaultTTL.
func NewCachedResolver(s *Store, next digest.RepoResolver, ttl time.Duration) *CachedResolver {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &CachedResolver{store: s, next: next, ttl: ttl, log: logging.New("store")}
}

// Resolve implements digest.RepoResolver.
func (r *CachedResolver) Resolve(ctx context.Context, apiURL string) (digest.RepoMetadata, error) {
	if htmlURL, err := r.store.GetRepoURL(ctx, apiURL, r.ttl); err != nil {
		r.log.Warn("repo_cache_read_failed", map[string]any{"url": apiURL}, err)
	} else if htmlURL != "" {
		r.log.Debug("repo_cache_hit", map[string]any{"url": apiURL})
		return digest.RepoMetadata{HTMLURL: htmlURL}, nil
	}

	meta, err := r.next.Resolve(ctx, apiURL)
	if err != nil {
		return digest.RepoMetadata{}, err
	}
	if meta.HTMLURL != "" {
		if err := r.store.PutRepoURL(ctx, apiURL, meta.HTMLURL); err != nil {
			r.log.Warn("repo_cache_write_failed", map[string]any{"url": apiURL}, err)
		}
	}
	return meta, nil
}
