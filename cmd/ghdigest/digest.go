package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/ghdigest/internal/auth"
	"github.com/joss/ghdigest/internal/config"
	"github.com/joss/ghdigest/internal/digest"
	"github.com/joss/ghdigest/internal/github"
	"github.com/joss/ghdigest/internal/logging"
	"github.com/joss/ghdigest/internal/store"
	"github.com/joss/ghdigest/internal/tui"
)

const defaultNEvents = 1000

// digestFlags are the command-line knobs of a digest run.
type digestFlags struct {
	eventCutoff time.Duration
	nEvents     int
	includeOrgs []string
	excludeOrgs []string
	username    string
	token       string
	compact     bool
	noSanitize  bool
	noAssist    bool
	noCache     bool
}

func newDigestFlags() *digestFlags {
	return &digestFlags{}
}

func (f *digestFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.DurationVar(&f.eventCutoff, "event-cutoff", 7*24*time.Hour, "Event cutoff by creation date")
	pf.IntVar(&f.nEvents, "n-events", defaultNEvents, "Number of events to fetch")
	pf.StringSliceVar(&f.includeOrgs, "include-orgs", nil, "Only include these orgs (names or owner/repo patterns)")
	pf.StringSliceVar(&f.excludeOrgs, "exclude-orgs", nil, "Exclude these orgs (names or owner/repo patterns)")
	pf.StringVar(&f.username, "username", "", "GitHub username to digest")
	pf.StringVar(&f.token, "token", "", "User access token (default $GITHUB_USER_ACCESS_TOKEN)")
	pf.BoolVar(&f.compact, "compact", false, "Join repositories on a single line")
	pf.BoolVar(&f.noSanitize, "no-sanitize", false, "Keep topic titles verbatim")
	pf.BoolVar(&f.noAssist, "no-assist", false, "Drop assist-only interactions (labels, closes, assignments)")
	pf.BoolVar(&f.noCache, "no-cache", false, "Skip the local repository-metadata cache")
}

// settings is the fully resolved configuration of one run, after
// merging flags > environment > config file > defaults.
type settings struct {
	username string
	token    string
	clientID string
	apiBase  string
	nEvents  int
	window   time.Duration
	cacheTTL time.Duration
	useCache bool
	opts     digest.Options
}

func resolveSettings(cmd *cobra.Command, f *digestFlags) (settings, error) {
	file, err := config.LoadFile()
	if err != nil {
		return settings{}, err
	}
	env := config.LoadEnv()

	st := settings{
		username: f.username,
		token:    f.token,
		clientID: env.ClientID,
		apiBase:  env.APIBase,
		nEvents:  f.nEvents,
		window:   f.eventCutoff,
		cacheTTL: store.DefaultTTL,
		useCache: !f.noCache && !file.Cache.Disabled,
		opts: digest.Options{
			IncludeOrgs:    f.includeOrgs,
			ExcludeOrgs:    f.excludeOrgs,
			TrackAssist:    !f.noAssist,
			SanitizeTitles: !f.noSanitize,
			Compact:        f.compact,
		},
	}

	if st.username == "" {
		st.username = env.Username
	}
	if st.username == "" {
		st.username = file.Username
	}
	if st.username == "" {
		return settings{}, fmt.Errorf("no username: pass --username, set GHDIGEST_USERNAME, or add it to the config file")
	}

	if st.token == "" {
		st.token = env.Token
	}
	if st.clientID == "" {
		st.clientID = file.ClientID
	}

	if !cmd.Flags().Changed("n-events") && file.NEvents > 0 {
		st.nEvents = file.NEvents
	}
	if !cmd.Flags().Changed("event-cutoff") && file.EventCutoff != "" {
		window, err := time.ParseDuration(file.EventCutoff)
		if err != nil {
			return settings{}, fmt.Errorf("config event_cutoff: %w", err)
		}
		st.window = window
	}
	if !cmd.Flags().Changed("include-orgs") && len(file.IncludeOrgs) > 0 {
		st.opts.IncludeOrgs = file.IncludeOrgs
	}
	if !cmd.Flags().Changed("exclude-orgs") && len(file.ExcludeOrgs) > 0 {
		st.opts.ExcludeOrgs = file.ExcludeOrgs
	}
	if file.Cache.TTL != "" {
		ttl, err := time.ParseDuration(file.Cache.TTL)
		if err != nil {
			return settings{}, fmt.Errorf("config cache.ttl: %w", err)
		}
		st.cacheTTL = ttl
	}

	return st, nil
}

// session is one prepared digest run: the folded aggregation plus the
// collaborators the renderer still needs.
type session struct {
	settings settings
	agg      *digest.Aggregation
	events   int
	client   *github.Client
	store    *store.Store // nil when the cache is unavailable or disabled
	started  time.Time
}

// collect fetches, validates, classifies and folds the event window.
func collect(ctx context.Context, cmd *cobra.Command, f *digestFlags) (*session, error) {
	st, err := resolveSettings(cmd, f)
	if err != nil {
		return nil, err
	}
	log := logging.New("digest")

	token := st.token
	if token == "" {
		token, err = auth.NewProvider(st.clientID).Token(ctx)
		if err != nil {
			return nil, err
		}
	}

	var clientOpts []github.Option
	if st.apiBase != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(st.apiBase))
	}
	client := github.NewClient(token, clientOpts...)

	sess := &session{settings: st, client: client, started: time.Now()}

	events, err := client.ListEvents(ctx, st.username, st.nEvents)
	if err != nil {
		return nil, err
	}
	sess.events = len(events)

	cutoff := time.Now().Add(-st.window)
	if err := digest.ValidateWindow(events, cutoff, st.nEvents, st.window); err != nil {
		return nil, err
	}

	agg, err := digest.Build(events, st.username, cutoff, st.opts)
	if err != nil {
		return nil, err
	}
	sess.agg = agg

	if st.useCache {
		s, err := store.Open(config.DataDir())
		if err != nil {
			log.Warn("cache_unavailable", nil, err)
		} else {
			sess.store = s
		}
	}

	return sess, nil
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
	}
}

// resolver returns the repo-metadata resolver: the GitHub client,
// fronted by the local cache when available.
func (s *session) resolver() digest.RepoResolver {
	if s.store == nil {
		return s.client
	}
	return store.NewCachedResolver(s.store, s.client, s.settings.cacheTTL)
}

// recordRun appends this run to the local history. Best effort.
func (s *session) recordRun(ctx context.Context) {
	if s.store == nil {
		return
	}
	run := store.NewRun(s.settings.username, s.events, s.agg.Len(), time.Since(s.started))
	if err := s.store.RecordRun(ctx, run); err != nil {
		logging.New("digest").Warn("record_run_failed", nil, err)
	}
}

func runDigest(cmd *cobra.Command, f *digestFlags, out io.Writer) error {
	ctx := cmd.Context()
	sess, err := collect(ctx, cmd, f)
	if err != nil {
		return err
	}
	defer sess.close()

	// Render into a buffer first: a resolver failure halfway through
	// must not leave a partial digest on stdout.
	var buf bytes.Buffer
	renderer := digest.NewRenderer(sess.resolver(), sess.settings.opts)
	if err := renderer.Render(ctx, sess.agg, &buf); err != nil {
		return err
	}
	if _, err := buf.WriteTo(out); err != nil {
		return err
	}

	sess.recordRun(ctx)
	return nil
}

func browseCmd(f *digestFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the digest interactively",
		Long:  "Fetch and aggregate activity, then browse repositories and topics in a terminal UI.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := collect(cmd.Context(), cmd, f)
			if err != nil {
				return err
			}
			defer sess.close()
			return tui.Browse(sess.agg)
		},
	}
}
