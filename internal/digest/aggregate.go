package digest

import (
	"cmp"
	"slices"
	"time"
)

// orderedMap stores values under a key extracted from the value itself.
// Iteration order is by key, never by insertion; insert keeps the
// first-seen value for a key so fields outside the key never get
// overwritten by later events. This makes the "identity ignores some
// fields" rule of RepoRef and Topic explicit in one place.
type orderedMap[K cmp.Ordered, V any] struct {
	keyOf func(V) K
	items map[K]V
}

func newOrderedMap[K cmp.Ordered, V any](keyOf func(V) K) *orderedMap[K, V] {
	return &orderedMap[K, V]{keyOf: keyOf, items: make(map[K]V)}
}

// insert stores v unless a value with the same key already exists, and
// returns the value now held for the key.
func (m *orderedMap[K, V]) insert(v V) V {
	k := m.keyOf(v)
	if existing, ok := m.items[k]; ok {
		return existing
	}
	m.items[k] = v
	return v
}

func (m *orderedMap[K, V]) len() int { return len(m.items) }

// values returns the stored values in key order.
func (m *orderedMap[K, V]) values() []V {
	keys := make([]K, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	vs := make([]V, 0, len(keys))
	for _, k := range keys {
		vs = append(vs, m.items[k])
	}
	return vs
}

type topicAgg struct {
	topic Topic
	kinds map[Kind]struct{}
}

type repoAgg struct {
	ref    RepoRef
	topics *orderedMap[int, *topicAgg]
}

// Aggregation is the folded result of a digest run: a strict mapping
// RepoRef -> Topic -> set of interaction kinds, ordered by repo name
// and topic number regardless of event arrival order.
type Aggregation struct {
	repos *orderedMap[string, *repoAgg]
}

// NewAggregation returns an empty aggregation.
func NewAggregation() *Aggregation {
	return &Aggregation{
		repos: newOrderedMap(func(r *repoAgg) string { return r.ref.Name }),
	}
}

// Add folds one classified interaction into the aggregation. Adding the
// same interaction twice is a no-op; the fold has no failure modes.
func (a *Aggregation) Add(in Interaction) {
	repo := a.repos.insert(&repoAgg{
		ref:    in.Repo,
		topics: newOrderedMap(func(t *topicAgg) int { return t.topic.Number }),
	})
	topic := repo.topics.insert(&topicAgg{
		topic: in.Topic,
		kinds: make(map[Kind]struct{}),
	})
	topic.kinds[in.Kind] = struct{}{}
}

// Len returns the number of distinct repositories.
func (a *Aggregation) Len() int { return a.repos.len() }

// TopicInteractions is one topic with its deduplicated kinds in
// priority order.
type TopicInteractions struct {
	Topic Topic
	Kinds []Kind
}

// RepoInteractions is one repository with its topics in number order.
type RepoInteractions struct {
	Ref    RepoRef
	Topics []TopicInteractions
}

// Repos returns a snapshot of the aggregation in rendering order:
// repositories by name, topics by number, kinds by priority.
func (a *Aggregation) Repos() []RepoInteractions {
	out := make([]RepoInteractions, 0, a.repos.len())
	for _, r := range a.repos.values() {
		ri := RepoInteractions{Ref: r.ref}
		for _, t := range r.topics.values() {
			kinds := make([]Kind, 0, len(t.kinds))
			for k := range t.kinds {
				kinds = append(kinds, k)
			}
			slices.Sort(kinds)
			ri.Topics = append(ri.Topics, TopicInteractions{Topic: t.topic, Kinds: kinds})
		}
		out = append(out, ri)
	}
	return out
}

// Build classifies a fetched event window and folds it into an
// Aggregation. The first malformed event aborts the whole build.
func Build(events []Event, username string, cutoff time.Time, opts Options) (*Aggregation, error) {
	c := NewClassifier(username, cutoff, opts)
	agg := NewAggregation()
	for _, ev := range events {
		in, err := c.Classify(ev)
		if err != nil {
			return nil, err
		}
		if in == nil {
			continue
		}
		agg.Add(*in)
	}
	return agg, nil
}
