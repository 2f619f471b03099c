package graph_test

import (
	"context"
	"testing"

	"graphreason/graph"
	"graphreason/kv"
	"graphreason/kv/memtest"
	"graphreason/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tripleRecord is a minimal schema.Record for a bare (from, edge, to)
// edge with no covering fields, used by every test in this file.
type tripleRecord struct {
	from, edge, to string
}

func (r tripleRecord) Name() string { return "triple" }
func (r tripleRecord) Fields() []schema.FieldName {
	return []schema.FieldName{graph.FieldFrom, graph.FieldEdge, graph.FieldTo}
}
func (r tripleRecord) Get(f schema.FieldName) (kv.Element, bool) {
	switch f {
	case graph.FieldFrom:
		return r.from, true
	case graph.FieldEdge:
		return r.edge, true
	case graph.FieldTo:
		return r.to, true
	default:
		return nil, false
	}
}
func (r tripleRecord) PrimaryKey() []schema.FieldName {
	return []schema.FieldName{graph.FieldFrom, graph.FieldEdge, graph.FieldTo}
}

func elem(v string) *kv.Element {
	var e kv.Element = v
	return &e
}

func writeEdges(t *testing.T, store *memtest.Store, base kv.Subspace, strategy graph.IndexStrategy, edges []tripleRecord) {
	t.Helper()
	m := graph.NewMaintainer(base, strategy, nil, store.KeySizeLimit())
	for _, e := range edges {
		err := store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
			return m.Update(ctx, tx, nil, e)
		})
		require.NoError(t, err)
	}
}

func scanAll(t *testing.T, store *memtest.Store, base kv.Subspace, strategy graph.IndexStrategy, p graph.Pattern) []graph.Edge {
	t.Helper()
	s := graph.NewScanner(base, strategy, store.KeySizeLimit(), 8)

	var got []graph.Edge
	err := store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		for r := range s.Scan(ctx, tx, p, true) {
			require.NoError(t, r.Err)
			got = append(got, r.Edge)
		}
		return nil
	})
	require.NoError(t, err)
	return got
}

func edgeSet(edges []graph.Edge) map[[3]string]bool {
	out := make(map[[3]string]bool, len(edges))
	for _, e := range edges {
		out[[3]string{e.From.(string), e.EdgeLabel.(string), e.To.(string)}] = true
	}
	return out
}

// TestHexastoreRoundTrip covers S1: strategy round-trip queries.
func TestHexastoreRoundTrip(t *testing.T) {
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("g1"))
	edges := []tripleRecord{
		{"A", "knows", "B"},
		{"B", "knows", "C"},
		{"A", "likes", "B"},
	}
	writeEdges(t, store, base, graph.Hexastore, edges)

	cases := []struct {
		name string
		p    graph.Pattern
		want [][3]string
	}{
		{"from=A", graph.Pattern{From: elem("A")}, [][3]string{{"A", "knows", "B"}, {"A", "likes", "B"}}},
		{"edge=knows", graph.Pattern{EdgeLabel: elem("knows")}, [][3]string{{"A", "knows", "B"}, {"B", "knows", "C"}}},
		{"to=B", graph.Pattern{To: elem("B")}, [][3]string{{"A", "knows", "B"}, {"A", "likes", "B"}}},
		{"from=A,to=B", graph.Pattern{From: elem("A"), To: elem("B")}, [][3]string{{"A", "knows", "B"}, {"A", "likes", "B"}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := edgeSet(scanAll(t, store, base, graph.Hexastore, c.p))
			want := make(map[[3]string]bool, len(c.want))
			for _, w := range c.want {
				want[w] = true
			}
			assert.Equal(t, want, got)
		})
	}
}

// TestAdjacencyWildcardLabel covers S2: a wildcard label with a bound
// `from` is served by the OUT ordering's `from` prefix under adjacency.
func TestAdjacencyWildcardLabel(t *testing.T) {
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("g2"))
	edges := []tripleRecord{
		{"A", "knows", "B"},
		{"B", "knows", "C"},
		{"A", "likes", "B"},
	}
	writeEdges(t, store, base, graph.Adjacency, edges)

	got := edgeSet(scanAll(t, store, base, graph.Adjacency, graph.Pattern{From: elem("A")}))
	want := map[[3]string]bool{
		{"A", "knows", "B"}: true,
		{"A", "likes", "B"}: true,
	}
	assert.Equal(t, want, got)
}

// TestStrategyConsistency covers testable property 3: every strategy
// returns the same result set as adjacency for the same query.
func TestStrategyConsistency(t *testing.T) {
	edges := []tripleRecord{
		{"A", "knows", "B"},
		{"B", "knows", "C"},
		{"A", "likes", "B"},
		{"C", "knows", "A"},
	}
	pattern := graph.Pattern{EdgeLabel: elem("knows")}

	adjStore := memtest.New(0)
	adjBase := kv.NewSubspace([]byte("adj"))
	writeEdges(t, adjStore, adjBase, graph.Adjacency, edges)
	want := edgeSet(scanAll(t, adjStore, adjBase, graph.Adjacency, pattern))

	for _, strategy := range []graph.IndexStrategy{graph.TripleStore, graph.Hexastore} {
		store := memtest.New(0)
		base := kv.NewSubspace([]byte("s"))
		writeEdges(t, store, base, strategy, edges)
		got := edgeSet(scanAll(t, store, base, strategy, pattern))
		assert.Equal(t, want, got)
	}
}

func TestComputeKeysMatchesWrittenKeys(t *testing.T) {
	base := kv.NewSubspace([]byte("ck"))
	m := graph.NewMaintainer(base, graph.Hexastore, nil, 10000)
	rec := tripleRecord{"A", "knows", "B"}

	keys, err := m.ComputeKeys(rec)
	require.NoError(t, err)
	assert.Len(t, keys, 6)

	store := memtest.New(0)
	err = store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.Update(ctx, tx, nil, rec)
	})
	require.NoError(t, err)

	for _, k := range keys {
		err = store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
			v, err := tx.GetValue(ctx, k, true)
			require.NoError(t, err)
			assert.NotNil(t, v)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestMaintainerMissingFieldFails(t *testing.T) {
	base := kv.NewSubspace([]byte("mf"))
	m := graph.NewMaintainer(base, graph.Adjacency, nil, 10000)
	store := memtest.New(0)

	bad := missingToRecord{from: "A", edge: "knows"}
	err := store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.Update(ctx, tx, nil, bad)
	})
	assert.Error(t, err)
}

type missingToRecord struct{ from, edge string }

func (r missingToRecord) Name() string                     { return "triple" }
func (r missingToRecord) Fields() []schema.FieldName        { return nil }
func (r missingToRecord) PrimaryKey() []schema.FieldName    { return nil }
func (r missingToRecord) Get(f schema.FieldName) (kv.Element, bool) {
	switch f {
	case graph.FieldFrom:
		return r.from, true
	case graph.FieldEdge:
		return r.edge, true
	default:
		return nil, false
	}
}
