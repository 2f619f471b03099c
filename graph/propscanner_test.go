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

type coveringRecord struct {
	from, edge, to string
	since          int64
	hasSince       bool
	status         string
	hasStatus      bool
}

func (r coveringRecord) Name() string { return "triple" }
func (r coveringRecord) Fields() []schema.FieldName {
	return []schema.FieldName{graph.FieldFrom, graph.FieldEdge, graph.FieldTo, "since", "status"}
}
func (r coveringRecord) PrimaryKey() []schema.FieldName {
	return []schema.FieldName{graph.FieldFrom, graph.FieldEdge, graph.FieldTo}
}
func (r coveringRecord) Get(f schema.FieldName) (kv.Element, bool) {
	switch f {
	case graph.FieldFrom:
		return r.from, true
	case graph.FieldEdge:
		return r.edge, true
	case graph.FieldTo:
		return r.to, true
	case "since":
		if !r.hasSince {
			return nil, false
		}
		return r.since, true
	case "status":
		if !r.hasStatus {
			return nil, false
		}
		return r.status, true
	default:
		return nil, false
	}
}

// TestPropertyScannerFilters covers S3: covering property filter scenarios.
func TestPropertyScannerFilters(t *testing.T) {
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("p1"))
	covering := graph.CoveringSpec{Fields: []string{"since", "status"}}
	m := graph.NewMaintainer(base, graph.Hexastore, &covering, store.KeySizeLimit())

	rec := coveringRecord{from: "A", edge: "KNOWS", to: "B", since: 2019, hasSince: true, status: "active", hasStatus: true}
	err := store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.Update(ctx, tx, nil, rec)
	})
	require.NoError(t, err)

	scanner := graph.NewScanner(base, graph.Hexastore, store.KeySizeLimit(), 8)
	ps := graph.NewPropertyScanner(scanner, covering)
	pattern := graph.Pattern{From: elem("A"), EdgeLabel: elem("KNOWS")}

	run := func(filters []graph.PropertyFilter) []graph.PropertyResult {
		var got []graph.PropertyResult
		err := store.WithTransaction(context.Background(), kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
			for r := range ps.Scan(ctx, tx, pattern, filters, true) {
				require.NoError(t, r.Err)
				got = append(got, r)
			}
			return nil
		})
		require.NoError(t, err)
		return got
	}

	statusActive := graph.PropertyFilter{Field: "status", Op: graph.OpEq, Value: "active"}
	since2020 := graph.PropertyFilter{Field: "since", Op: graph.OpGe, Value: int64(2020)}
	since2019 := graph.PropertyFilter{Field: "since", Op: graph.OpGe, Value: int64(2019)}
	sinceNil := graph.PropertyFilter{Field: "since", Op: graph.OpIsNil}

	assert.Empty(t, run([]graph.PropertyFilter{statusActive, since2020}))
	assert.Len(t, run([]graph.PropertyFilter{statusActive, since2019}), 1)
	assert.Empty(t, run([]graph.PropertyFilter{sinceNil}))

	got := run([]graph.PropertyFilter{statusActive, since2019})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2019), got[0].Properties["since"])
	assert.Equal(t, "active", got[0].Properties["status"])
}
