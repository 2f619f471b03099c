package graph_test

import (
	"context"
	"testing"

	"graphreason/graph"
	"graphreason/kv"
	"graphreason/kv/memtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBFSDepthBound covers S4: a chain A→B→C→D→E with maxDepth=2 emits
// only (0,A),(1,B),(2,C).
func TestBFSDepthBound(t *testing.T) {
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("bfs"))
	edges := []tripleRecord{
		{"A", "", "B"},
		{"B", "", "C"},
		{"C", "", "D"},
		{"D", "", "E"},
	}
	writeEdges(t, store, base, graph.Adjacency, edges)

	scanner := graph.NewScanner(base, graph.Adjacency, store.KeySizeLimit(), 8)
	tv := graph.NewTraverser(store, scanner, 64)

	var start kv.Element = "A"
	var got []graph.LeveledNode
	for r := range tv.BFS(context.Background(), start, 2, nil, graph.Outgoing, 100, false) {
		require.NoError(t, r.Err)
		got = append(got, r.Node)
	}

	require.Len(t, got, 3)
	assert.Equal(t, graph.LeveledNode{Depth: 0, Node: "A"}, got[0])
	assert.Equal(t, graph.LeveledNode{Depth: 1, Node: "B"}, got[1])
	assert.Equal(t, graph.LeveledNode{Depth: 2, Node: "C"}, got[2])
}

func TestTraverseBoundedResumes(t *testing.T) {
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("bnd"))
	edges := []tripleRecord{
		{"A", "", "B"},
		{"B", "", "C"},
		{"C", "", "D"},
	}
	writeEdges(t, store, base, graph.Adjacency, edges)

	scanner := graph.NewScanner(base, graph.Adjacency, store.KeySizeLimit(), 8)
	tv := graph.NewTraverser(store, scanner, 64)

	var start kv.Element = "A"
	nodes, cursor, complete, err := tv.TraverseBounded(context.Background(), start, 10, nil, graph.Outgoing, 2, nil, false)
	require.NoError(t, err)
	assert.False(t, complete)
	require.NotNil(t, cursor)
	assert.Len(t, nodes, 2)

	encoded, err := cursor.Encode()
	require.NoError(t, err)

	decoded, err := graph.DecodeCursor(encoded)
	require.NoError(t, err)

	more, cursor2, complete2, err := tv.TraverseBounded(context.Background(), start, 10, nil, graph.Outgoing, 10, &decoded, false)
	require.NoError(t, err)
	assert.True(t, complete2)
	assert.Nil(t, cursor2)
	assert.NotEmpty(t, more)
}
