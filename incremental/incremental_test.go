package incremental_test

import (
	"context"
	"testing"

	"graphreason/incremental"
	"graphreason/kv"
	"graphreason/kv/memtest"
	"graphreason/owl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMaintainer(t *testing.T, o *owl.Ontology) (*incremental.Maintainer, *memtest.Store) {
	t.Helper()
	store := memtest.New(0)
	base := kv.NewSubspace([]byte("dred"))
	m, err := incremental.NewMaintainer(base, incremental.ClassHierarchyMaterializer{Ontology: o}, nil, 0, zap.NewNop())
	require.NoError(t, err)
	return m, store
}

// TestDRedRederivation covers S5: Employee ⊑ Person, Manager ⊑ Employee,
// asserting Manager(alice) and Employee(alice) both derive Person(alice)
// independently; deleting Employee(alice) still leaves Person(alice)
// valid via the Manager chain.
func TestDRedRederivation(t *testing.T) {
	o := owl.New()
	o.DeclareClass("Person")
	o.DeclareClass("Employee")
	o.DeclareClass("Manager")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Employee"), Super: owl.Atomic("Person")}))
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Manager"), Super: owl.Atomic("Employee")}))

	m, store := newTestMaintainer(t, o)
	ctx := context.Background()

	manager := incremental.Triple{S: "alice", P: incremental.TypePredicate, O: "Manager"}
	employee := incremental.Triple{S: "alice", P: incremental.TypePredicate, O: "Employee"}
	person := incremental.Triple{S: "alice", P: incremental.TypePredicate, O: "Person"}

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		if err := m.AddTriple(ctx, tx, manager); err != nil {
			return err
		}
		return m.AddTriple(ctx, tx, employee)
	}))

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.DeleteTriple(ctx, tx, employee)
	}))

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		valid, err := personStillValid(ctx, tx, m, person)
		if err != nil {
			return err
		}
		assert.True(t, valid, "Person(alice) should remain valid via the Manager chain")
		return nil
	}))
}

// TestDRedIdempotence covers invariant 7: insert(t); delete(t) restores
// the materialization to its pre-insert state once no independent
// derivation survives.
func TestDRedIdempotence(t *testing.T) {
	o := owl.New()
	o.DeclareClass("Employee")
	o.DeclareClass("Person")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Employee"), Super: owl.Atomic("Person")}))

	m, store := newTestMaintainer(t, o)
	ctx := context.Background()
	employee := incremental.Triple{S: "bob", P: incremental.TypePredicate, O: "Employee"}
	person := incremental.Triple{S: "bob", P: incremental.TypePredicate, O: "Person"}

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.AddTriple(ctx, tx, employee)
	}))
	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		valid, err := personStillValid(ctx, tx, m, person)
		require.NoError(t, err)
		assert.True(t, valid)
		return nil
	}))

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.DeleteTriple(ctx, tx, employee)
	}))
	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		valid, err := personStillValid(ctx, tx, m, person)
		require.NoError(t, err)
		assert.False(t, valid, "Person(bob) has no remaining derivation and must not still be valid")
		return nil
	}))
}

// TestDRedMonotonicityOfUnrelatedFacts covers invariant 8: deleting t
// must not disturb a fact t0 asserted and derived independently of t.
func TestDRedMonotonicityOfUnrelatedFacts(t *testing.T) {
	o := owl.New()
	o.DeclareClass("Employee")
	o.DeclareClass("Person")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Employee"), Super: owl.Atomic("Person")}))

	m, store := newTestMaintainer(t, o)
	ctx := context.Background()

	aliceEmployee := incremental.Triple{S: "alice", P: incremental.TypePredicate, O: "Employee"}
	bobEmployee := incremental.Triple{S: "bob", P: incremental.TypePredicate, O: "Employee"}
	bobPerson := incremental.Triple{S: "bob", P: incremental.TypePredicate, O: "Person"}

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		if err := m.AddTriple(ctx, tx, aliceEmployee); err != nil {
			return err
		}
		return m.AddTriple(ctx, tx, bobEmployee)
	}))

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		return m.DeleteTriple(ctx, tx, aliceEmployee)
	}))

	require.NoError(t, store.WithTransaction(ctx, kv.TxConfig{}, func(ctx context.Context, tx kv.Transaction) error {
		valid, err := personStillValid(ctx, tx, m, bobPerson)
		require.NoError(t, err)
		assert.True(t, valid, "unrelated Person(bob) must remain valid after deleting Employee(alice)")
		return nil
	}))
}

func personStillValid(ctx context.Context, tx kv.Transaction, m *incremental.Maintainer, t incremental.Triple) (bool, error) {
	return m.Valid(ctx, tx, t)
}
