// Package memtest is an in-memory reference implementation of kv.Store.
// It exists only so the rest of this module's tests have something
// concrete to run against; it is not meant for production use and makes
// no attempt at real optimistic-conflict detection the way a networked
// Store would (it serializes transaction bodies behind a single mutex
// instead), mirroring the teacher's in-memory repository idiom of a
// mutex-guarded map.
package memtest

import (
	"context"
	"sort"
	"sync"

	"graphreason/kv"
)

// Store is a sorted, mutex-guarded map satisfying kv.Store.
type Store struct {
	mu           sync.Mutex
	data         map[string][]byte
	keySizeLimit int
}

// New returns an empty Store. keySizeLimit mirrors the limit a real Store
// would enforce; pass 0 to use a generous default.
func New(keySizeLimit int) *Store {
	if keySizeLimit <= 0 {
		keySizeLimit = 10000
	}
	return &Store{
		data:         make(map[string][]byte),
		keySizeLimit: keySizeLimit,
	}
}

func (s *Store) KeySizeLimit() int { return s.keySizeLimit }

// WithTransaction runs body holding the store's single lock for the whole
// call, giving callers serializable semantics without any retry logic —
// there is nothing to retry against, since no other transaction can ever
// be concurrently in flight.
func (s *Store) WithTransaction(ctx context.Context, cfg kv.TxConfig, body func(ctx context.Context, tx kv.Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{store: s}
	if err := body(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// transaction buffers writes until commit so a body that errors partway
// through leaves the store untouched, the same all-or-nothing guarantee a
// real Store's transaction gives callers.
type transaction struct {
	store   *Store
	sets    map[string][]byte
	clears  map[string]bool
	ranges  [][2]string
}

func (t *transaction) GetValue(ctx context.Context, key []byte, snapshot bool) ([]byte, error) {
	k := string(key)
	if t.clears[k] {
		return nil, nil
	}
	if v, ok := t.sets[k]; ok {
		return v, nil
	}
	if v, ok := t.store.data[k]; ok {
		return v, nil
	}
	return nil, nil
}

func (t *transaction) GetRange(ctx context.Context, begin, end []byte, snapshot bool) (<-chan kv.KV, <-chan error) {
	out := make(chan kv.KV)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		merged := make(map[string][]byte, len(t.store.data))
		for k, v := range t.store.data {
			merged[k] = v
		}
		for k, v := range t.sets {
			merged[k] = v
		}
		for k := range t.clears {
			delete(merged, k)
		}
		for _, r := range t.ranges {
			for k := range merged {
				if k >= r[0] && k < r[1] {
					delete(merged, k)
				}
			}
		}

		keys := make([]string, 0, len(merged))
		b, e := string(begin), string(end)
		for k := range merged {
			if k >= b && (e == "" || k < e) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			select {
			case out <- kv.KV{Key: []byte(k), Value: merged[k]}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return out, errCh
}

func (t *transaction) SetValue(key, value []byte) {
	if t.sets == nil {
		t.sets = make(map[string][]byte)
	}
	k := string(key)
	t.sets[k] = append([]byte{}, value...)
	delete(t.clears, k)
}

func (t *transaction) Clear(key []byte) {
	if t.clears == nil {
		t.clears = make(map[string]bool)
	}
	k := string(key)
	t.clears[k] = true
	delete(t.sets, k)
}

func (t *transaction) ClearRange(begin, end []byte) {
	t.ranges = append(t.ranges, [2]string{string(begin), string(end)})
	b, e := string(begin), string(end)
	for k := range t.sets {
		if k >= b && k < e {
			delete(t.sets, k)
		}
	}
}

func (t *transaction) commit() {
	for _, r := range t.ranges {
		for k := range t.store.data {
			if k >= r[0] && k < r[1] {
				delete(t.store.data, k)
			}
		}
	}
	for k := range t.clears {
		delete(t.store.data, k)
	}
	for k, v := range t.sets {
		t.store.data[k] = v
	}
}
