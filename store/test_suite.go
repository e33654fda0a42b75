package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. Only the constructor of the tested store differs between
// the memory store and the iavl adapter.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cached writes are visible only in the cache until it is
// written.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// A second layer sees both lower layers and can delete.
	cache2 := cache.CacheWrap()
	s.AssertGetHas(t, cache2, k, v, true)
	s.AssertGetHas(t, cache2, k2, v2, true)
	require.NoError(t, cache2.Delete(k))
	s.AssertGetHas(t, cache2, k, nil, false)
	s.AssertGetHas(t, cache, k, v, true)

	require.NoError(t, cache2.Write())
	s.AssertGetHas(t, cache, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)

	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// Discard checks that a discarded cache leaves the parent untouched.
func (s *TestSuite) Discard(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("key"), []byte("value")
	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, []byte("changed")))
	require.NoError(t, cache.Set([]byte("other"), []byte("value")))
	cache.Discard()

	s.AssertGetHas(t, cache, k, v, true)
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, []byte("other"), nil, false)
}

// CacheConflicts checks overwrites and deletes between a parent and a child.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(10, 16)
	vs := randKeys(20, 40)

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is what is queried, Value is what is expected.
		parentQueries []Model
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[11]), SetOp(ks[3], vs[7]), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], vs[1]), Pair(ks[2], vs[2]), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], vs[11]), Pair(ks[2], nil), Pair(ks[3], vs[7])},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(ks[4], vs[4])},
			childOps:      []Op{DelOp(ks[4]), SetOp(ks[4], vs[5])},
			parentQueries: []Model{Pair(ks[4], vs[4])},
			childQueries:  []Model{Pair(ks[4], vs[5])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				require.NoError(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				require.NoError(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			require.NoError(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator checks iteration over random data, with deletes, in both
// directions and with all kinds of range limits.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50
	const deleteCount = 20

	toSet := randModels(size, 8, 40)
	toDel := randModels(deleteCount, 8, 40)
	expect := sortModels(toSet)
	ops := append(makeSetOps(toSet...), makeDelOps(toDel...)...)

	parentSet := randModels(size, 8, 40)
	parentDel := randModels(deleteCount, 8, 40)
	parentOps := append(makeSetOps(parentSet...), makeDelOps(parentDel...)...)

	both := sortModels(append(toSet, parentSet...))

	cases := map[string]iterCase{
		"just write to a child with empty parent": {
			child: ops,
			queries: []rangeQuery{
				{nil, nil, false, expect},
				{expect[10].Key, nil, false, expect[10:]},
				{nil, expect[size-8].Key, false, expect[:size-8]},
				{expect[17].Key, expect[28].Key, false, expect[17:28]},

				{nil, nil, true, reverse(expect)},
				{expect[34].Key, nil, true, reverse(expect[34:])},
				{nil, expect[19].Key, true, reverse(expect[:19])},
				{expect[6].Key, expect[26].Key, true, reverse(expect[6:26])},
			},
		},
		"iterator combines child and parent": {
			pre:   parentOps,
			child: ops,
			queries: []rangeQuery{
				{nil, nil, false, both},
				{both[10].Key, nil, false, both[10:]},
				{nil, both[size-8].Key, false, both[:size-8]},
				{both[17].Key, both[28].Key, false, both[17:28]},

				{nil, nil, true, reverse(both)},
				{both[34].Key, nil, true, reverse(both[34:])},
				{nil, both[19].Key, true, reverse(both[:19])},
				{both[6].Key, both[26].Key, true, reverse(both[6:26])},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// IteratorWithConflicts covers overwrites and deletes hiding parent values.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key = a.Key
	b2.Key = b.Key

	expect0 := sortModels([]Model{a, b, c})
	expect1 := sortModels([]Model{a2, b2, c, d})
	expect2 := []Model{c}

	cases := map[string]iterCase{
		"iterate in child only": {
			child: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"iterate over parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"simple combination": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"overwritten data shows child data": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, expect1},
				{expect1[1].Key, expect1[3].Key, false, expect1[1:3]},
				{nil, nil, true, reverse(expect1)},
			},
		},
		"deleted data is skipped": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, expect2},
				{nil, c.Key, false, nil},
				{nil, nil, true, expect2},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas checks that Get and Has agree on the expected state of key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		require.NoError(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range i.child {
		require.NoError(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var (
			iter Iterator
			err  error
		)
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		require.NoError(t, err)

		var got []Model
		for ; iter.Valid(); iter.Next() {
			got = append(got, Pair(iter.Key(), iter.Value()))
		}
		iter.Close()

		require.Equal(t, len(q.expected), len(got))
		for n := range q.expected {
			if !bytes.Equal(q.expected[n].Key, got[n].Key) {
				t.Fatalf("expected key %d: %X, got %X", n, q.expected[n].Key, got[n].Key)
			}
			require.Equal(t, q.expected[n].Value, got[n].Value)
		}
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

// reverse returns a reversed copy of models.
func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

// sortModels returns a copy of models sorted by key.
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
