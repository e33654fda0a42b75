package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func memSuite() *TestSuite {
	return NewTestSuite(func() (CacheableKVStore, func()) {
		return MemStore(), func() {}
	})
}

func TestBTreeCacheGetSet(t *testing.T)            { memSuite().GetSet(t) }
func TestBTreeCacheDiscard(t *testing.T)           { memSuite().Discard(t) }
func TestBTreeCacheConflicts(t *testing.T)         { memSuite().CacheConflicts(t) }
func TestBTreeCacheFuzzIterator(t *testing.T)      { memSuite().FuzzIterator(t) }
func TestBTreeCacheIteratorConflicts(t *testing.T) { memSuite().IteratorWithConflicts(t) }

func TestSliceIterator(t *testing.T) {
	models := []Model{
		Pair([]byte("a"), []byte("1")),
		Pair([]byte("b"), []byte("2")),
	}
	it := NewSliceIterator(models)
	var got []Model
	for ; it.Valid(); it.Next() {
		got = append(got, Pair(it.Key(), it.Value()))
	}
	require.Equal(t, models, got)
	require.Panics(t, func() { it.Next() })
	require.Panics(t, func() { it.Key() })
	it.Close()
	require.False(t, it.Valid())
}

func TestNilKey(t *testing.T) {
	db := MemStore()
	require.Error(t, db.Set(nil, []byte("x")))
	require.Error(t, db.Delete(nil))
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	b := db.NewBatch()
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Set([]byte("b"), []byte("2")))
	require.NoError(t, b.Delete([]byte("a")))

	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	require.False(t, has, "batch writes are applied only on Write")

	require.NoError(t, b.Write())
	suite := memSuite()
	suite.AssertGetHas(t, db, []byte("a"), nil, false)
	suite.AssertGetHas(t, db, []byte("b"), []byte("2"), true)
}
