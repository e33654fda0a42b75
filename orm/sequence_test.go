package orm

import (
	"bytes"
	"testing"

	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/store"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := map[string]struct {
		bucket     string
		name       string
		init       uint64
		increments uint64
	}{
		"fresh sequence":           {"first", "id", 0, 22},
		"other name, same bucket":  {"first", "other", 0, 11},
		"continue first sequence":  {"first", "id", 22, 18},
		"other bucket, same name":  {"second", "id", 0, 77},
		"continue second sequence": {"first", "other", 11, 248},
	}

	// Cases depend on each other, run them in order.
	order := []string{
		"fresh sequence",
		"other name, same bucket",
		"continue first sequence",
		"other bucket, same name",
		"continue second sequence",
	}
	for _, name := range order {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			orig, err := db.Get(s.id)
			require.NoError(t, err)

			var val uint64
			for i := uint64(0); i < tc.increments; i++ {
				val, err = s.NextInt(db)
				require.NoError(t, err)
			}
			require.Equal(t, tc.init+tc.increments, val)

			latest, err := s.Latest(db)
			require.NoError(t, err)
			require.Equal(t, val, latest)

			// Raw bytes keep the order as well.
			last, err := db.Get(s.id)
			require.NoError(t, err)
			require.Equal(t, 1, bytes.Compare(last, orig))
		})
	}
}

func TestSequenceStartsAtOne(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("escrow", "id")

	latest, err := s.Latest(db)
	require.NoError(t, err)
	require.Equal(t, uint64(0), latest)

	raw, err := s.NextVal(db)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, raw)
}

func TestDecodeSequence(t *testing.T) {
	val, err := DecodeSequence(nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0), val)

	val, err = DecodeSequence(EncodeSequence(1 << 40))
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), val)

	_, err = DecodeSequence([]byte{1, 2})
	require.True(t, errors.ErrInput.Is(err))
}

func TestSequenceOverflow(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("full", "id")
	require.NoError(t, db.Set(s.id, EncodeSequence(^uint64(0))))

	_, err := s.NextInt(db)
	require.True(t, errors.ErrOverflow.Is(err), "got %v", err)
}
