package custodytest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/store/iavl"
)

// CommitKVStore returns a persistent store in a temporary directory. Call
// cleanup when done.
func CommitKVStore(t testing.TB) (db *iavl.CommitStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "custody-test-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db = iavl.NewCommitStore(dir, "test")
	if err := db.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load the store: %s", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dir)
	}
}

var _ custody.CommitKVStore = (*iavl.CommitStore)(nil)
