package escrow

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/gconf"
)

// Initializer loads the escrow admin from the genesis configuration:
//
//	{"conf": {"escrow": {"admin": "<address>"}}}
//
// Without it the admin must be set with an InitializeMsg.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, confPkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}
