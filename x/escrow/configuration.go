package escrow

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/gconf"
)

const confPkg = "escrow"

// Configuration holds the escrow admin, the only party that can resolve a
// dispute.
type Configuration struct {
	Admin custody.Address `json:"admin"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return nil
}

// loadConf returns the configuration. ErrNotFound is returned if no admin
// was ever set.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Admin returns the current escrow admin, or nil if none is set.
func Admin(db custody.ReadOnlyKVStore) (custody.Address, error) {
	conf, err := loadConf(db)
	switch {
	case err == nil:
		return conf.Admin, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}
