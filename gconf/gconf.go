package gconf

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// ReadStore is a subset of custody.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of custody.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by an object that can serialize itself to a
// binary representation and validate its own state.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by an object that can load its state from the
// binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the full set of methods required from a configuration
// object.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the object and writes it to the configuration singleton of
// the given package.
func Save(db Store, pkg string, src ValidMarshaler) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", k)
	}
	// Empty values cannot be told apart from a missing configuration.
	if raw == nil {
		raw = []byte{}
	}
	return db.Set(k, raw)
}

// Load reads the configuration of the given package into dst. ErrNotFound is
// returned if the package was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	k := key(pkg)
	raw, err := db.Get(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", k)
	}
	return nil
}

// Exists returns true if the configuration of the given package was saved.
func Exists(db ReadStore, pkg string) (bool, error) {
	raw, err := db.Get(key(pkg))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return raw != nil, nil
}

// InitConfig takes opts["conf"][pkg], parses it into the given Configuration
// object, validates it and stores it under the package key.
func InitConfig(db Store, opts custody.Options, pkg string, conf Configuration) error {
	var confOptions custody.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
