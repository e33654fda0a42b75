package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// Genesis is the initial state of the application.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// Validate returns an error if the genesis cannot be used to initialize
// an application.
func (g *Genesis) Validate() error {
	if !custody.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", g.ChainID)
	}
	if len(g.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state")
	}
	return nil
}

// LoadGenesis reads the genesis JSON file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	if err := gen.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid genesis")
	}
	return &gen, nil
}

// WriteGenesis writes the genesis as an indented JSON file.
func WriteGenesis(filePath string, gen *Genesis) error {
	if err := gen.Validate(); err != nil {
		return errors.Wrap(err, "invalid genesis")
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "marshal genesis: %s", err)
	}
	if err := ioutil.WriteFile(filePath, raw, 0644); err != nil {
		return errors.Wrapf(errors.ErrInput, "write genesis file: %s", err)
	}
	return nil
}
