package cash

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
)

const optKey = "cash"

// GenesisAccount is a wallet as it is declared in the genesis file.
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Coins   []coin.Coin     `json:"coins"`
}

// Initializer loads the genesis wallets.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis issues the coins of every genesis account.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(err, "cash options")
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := ctrl.IssueCoins(db, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
