package custodytest

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
)

// CoinMover is a token ledger double. Every call is forwarded to the
// wrapped mover unless the corresponding error is set.
type CoinMover struct {
	Next interface {
		MoveCoins(db custody.KVStore, src, dst custody.Address, amount coin.Coin) error
		Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error)
	}

	// MoveErr if set is returned by MoveCoins without moving anything.
	MoveErr error
	// BalanceErr if set is returned by Balance.
	BalanceErr error

	Moves []Move
}

// Move is a transfer recorded by CoinMover.
type Move struct {
	Src, Dst custody.Address
	Amount   coin.Coin
}

func (m *CoinMover) MoveCoins(db custody.KVStore, src, dst custody.Address, amount coin.Coin) error {
	if m.MoveErr != nil {
		return m.MoveErr
	}
	if m.Next != nil {
		if err := m.Next.MoveCoins(db, src, dst, amount); err != nil {
			return err
		}
	}
	m.Moves = append(m.Moves, Move{Src: src, Dst: dst, Amount: amount})
	return nil
}

func (m *CoinMover) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error) {
	if m.BalanceErr != nil {
		return nil, m.BalanceErr
	}
	if m.Next == nil {
		return nil, nil
	}
	return m.Next.Balance(db, addr)
}
