package coin

import (
	"sort"
	"strings"

	"github.com/paystar/custody/errors"
)

// Coins is a set of coins of different currencies, sorted by ticker, with
// no zero value entries.
type Coins []Coin

// CombineCoins returns the normalized sum of all given coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		var err error
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Clone returns a copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	copy(res, cs)
	return res
}

// Add returns a new set with c added. The receiver is not modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsZero() {
		return cs.Clone(), nil
	}
	res := cs.Clone()
	i := res.find(c.Ticker)
	if i < len(res) && res[i].Ticker == c.Ticker {
		sum, err := res[i].Add(c)
		if err != nil {
			return nil, err
		}
		res[i] = sum
		return res, nil
	}
	res = append(res, Coin{})
	copy(res[i+1:], res[i:])
	res[i] = c
	return res, nil
}

// Subtract returns a new set with c removed. ErrInsufficientAmount is
// returned if the set does not contain enough of c.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsZero() {
		return cs.Clone(), nil
	}
	have := cs.Balance(c.Ticker)
	diff, err := have.Sub(c.Amount)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %s, need %s", Coin{Ticker: c.Ticker, Amount: have}, c)
	}
	res := cs.Clone()
	i := res.find(c.Ticker)
	if diff.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i].Amount = diff
	return res, nil
}

// Balance returns the amount of the given currency in the set.
func (cs Coins) Balance(ticker string) Amount {
	if i := cs.find(ticker); i < len(cs) && cs[i].Ticker == ticker {
		return cs[i].Amount
	}
	return Amount{}
}

// Contains returns true if the set holds at least c.
func (cs Coins) Contains(c Coin) bool {
	return cs.Balance(c.Ticker).IsGTE(c.Amount)
}

// IsEmpty returns true if the set holds nothing.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold the same coins.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// Validate returns an error if any coin is invalid or zero, or the set is
// not sorted by unique tickers.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero coin %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrState, "coins not sorted")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// find returns the position of ticker or the position it would be
// inserted at.
func (cs Coins) find(ticker string) int {
	return sort.Search(len(cs), func(i int) bool {
		return cs[i].Ticker >= ticker
	})
}
