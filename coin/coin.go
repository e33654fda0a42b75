package coin

import (
	"encoding/json"
	"regexp"

	"github.com/paystar/custody/errors"
)

// IsCC returns true if the given ticker is a valid currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a token identified by its ticker.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount Amount `json:"amount"`
}

// NewCoin returns a coin of n units of ticker.
func NewCoin(n uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: NewAmount(n)}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(n uint64, ticker string) *Coin {
	c := NewCoin(n, ticker)
	return &c
}

// ID returns the ticker of the coin.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins of the same currency.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := c.Amount.Add(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: sum}, nil
}

// Subtract returns c - o. Both coins must be of the same currency.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, err := c.Amount.Sub(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: diff}, nil
}

// Compare compares the amounts of two coins. The ticker is ignored.
func (c Coin) Compare(o Coin) int {
	return c.Amount.Cmp(o.Amount)
}

// Equals returns true if both coins have the same ticker and amount.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount.Equals(o.Amount)
}

// IsZero returns true if the amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool {
	return !c.Amount.IsZero()
}

// IsGTE returns true if c is of the same currency as o and has at least
// the same amount.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount.IsGTE(o.Amount)
}

// SameType returns true if both coins are of the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate returns an error if the ticker is not a valid currency code.
// A zero amount is valid, business rules decide if it is acceptable.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %q", c.Ticker)
	}
	return nil
}

// String returns the human readable format "<amount> <ticker>".
func (c Coin) String() string {
	if c.Ticker == "" {
		return c.Amount.String()
	}
	return c.Amount.String() + " " + c.Ticker
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat parses the "<amount> <ticker>" representation of a coin.
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	amount, err := ParseAmount(m[1])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// Set implements flag.Value.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// UnmarshalJSON accepts both the human readable string format and an
// object.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		val, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = val
		return nil
	}

	// Coin defines UnmarshalJSON, decode through a method free type.
	var obj struct {
		Ticker string `json:"ticker"`
		Amount Amount `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "coin: %s", err)
	}
	*c = Coin{Ticker: obj.Ticker, Amount: obj.Amount}
	return nil
}
