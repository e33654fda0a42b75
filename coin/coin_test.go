package coin

import (
	"encoding/json"
	"testing"

	"github.com/paystar/custody/errors"
	"github.com/stretchr/testify/require"
)

func TestCoinArithmetic(t *testing.T) {
	a := NewCoin(100, "ETH")

	sum, err := a.Add(NewCoin(50, "ETH"))
	require.NoError(t, err)
	require.Equal(t, NewCoin(150, "ETH"), sum)

	diff, err := sum.Subtract(NewCoin(150, "ETH"))
	require.NoError(t, err)
	require.True(t, diff.IsZero())

	_, err = a.Add(NewCoin(1, "BTC"))
	require.True(t, errors.ErrCurrency.Is(err), "got %v", err)
	_, err = a.Subtract(NewCoin(1, "BTC"))
	require.True(t, errors.ErrCurrency.Is(err), "got %v", err)
	_, err = a.Subtract(NewCoin(101, "ETH"))
	require.True(t, errors.ErrInsufficientAmount.Is(err), "got %v", err)

	require.True(t, a.IsGTE(NewCoin(100, "ETH")))
	require.False(t, a.IsGTE(NewCoin(100, "BTC")))
	require.Equal(t, 1, a.Compare(NewCoin(99, "ETH")))
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(1, "IOV")},
		"zero is valid":   {coin: NewCoin(0, "IOVX")},
		"no ticker":       {coin: NewCoin(1, ""), wantErr: errors.ErrCurrency},
		"lower case":      {coin: NewCoin(1, "iov"), wantErr: errors.ErrCurrency},
		"ticker too long": {coin: NewCoin(1, "ABCDE"), wantErr: errors.ErrCurrency},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.coin.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
			}
		})
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"regular":        {raw: "1000 IOV", want: NewCoin(1000, "IOV")},
		"no space":       {raw: "7ETH", want: NewCoin(7, "ETH")},
		"extra spaces":   {raw: "  7   ETH ", want: NewCoin(7, "ETH")},
		"huge":           {raw: "340282366920938463463374607431768211455 ETH", want: Coin{Ticker: "ETH", Amount: MaxAmount}},
		"negative":       {raw: "-1 IOV", wantErr: errors.ErrInput},
		"fractional":     {raw: "1.5 IOV", wantErr: errors.ErrInput},
		"missing ticker": {raw: "15", wantErr: errors.ErrInput},
		"overflow":       {raw: "340282366920938463463374607431768211456 ETH", wantErr: errors.ErrAmount},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got Coin
			err := got.Set(tc.raw)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)

			back, err := ParseHumanFormat(got.String())
			require.NoError(t, err)
			require.Equal(t, got, back)
		})
	}
}

func TestCoinJSON(t *testing.T) {
	c := NewCoin(42, "IOV")
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"ticker": "IOV", "amount": "42"}`, string(raw))

	var fromObj Coin
	require.NoError(t, json.Unmarshal(raw, &fromObj))
	require.Equal(t, c, fromObj)

	var fromHuman Coin
	require.NoError(t, json.Unmarshal([]byte(`"42 IOV"`), &fromHuman))
	require.Equal(t, c, fromHuman)

	var invalid Coin
	err = json.Unmarshal([]byte(`"42"`), &invalid)
	require.True(t, errors.ErrInput.Is(err), "got %v", err)
}
