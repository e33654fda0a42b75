package installment

import (
	"strings"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/stretchr/testify/require"
)

func TestMsgValidate(t *testing.T) {
	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()
	carol := custodytest.NewCondition().Address()

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"valid create": {
			msg: &CreateMsg{Buyer: alice, Seller: bob, Arbitrator: carol, Total: coin.NewCoin(80, ticker), DeadlineOffset: day},
		},
		"create without arbitrator": {
			msg:     &CreateMsg{Buyer: alice, Seller: bob, Total: coin.NewCoin(80, ticker), DeadlineOffset: day},
			wantErr: errors.ErrInput,
		},
		"create with zero total": {
			msg:     &CreateMsg{Buyer: alice, Seller: bob, Arbitrator: carol, Total: coin.NewCoin(0, ticker)},
			wantErr: ErrInvalidAmount,
		},
		"create with negative offset": {
			msg:     &CreateMsg{Buyer: alice, Seller: bob, Arbitrator: carol, Total: coin.NewCoin(80, ticker), DeadlineOffset: -5},
			wantErr: ErrInvalidTimestamp,
		},
		"create with a long description": {
			msg: &CreateMsg{Buyer: alice, Seller: bob, Arbitrator: carol, Total: coin.NewCoin(80, ticker),
				Description: strings.Repeat("x", maxDescriptionSize+1)},
			wantErr: errors.ErrInput,
		},
		"valid accept": {
			msg: &AcceptMsg{Seller: bob, AgreementID: 3},
		},
		"accept without id": {
			msg:     &AcceptMsg{Seller: bob, Accept: true},
			wantErr: errors.ErrInput,
		},
		"valid pay": {
			msg: &PayMsg{Buyer: alice, AgreementID: 3, Amount: coin.NewCoin(1, ticker)},
		},
		"pay nothing": {
			msg:     &PayMsg{Buyer: alice, AgreementID: 3, Amount: coin.NewCoin(0, ticker)},
			wantErr: ErrInvalidAmount,
		},
		"pay with invalid ticker": {
			msg:     &PayMsg{Buyer: alice, AgreementID: 3, Amount: coin.NewCoin(1, "")},
			wantErr: errors.ErrCurrency,
		},
		"valid finalize": {
			msg: &FinalizeMsg{Caller: bob, AgreementID: 1},
		},
		"finalize without caller": {
			msg:     &FinalizeMsg{AgreementID: 1},
			wantErr: errors.ErrInput,
		},
		"valid cancel": {
			msg: &CancelMsg{Seller: bob, AgreementID: 1},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}
