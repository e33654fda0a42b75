package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/app"
	custodyd "github.com/paystar/custody/cmd/custodyd/app"
	"github.com/paystar/custody/orm"
	"github.com/paystar/custody/x/cash"
	"github.com/paystar/custody/x/escrow"
	"github.com/paystar/custody/x/installment"
)

// txView is the printed outcome of a delivered transaction.
type txView struct {
	Code   uint32   `json:"code"`
	Log    string   `json:"log,omitempty"`
	Data   string   `json:"data,omitempty"`
	ID     uint64   `json:"id,omitempty"`
	Events []string `json:"events,omitempty"`
}

func newTxView(res app.TxResult, withID bool) txView {
	v := txView{Code: res.Code, Log: res.Log, Data: hex.EncodeToString(res.Data)}
	if withID && res.IsOK() {
		v.ID, _ = orm.DecodeSequence(res.Data)
	}
	for _, e := range res.Events {
		v.Events = append(v.Events, e.String())
	}
	return v
}

// deliver signs the message built for the key owner and delivers it in a
// new block. The result is printed. A failed transaction returns an error.
func deliver(fl txFlags, output io.Writer, withID bool, build func(signer custody.Address) custody.Msg) error {
	key, err := loadKey(*fl.key)
	if err != nil {
		return err
	}
	base, release, err := fl.open()
	if err != nil {
		return err
	}
	defer release()
	if base.ChainID() == "" {
		return fmt.Errorf("ledger is not initialized, run init first")
	}

	msg := build(key.PublicKey().Address())
	res, err := custodyd.Submit(base, *fl.at, msg, key)
	if err != nil {
		return fmt.Errorf("cannot deliver: %s", err)
	}
	if err := writeJSON(output, newTxView(res, withID)); err != nil {
		return err
	}
	if !res.IsOK() {
		return fmt.Errorf("transaction failed with code %d", res.Code)
	}
	return nil
}

func usage(fl *flag.FlagSet, doc string) {
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), doc)
		fl.PrintDefaults()
	}
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Send coins from the key owner wallet to another wallet.
	`)
	var (
		tx       = addTxFlags(fl)
		dstFl    = flAddress(fl, "dst", "", "Destination address.")
		amountFl = flCoin(fl, "amount", "", "Amount to send, for example \"10 PAY\".")
		memoFl   = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(src custody.Address) custody.Msg {
		return &cash.SendMsg{Source: src, Destination: *dstFl, Amount: amountFl, Memo: *memoFl}
	})
}

func cmdEscrowInitialize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Make the key owner the escrow admin. Fails if an admin is already set.
	`)
	tx := addTxFlags(fl)
	fl.Parse(args)

	return deliver(tx, output, false, func(admin custody.Address) custody.Msg {
		return &escrow.InitializeMsg{Admin: admin}
	})
}

func cmdEscrowSetAdmin(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Hand over the escrow admin role of the key owner.
	`)
	var (
		tx      = addTxFlags(fl)
		adminFl = flAddress(fl, "admin", "", "Address of the new admin.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(current custody.Address) custody.Msg {
		return &escrow.SetAdminMsg{Admin: current, NewAdmin: *adminFl}
	})
}

func cmdEscrowCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Lock coins of the key owner in a new escrow for the seller. The escrow is
released automatically by the first block after the release time.
	`)
	var (
		tx        = addTxFlags(fl)
		sellerFl  = flAddress(fl, "seller", "", "Address of the seller.")
		amountFl  = flCoin(fl, "amount", "", "Amount to lock, for example \"50 PAY\".")
		releaseFl = fl.Duration("release-in", 24*time.Hour, "Time after the block time at which the escrow is released.")
	)
	fl.Parse(args)

	return deliver(tx, output, true, func(buyer custody.Address) custody.Msg {
		return &escrow.CreateMsg{
			Buyer:       buyer,
			Seller:      *sellerFl,
			Amount:      *amountFl,
			ReleaseTime: custody.AsUnixTime(tx.at.Add(*releaseFl)),
		}
	})
}

func cmdEscrowConfirm(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Confirm the receipt of the goods. The escrow can be released right away.
	`)
	var (
		tx = addTxFlags(fl)
		id = fl.Uint64("id", 0, "Escrow ID.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(buyer custody.Address) custody.Msg {
		return &escrow.ConfirmReceiptMsg{Buyer: buyer, EscrowID: *id}
	})
}

func cmdEscrowRelease(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Pay the seller of an escrow whose release time passed or whose receipt was
confirmed.
	`)
	var (
		tx = addTxFlags(fl)
		id = fl.Uint64("id", 0, "Escrow ID.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(custody.Address) custody.Msg {
		return &escrow.ReleaseMsg{EscrowID: *id}
	})
}

func cmdEscrowDispute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Dispute an active escrow. It is not released until the admin resolves it.
	`)
	var (
		tx       = addTxFlags(fl)
		id       = fl.Uint64("id", 0, "Escrow ID.")
		reasonFl = fl.String("reason", "", "Why the escrow is disputed.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(buyer custody.Address) custody.Msg {
		return &escrow.DisputeMsg{Buyer: buyer, EscrowID: *id, Reason: *reasonFl}
	})
}

func cmdEscrowResolve(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Resolve a disputed escrow by refunding the buyer. Only the admin can resolve.
	`)
	var (
		tx = addTxFlags(fl)
		id = fl.Uint64("id", 0, "Escrow ID.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(admin custody.Address) custody.Msg {
		return &escrow.ResolveDisputeMsg{Admin: admin, EscrowID: *id}
	})
}

func cmdInstallmentCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Propose an installment agreement where the key owner is the buyer.
	`)
	var (
		tx         = addTxFlags(fl)
		sellerFl   = flAddress(fl, "seller", "", "Address of the seller.")
		arbiterFl  = flAddress(fl, "arbitrator", "", "Address of the arbitrator, distinct from both parties.")
		totalFl    = flCoin(fl, "total", "", "Price of the agreement, for example \"80 PAY\".")
		deadlineFl = fl.Duration("deadline-in", 30*24*time.Hour, "Time after the block time until which payments are accepted.")
		descFl     = fl.String("description", "", "What is being sold.")
	)
	fl.Parse(args)

	return deliver(tx, output, true, func(buyer custody.Address) custody.Msg {
		return &installment.CreateMsg{
			Buyer:          buyer,
			Seller:         *sellerFl,
			Total:          *totalFl,
			DeadlineOffset: int64(*deadlineFl / time.Second),
			Arbitrator:     *arbiterFl,
			Description:    *descFl,
		}
	})
}

func cmdInstallmentAccept(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Answer a proposed agreement as its seller.
	`)
	var (
		tx       = addTxFlags(fl)
		id       = fl.Uint64("id", 0, "Agreement ID.")
		acceptFl = fl.Bool("accept", true, "Accept the agreement. Use -accept=false to leave it proposed.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(seller custody.Address) custody.Msg {
		return &installment.AcceptMsg{Seller: seller, AgreementID: *id, Accept: *acceptFl}
	})
}

func cmdInstallmentPay(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Pay an installment of an accepted agreement as its buyer.
	`)
	var (
		tx       = addTxFlags(fl)
		id       = fl.Uint64("id", 0, "Agreement ID.")
		amountFl = flCoin(fl, "amount", "", "Installment amount, for example \"30 PAY\".")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(buyer custody.Address) custody.Msg {
		return &installment.PayMsg{Buyer: buyer, AgreementID: *id, Amount: *amountFl}
	})
}

func cmdInstallmentFinalize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Pay the total of a fully paid agreement to the seller. Can be called by the
buyer or the seller.
	`)
	var (
		tx = addTxFlags(fl)
		id = fl.Uint64("id", 0, "Agreement ID.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(caller custody.Address) custody.Msg {
		return &installment.FinalizeMsg{Caller: caller, AgreementID: *id}
	})
}

func cmdInstallmentCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Cancel an accepted agreement as its seller. Everything paid so far is
refunded to the buyer.
	`)
	var (
		tx = addTxFlags(fl)
		id = fl.Uint64("id", 0, "Agreement ID.")
	)
	fl.Parse(args)

	return deliver(tx, output, false, func(seller custody.Address) custody.Msg {
		return &installment.CancelMsg{Seller: seller, AgreementID: *id}
	})
}
