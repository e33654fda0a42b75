package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/paystar/custody"
	custodyd "github.com/paystar/custody/cmd/custodyd/app"
	"github.com/paystar/custody/x/cash"
	"github.com/paystar/custody/x/escrow"
	"github.com/paystar/custody/x/installment"
)

// view calls fn with the last committed state of the ledger.
func view(ledger ledgerFlags, fn func(db custody.ReadOnlyKVStore) error) error {
	base, release, err := ledger.open()
	if err != nil {
		return err
	}
	defer release()
	return base.View(fn)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print the coins held by an address. The key owner address is used if none
is given.
	`)
	var (
		ledger = addLedgerFlags(fl)
		keyFl  = flKeyPath(fl)
		addrFl = flAddress(fl, "addr", "", "Address of the wallet. Custody addresses of escrows and agreements are accepted.")
	)
	fl.Parse(args)

	addr := *addrFl
	if len(addr) == 0 {
		key, err := loadKey(*keyFl)
		if err != nil {
			return err
		}
		addr = key.PublicKey().Address()
	}
	return view(ledger, func(db custody.ReadOnlyKVStore) error {
		coins, err := cash.NewController().Balance(db, addr)
		if err != nil {
			return fmt.Errorf("cannot load balance: %s", err)
		}
		return writeJSON(output, struct {
			Address custody.Address `json:"address"`
			Coins   interface{}     `json:"coins"`
		}{Address: addr, Coins: coins})
	})
}

func cmdEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print an escrow.
	`)
	var (
		ledger = addLedgerFlags(fl)
		id     = fl.Uint64("id", 0, "Escrow ID.")
	)
	fl.Parse(args)

	return view(ledger, func(db custody.ReadOnlyKVStore) error {
		e, err := escrow.NewBucket().Get(db, *id)
		if err != nil {
			return err
		}
		return writeJSON(output, e)
	})
}

func cmdAgreement(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print an installment agreement.
	`)
	var (
		ledger = addLedgerFlags(fl)
		id     = fl.Uint64("id", 0, "Agreement ID.")
	)
	fl.Parse(args)

	return view(ledger, func(db custody.ReadOnlyKVStore) error {
		a, err := installment.NewBucket().Get(db, *id)
		if err != nil {
			return err
		}
		return writeJSON(output, a)
	})
}

func cmdEvents(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Print the events of all committed operations, oldest first, one per line.
	`)
	var (
		ledger  = addLedgerFlags(fl)
		topicFl = fl.String("topic", "", "Print only events of this topic.")
	)
	fl.Parse(args)

	return view(ledger, func(db custody.ReadOnlyKVStore) error {
		records, err := custodyd.EventSink().List(db, *topicFl)
		if err != nil {
			return fmt.Errorf("cannot list events: %s", err)
		}
		for _, r := range records {
			if _, err := fmt.Fprintf(output, "%d\t%s\n", r.Height, r.Event()); err != nil {
				return err
			}
		}
		return nil
	})
}
