package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/paystar/custody"
	"github.com/paystar/custody/x/escrow"
	"github.com/paystar/custody/x/installment"
)

// custodyAccounts returns the address holding the funds of the record with
// the given id.
var custodyAccounts = map[string]func(id uint64) custody.Address{
	"escrow": func(id uint64) custody.Address {
		return escrow.Condition(id).Address()
	},
	"installment": func(id uint64) custody.Address {
		return installment.Condition(id).Address()
	},
}

func cmdAddresses(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, fmt.Sprintf(`
Print the custody addresses of escrows or installment agreements.

Custody addresses are derived from the record ID, which is allocated by a
sequence counter. That means that those addresses are deterministic and can
be precomputed, for example to inspect the funds held with balance -addr.

Available kinds are: %s
	`, strings.Join(accountKinds(), ", ")))
	var (
		kindFl   = fl.String("kind", "escrow", "Kind of record.")
		offsetFl = fl.Uint64("offset", 1, "ID of the first record.")
		limitFl  = fl.Uint64("limit", 20, "Number of addresses to print.")
		headerFl = fl.Bool("header", true, "Display header.")
	)
	fl.Parse(args)

	addr, ok := custodyAccounts[*kindFl]
	if !ok {
		return fmt.Errorf("unknown kind %q, available kinds are: %s", *kindFl, strings.Join(accountKinds(), ", "))
	}
	if *offsetFl < 1 {
		return fmt.Errorf("offset must be greater than zero")
	}

	w := tabwriter.NewWriter(output, 2, 0, 2, ' ', 0)
	if *headerFl {
		fmt.Fprintln(w, "id\taddress\tbech32")
	}
	for id := *offsetFl; id < *offsetFl+*limitFl; id++ {
		a := addr(id)
		b, err := a.Bech32()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", id, a, b)
	}
	return w.Flush()
}

func accountKinds() []string {
	kinds := make([]string, 0, len(custodyAccounts))
	for k := range custodyAccounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
