package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is responsible for
// parsing its own flags. Results are written to the output, diagnostics and
// logs go to os.Stderr.
//
// Every command that changes the ledger delivers a single block to the
// local store. Transactions are signed with the key file given by -key and
// executed at the time given by -time:
//
//	$ custodyd escrow-create -seller 7A4C... -amount "50 PAY" -release-in 2h
//	$ custodyd tick -time 2020-09-13T15:00:00Z
//	$ custodyd events -topic released
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"addresses":            cmdAddresses,
	"agreement":            cmdAgreement,
	"balance":              cmdBalance,
	"escrow":               cmdEscrow,
	"escrow-confirm":       cmdEscrowConfirm,
	"escrow-create":        cmdEscrowCreate,
	"escrow-dispute":       cmdEscrowDispute,
	"escrow-initialize":    cmdEscrowInitialize,
	"escrow-release":       cmdEscrowRelease,
	"escrow-resolve":       cmdEscrowResolve,
	"escrow-set-admin":     cmdEscrowSetAdmin,
	"events":               cmdEvents,
	"genesis":              cmdGenesis,
	"init":                 cmdInit,
	"installment-accept":   cmdInstallmentAccept,
	"installment-cancel":   cmdInstallmentCancel,
	"installment-create":   cmdInstallmentCreate,
	"installment-finalize": cmdInstallmentFinalize,
	"installment-pay":      cmdInstallmentPay,
	"keyaddr":              cmdKeyaddr,
	"keygen":               cmdKeygen,
	"send":                 cmdSend,
	"tick":                 cmdTick,
	"version":              cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs the custody ledger on a local store.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
