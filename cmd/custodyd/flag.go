package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/x/cash"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *custody.Address {
	var a custody.Address
	if defaultVal != "" {
		var err error
		a, err = custody.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// flTime returns a time value that defaults to the current time.
func flTime(fl *flag.FlagSet, name, usage string) *time.Time {
	t := timeValue(time.Now().UTC())
	fl.Var(&t, name, usage)
	return (*time.Time)(&t)
}

type timeValue time.Time

func (t timeValue) String() string {
	return time.Time(t).Format(time.RFC3339)
}

func (t *timeValue) Set(raw string) error {
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	*t = timeValue(v.UTC())
	return nil
}

// accountsValue collects genesis wallets declared as "<address>=<coin>".
// The flag can be repeated, coins of the same address are combined.
type accountsValue []cash.GenesisAccount

func (a accountsValue) String() string {
	parts := make([]string, 0, len(a))
	for _, acc := range a {
		for _, c := range acc.Coins {
			parts = append(parts, acc.Address.String()+"="+c.String())
		}
	}
	return strings.Join(parts, ",")
}

func (a *accountsValue) Set(raw string) error {
	chunks := strings.SplitN(raw, "=", 2)
	if len(chunks) != 2 {
		return fmt.Errorf("expected <address>=<coin>, got %q", raw)
	}
	addr, err := custody.ParseAddress(chunks[0])
	if err != nil {
		return fmt.Errorf("address: %s", err)
	}
	c, err := coin.ParseHumanFormat(chunks[1])
	if err != nil {
		return fmt.Errorf("coin: %s", err)
	}
	for i, acc := range *a {
		if acc.Address.Equals(addr) {
			(*a)[i].Coins = append(acc.Coins, c)
			return nil
		}
	}
	*a = append(*a, cash.GenesisAccount{Address: addr, Coins: []coin.Coin{c}})
	return nil
}
