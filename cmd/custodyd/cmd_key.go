package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/paystar/custody/crypto"
	"github.com/stellar/go/exp/crypto/derivation"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

A random key is generated unless a seed is given. A 32 byte seed is used as
the ed25519 seed. With a derivation path, the key is derived from the seed
following SLIP-0010, for example "m/44'/234'/0'".
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKeyPath(fl)
		seedFl    = fl.String("seed", "", "Optional hex encoded seed.")
		pathFl    = fl.String("path", "", "Optional derivation path, requires a seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var seed []byte
	if *seedFl != "" {
		var err error
		if seed, err = hex.DecodeString(*seedFl); err != nil {
			return fmt.Errorf("invalid seed: %s", err)
		}
	}
	key, err := keygen(seed, *pathFl)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

// keygen returns a random key if seed is empty, otherwise the key of the
// seed or of the given derivation path of the seed.
func keygen(seed []byte, path string) (*crypto.PrivateKey, error) {
	switch {
	case len(seed) == 0 && path != "":
		return nil, fmt.Errorf("derivation path requires a seed")
	case len(seed) == 0:
		return crypto.GenPrivKeyEd25519(), nil
	case path != "":
		k, err := derivation.DeriveForPath(path, seed)
		if err != nil {
			return nil, fmt.Errorf("cannot derive key for path %q: %s", path, err)
		}
		return crypto.PrivKeyEd25519FromSeed(k.Key), nil
	case len(seed) != 32:
		return nil, fmt.Errorf("seed must be 32 bytes, got %d", len(seed))
	default:
		return crypto.PrivKeyEd25519FromSeed(seed), nil
	}
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex and bech32 address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKeyPath(fl)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	b, err := addr.Bech32()
	if err != nil {
		return fmt.Errorf("cannot serialize to bech32: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", addr, b)
	return err
}
