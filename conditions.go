package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/paystar/custody/crypto/bech32"
	"github.com/paystar/custody/errors"
)

// AddressLength is the length in bytes of every address.
const AddressLength = 20

// AddressHRP is the human readable part used when an address is rendered in
// the bech32 format.
const AddressHRP = "cstd"

// (?s) is required, the data section is binary and may contain a newline.
var conditionRx = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition describes who is allowed to authorize an action. It is the
// concatenation of an extension name, a type and arbitrary data:
//
//	<extension>/<type>/<data>
//
// A public key signature produces a "sigs/ed25519/<pubkey>" condition, an
// escrow record owns "escrow/seq/<id>".
type Condition []byte

// NewCondition builds a condition. Both ext and typ must be 3 to 8
// characters long, otherwise the result does not validate.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := ext + "/" + typ + "/"
	return append([]byte(pre), data...)
}

// Parse returns the sections of this condition.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	chunks := conditionRx.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address returns the digest of this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals returns true if both conditions are the same.
func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the condition is not well formatted.
func (c Condition) Validate() error {
	if !conditionRx.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var s string
	if c != nil {
		s = c.String()
	}
	return json.Marshal(s)
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "condition must be a string")
	}
	return c.parseString(s)
}

func (c *Condition) parseString(s string) error {
	if s == "" {
		*c = nil
		return nil
	}
	args := strings.Split(s, "/")
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// Address is a collision free, one way digest of a Condition. Addresses are
// only compared for equality.
type Address []byte

// NewAddress hashes and truncates data into an address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// ParseAddress decodes an address from one of the supported textual
// formats:
//
//	hex:<hex> or just <hex>
//	cond:<extension>/<type>/<hex data>
//	bech32:<bech32>
func ParseAddress(s string) (Address, error) {
	format, enc := "hex", s
	if chunks := strings.SplitN(s, ":", 2); len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if enc == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "hex: %s", err)
		}
		addr = raw
	case "cond":
		var c Condition
		if err := c.parseString(enc); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		addr = c.Address()
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
		}
		addr = payload
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Equals returns true if both addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// MarshalJSON uses hex instead of the default base64 encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Set implements flag.Value and accepts all formats of ParseAddress.
func (a *Address) Set(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 representation of this address using the
// AddressHRP prefix.
func (a Address) Bech32() (string, error) {
	s, err := bech32.Encode(AddressHRP, a)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return s, nil
}

// Validate returns an error if the address is not of the expected size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}
