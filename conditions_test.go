package custody_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("address is printed as upper case hex", t, func() {
		addr := custody.Address("ABCD123456LHB-123456")

		So(addr.String(), ShouldEqual, strings.ToUpper(hex.EncodeToString(addr)))
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("condition keeps extension and type readable", t, func() {
		cond := custody.NewCondition("escrow", "seq", []byte{0, 1})

		So(cond.String(), ShouldEqual, "escrow/seq/0001")
		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", cond))
	})

	Convey("bech32 representation can be parsed back", t, func() {
		addr := custody.NewCondition("sigs", "ed25519", []byte("pubkey")).Address()
		enc, err := addr.Bech32()
		So(err, ShouldBeNil)
		So(enc, ShouldStartWith, custody.AddressHRP+"1")

		got, err := custody.ParseAddress("bech32:" + enc)
		So(err, ShouldBeNil)
		So(got.Equals(addr), ShouldBeTrue)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	raw := []byte("twenty-bytes-address")
	rawHex := hex.EncodeToString(raw)
	bech, err := custody.Address(raw).Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     `"` + rawHex + `"`,
			wantAddr: custody.Address(raw),
		},
		"hex decoding": {
			json:     `"hex:` + rawHex + `"`,
			wantAddr: custody.Address(raw),
		},
		"bech32 decoding": {
			json:     `"bech32:` + bech + `"`,
			wantAddr: custody.Address(raw),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: custody.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"short hex address": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid hex": {
			json:    `"zzzz"`,
			wantErr: errors.ErrInput,
		},
		"invalid bech32": {
			json:    `"bech32:cstd1xxxxx"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"not a string": {
			json:    `42`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("data")).Address()
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var got custody.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, addr, got)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition custody.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: custody.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero condition": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got custody.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   custody.Condition
		wantJSON string
	}{
		"cond encoding": {
			source:   custody.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJSON: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJSON: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJSON, string(got))
		})
	}
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond  custody.Condition
		valid bool
	}{
		"valid":               {custody.NewCondition("escrow", "seq", []byte{1}), true},
		"data with newline":   {custody.NewCondition("escrow", "seq", []byte("a\nb")), true},
		"extension too short": {custody.NewCondition("ab", "seq", []byte{1}), false},
		"type too long":       {custody.NewCondition("escrow", "sequences", []byte{1}), false},
		"no data":             {custody.NewCondition("escrow", "seq", nil), false},
		"garbage":             {custody.Condition("garbage"), false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.valid {
				require.NoError(t, err)
				ext, typ, data, err := tc.cond.Parse()
				require.NoError(t, err)
				require.Equal(t, string(tc.cond), ext+"/"+typ+"/"+string(data))
			} else {
				require.True(t, errors.ErrInput.Is(err))
			}
		})
	}
}
