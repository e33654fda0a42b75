package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/x/installment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t    *testing.T
	home string
}

func (c cli) run(cmd func(io.Reader, io.Writer, []string) error, args ...string) (string, error) {
	var out bytes.Buffer
	args = append(args, "-home", c.home, "-log-level", "none")
	err := cmd(nil, &out, args)
	return out.String(), err
}

func (c cli) mustRun(cmd func(io.Reader, io.Writer, []string) error, args ...string) string {
	c.t.Helper()
	out, err := c.run(cmd, args...)
	require.NoError(c.t, err, out)
	return out
}

func (c cli) keygen(name string) (string, custody.Address) {
	c.t.Helper()
	path := filepath.Join(c.home, name+".key")
	var out bytes.Buffer
	require.NoError(c.t, cmdKeygen(nil, &out, []string{"-key", path}))
	require.NoError(c.t, cmdKeyaddr(nil, &out, []string{"-key", path}))
	addr, err := custody.ParseAddress(strings.SplitN(out.String(), "\n", 2)[0])
	require.NoError(c.t, err)
	return path, addr
}

func (c cli) balance(addr custody.Address) coin.Amount {
	c.t.Helper()
	var res struct {
		Coins coin.Coins `json:"coins"`
	}
	out := c.mustRun(cmdBalance, "-addr", addr.String())
	require.NoError(c.t, json.Unmarshal([]byte(out), &res))
	return res.Coins.Balance("PAY")
}

func TestLedgerCommands(t *testing.T) {
	home, err := ioutil.TempDir("", "custodyd")
	require.NoError(t, err)
	defer os.RemoveAll(home)
	c := cli{t: t, home: home}

	aliceKey, alice := c.keygen("alice")
	bobKey, bob := c.keygen("bob")
	_, carol := c.keygen("carol")

	_, err = c.run(cmdSend, "-key", aliceKey, "-dst", bob.String(), "-amount", "1 PAY")
	assert.Error(t, err, "ledger is not initialized")

	c.mustRun(cmdGenesis, "-chain-id", "cli-test", "-admin", bob.String(), "-fund", alice.String()+"=1000 PAY")
	c.mustRun(cmdInit)
	_, err = c.run(cmdInit)
	assert.Error(t, err, "ledger can be initialized only once")
	assert.Equal(t, coin.NewAmount(1000), c.balance(alice))

	var created txView
	out := c.mustRun(cmdEscrowCreate,
		"-key", aliceKey,
		"-time", "2020-09-13T12:00:00Z",
		"-seller", bob.String(),
		"-amount", "100 PAY",
		"-release-in", "1h")
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, coin.NewAmount(900), c.balance(alice))

	out, err = c.run(cmdEscrowRelease, "-key", bobKey, "-time", "2020-09-13T12:10:00Z", "-id", "1")
	assert.Error(t, err, "release time did not pass")
	assert.Contains(t, out, `"code": 1001`)

	c.mustRun(cmdTick, "-time", "2020-09-13T13:30:00Z")
	assert.Equal(t, coin.NewAmount(100), c.balance(bob))

	out = c.mustRun(cmdEscrow, "-id", "1")
	assert.Contains(t, out, `"status": "released"`)

	out = c.mustRun(cmdEvents, "-topic", "released")
	assert.Equal(t, 1, strings.Count(out, "\n"), out)
	assert.Contains(t, out, "released{")

	out = c.mustRun(cmdInstallmentCreate,
		"-key", aliceKey,
		"-time", "2020-09-13T14:00:00Z",
		"-seller", bob.String(),
		"-arbitrator", carol.String(),
		"-total", "50 PAY",
		"-description", "bicycle")
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, uint64(1), created.ID)

	c.mustRun(cmdInstallmentAccept, "-key", bobKey, "-time", "2020-09-13T14:01:00Z", "-id", "1")
	c.mustRun(cmdInstallmentPay, "-key", aliceKey, "-time", "2020-09-13T14:02:00Z", "-id", "1", "-amount", "50 PAY")
	c.mustRun(cmdInstallmentFinalize, "-key", bobKey, "-time", "2020-09-13T14:03:00Z", "-id", "1")
	assert.Equal(t, coin.NewAmount(150), c.balance(bob))
	assert.Equal(t, coin.NewAmount(850), c.balance(alice))

	out = c.mustRun(cmdAgreement, "-id", "1")
	assert.Contains(t, out, `"state": "finalized"`)
}

func TestAccountsFlag(t *testing.T) {
	var a accountsValue
	addr := "0102030405060708090A0B0C0D0E0F1011121314"
	require.NoError(t, a.Set(addr+"=10 PAY"))
	require.NoError(t, a.Set(addr+"=5 ETH"))
	assert.Len(t, a, 1)
	assert.Equal(t, addr+"=10 PAY,"+addr+"=5 ETH", a.String())

	assert.Error(t, a.Set(addr))
	assert.Error(t, a.Set("xyz=10 PAY"))
	assert.Error(t, a.Set(addr+"=ten PAY"))
}

func TestAddresses(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdAddresses(nil, &out, []string{"-kind", "installment", "-offset", "3", "-limit", "2", "-header=false"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[0])
	assert.Equal(t, "3", fields[0])
	assert.Equal(t, installment.Condition(3).Address().String(), fields[1])

	assert.Error(t, cmdAddresses(nil, &out, []string{"-kind", "paychan"}))
	assert.Error(t, cmdAddresses(nil, &out, []string{"-offset", "0"}))
}
