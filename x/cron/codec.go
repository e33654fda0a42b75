package cron

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()
