package custody

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/paystar/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is passed between the application, the decorators and the
// handlers. It carries the block information (height, time, chain id) and
// the logger. Extensions add their own keys, for example the authenticated
// conditions.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyBlockTime
	contextKeyChainID
	contextKeyLogger
)

var (
	// DefaultLogger is used by every context that has no logger set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID returns true if the given chain id is well formatted.
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithHeight sets the block height. It panics if the height was already
// set, so that lower level code cannot change it.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the block height, if it was set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time. This is the "now" of every operation
// executed within the block. It panics if the time was already set.
func WithBlockTime(ctx Context, t time.Time) Context {
	if _, ok := ctx.Value(contextKeyBlockTime).(time.Time); ok {
		panic("block time already set")
	}
	return context.WithValue(ctx, contextKeyBlockTime, t.UTC())
}

// BlockTime returns the block time. An error is returned if the time was not
// set, as in that case no time based decision can be made.
func BlockTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return t, nil
}

// MustBlockTime returns the block time or panics.
func MustBlockTime(ctx Context) time.Time {
	t, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t
}

// IsExpired returns true if t is not after the block time. Expiration is
// inclusive: a time equal to the block time is expired.
func IsExpired(ctx Context, t UnixTime) bool {
	return t <= AsUnixTime(MustBlockTime(ctx))
}

// WithChainID sets the chain id. It panics if the chain id was already set
// or is not valid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id: %q", chainID))
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id. It panics if the chain id was not set, a
// properly initialized context always has one.
func GetChainID(ctx Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	if val == "" {
		panic("chain id not present in the context")
	}
	return val
}

// WithLogger sets the logger for this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo returns a context with a logger that logs all given key value
// pairs with every entry.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the logger of this context or the DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
