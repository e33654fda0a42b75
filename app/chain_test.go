package app

import (
	"context"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x/utils"
	"github.com/stretchr/testify/assert"
)

// panicAtHeight panics if the context height is above the limit.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if h, _ := custody.GetHeight(ctx); h > int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if h, _ := custody.GetHeight(ctx); h > int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{}
	c3 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	var nilDecorator *custodytest.Decorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nilDecorator,
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	ctx := custody.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = custody.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic happens before c3 is reached
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainDoesNotShareDecorators(t *testing.T) {
	base := ChainDecorators(&custodytest.Decorator{})
	a := base.Chain(&custodytest.Decorator{CheckErr: errors.ErrState})
	b := base.Chain(&custodytest.Decorator{})

	_, err := b.WithHandler(&custodytest.Handler{}).Check(nil, nil, nil)
	assert.NoError(t, err)
	_, err = a.WithHandler(&custodytest.Handler{}).Check(nil, nil, nil)
	assert.True(t, errors.ErrState.Is(err))
}
