package sigs

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x"
)

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	r.Handle(pathBumpSequenceMsg, &bumpSequenceHandler{
		b:    NewBucket(),
		auth: auth,
	})
}

type bumpSequenceHandler struct {
	auth x.Authenticator
	b    Bucket
}

func (h *bumpSequenceHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Each transaction processing bumps the sequence by one. Increment
	// must represent the total increment value.
	incr := int64(msg.Increment) - 1
	if incr == 0 {
		return &custody.DeliverResult{}, nil
	}
	user.Sequence += incr
	if err := h.b.Save(db, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &custody.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	user, err := h.b.Get(db, signer.Address())
	if err != nil {
		return nil, nil, errors.Wrap(err, "bucket")
	}
	if user == nil {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "no sequence")
	}
	if user.Sequence+int64(msg.Increment)-1 > maxSequenceValue {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return user, &msg, nil
}
