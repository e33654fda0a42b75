package cash

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x"
)

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// SendHandler moves coins on behalf of the source wallet owner.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

func (h SendHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver moves the coins. Insufficient funds fail the transaction.
func (h SendHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx custody.Context, tx custody.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
