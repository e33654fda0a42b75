package installment

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
	"github.com/paystar/custody/x"
)

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(pathCreateMsg, createHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathAcceptMsg, acceptHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathPayMsg, payHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathFinalizeMsg, finalizeHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCancelMsg, cancelHandler{auth: auth, ctrl: ctrl})
}

// loadSigned loads the message of the transaction and ensures that the
// address returned by signer authorized it.
func loadSigned(ctx custody.Context, auth x.Authenticator, tx custody.Tx, msg custody.Msg, signer func() custody.Address) error {
	if err := custody.LoadMsg(tx, msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	if !auth.HasAddress(ctx, signer()) {
		return errors.Wrap(errors.ErrUnauthorized, "signature missing")
	}
	return nil
}

type createHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h createHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg CreateMsg
	if err := loadSigned(ctx, h.auth, tx, &msg, func() custody.Address { return msg.Buyer }); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver returns the id of the new agreement as data.
func (h createHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	id, err := h.ctrl.Create(ctx, db, msg.Seller, msg.Buyer, msg.Total, msg.DeadlineOffset, msg.Arbitrator, msg.Description)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: orm.EncodeSequence(id)}, nil
}

type acceptHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h acceptHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg AcceptMsg
	if err := loadSigned(ctx, h.auth, tx, &msg, func() custody.Address { return msg.Seller }); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h acceptHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg AcceptMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Accept(ctx, db, msg.Seller, msg.Accept, msg.AgreementID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type payHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h payHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg PayMsg
	if err := loadSigned(ctx, h.auth, tx, &msg, func() custody.Address { return msg.Buyer }); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h payHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg PayMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Pay(ctx, db, msg.Buyer, msg.Amount, msg.AgreementID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type finalizeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h finalizeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg FinalizeMsg
	if err := loadSigned(ctx, h.auth, tx, &msg, func() custody.Address { return msg.Caller }); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h finalizeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg FinalizeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Finalize(ctx, db, msg.Caller, msg.AgreementID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type cancelHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h cancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg CancelMsg
	if err := loadSigned(ctx, h.auth, tx, &msg, func() custody.Address { return msg.Seller }); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h cancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CancelAndRefund(ctx, db, msg.Seller, msg.AgreementID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}
