package escrow

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
	"github.com/paystar/custody/x"
)

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(pathInitializeMsg, initializeHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetAdminMsg, setAdminHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCreateMsg, createHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathConfirmReceiptMsg, confirmReceiptHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathReleaseMsg, releaseHandler{ctrl: ctrl})
	r.Handle(pathDisputeMsg, disputeHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathResolveDisputeMsg, resolveDisputeHandler{auth: auth, ctrl: ctrl})
}

// requireSigner fails if the address is not authenticated. Check uses it to
// reject unsigned messages without touching the state.
func requireSigner(ctx custody.Context, auth x.Authenticator, addr custody.Address, role string) error {
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}

type initializeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h initializeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg InitializeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Admin, "admin"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h initializeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg InitializeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Initialize(ctx, db, msg.Admin); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type setAdminHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h setAdminHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg SetAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Admin, "admin"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h setAdminHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg SetAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.SetAdmin(ctx, db, msg.Admin, msg.NewAdmin); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type createHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h createHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Buyer, "buyer"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver returns the id of the new escrow as data.
func (h createHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	id, err := h.ctrl.Create(ctx, db, msg.Buyer, msg.Seller, msg.Amount, msg.ReleaseTime)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: orm.EncodeSequence(id)}, nil
}

type confirmReceiptHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h confirmReceiptHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg ConfirmReceiptMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Buyer, "buyer"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h confirmReceiptHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg ConfirmReceiptMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.ConfirmReceipt(ctx, db, msg.Buyer, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type releaseHandler struct {
	ctrl *Controller
}

func (h releaseHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg ReleaseMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &custody.CheckResult{}, nil
}

func (h releaseHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg ReleaseMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.ReleaseFunds(ctx, db, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type disputeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h disputeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg DisputeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Buyer, "buyer"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h disputeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg DisputeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Dispute(ctx, db, msg.Buyer, msg.EscrowID, msg.Reason); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type resolveDisputeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h resolveDisputeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg ResolveDisputeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Admin, "admin"); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h resolveDisputeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg ResolveDisputeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.ResolveDisputeAndRefund(ctx, db, msg.Admin, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}
