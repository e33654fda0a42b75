package custodytest

import "github.com/paystar/custody"

// Handler counts its calls and returns the configured results.
type Handler struct {
	checkCall   int
	CheckResult custody.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult custody.DeliverResult
	DeliverErr    error
}

var _ custody.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the key value pair before returning err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ custody.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.Err
}

// PanicHandler panics with the given value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ custody.Handler = PanicHandler{}

func (h PanicHandler) Check(custody.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(custody.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	panic(h.Value)
}
