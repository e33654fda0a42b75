package installment

import "github.com/paystar/custody/errors"

// Installment takes the 1020-1039 range of error codes.
var (
	ErrInvalidAmount        = errors.Register(1020, "invalid installment amount")
	ErrDuplicateUsers       = errors.Register(1021, "buyer and seller must differ")
	ErrArbitratorNotAllowed = errors.Register(1022, "arbitrator must be a third party")
	ErrInvalidTimestamp     = errors.Register(1023, "invalid deadline")
	ErrNotAuthorized        = errors.Register(1024, "not a party of the agreement")
	ErrAgreementNotFound    = errors.Register(1025, "agreement not found")
	ErrNotAccepted          = errors.Register(1026, "agreement not accepted")
	ErrAlreadyAccepted      = errors.Register(1027, "agreement already accepted")
	ErrCanceled             = errors.Register(1028, "agreement canceled")
	ErrFinalized            = errors.Register(1029, "agreement finalized")
	ErrDeadlinePassed       = errors.Register(1030, "deadline passed")
	ErrInsufficientBalance  = errors.Register(1031, "insufficient balance")
	ErrAmountNotMet         = errors.Register(1032, "paid amount below total")
)
