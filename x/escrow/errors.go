package escrow

import "github.com/paystar/custody/errors"

// Escrow takes the 1000-1019 range of error codes.
var (
	ErrAlreadyInitialized   = errors.Register(1000, "escrow admin already initialized")
	ErrReleaseTimeNotPassed = errors.Register(1001, "release time not passed")
	ErrNotActive            = errors.Register(1002, "escrow not active")
	ErrAlreadyDisputed      = errors.Register(1003, "escrow already disputed")
	ErrNotDisputed          = errors.Register(1004, "escrow not disputed")
	ErrNotAdmin             = errors.Register(1005, "not the escrow admin")
	ErrNotBuyer             = errors.Register(1006, "not the escrow buyer")
	ErrEscrowNotFound       = errors.Register(1007, "escrow not found")
	ErrInvalidAmount        = errors.Register(1008, "invalid escrow amount")
	ErrInvalidReleaseTime   = errors.Register(1009, "invalid release time")
)
