package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessCode is used in a result to signal that the processing was
	// successful and no error is returned.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed under
	// an internal error code and a generic message instead of detailed
	// error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the error code and message that can be exposed to a client.
// Any error that does not provide a code is categorized as error with code 1.
// When not running in a debug mode all messages of errors that do not provide
// code information are replaced with generic "internal error".
func Info(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	// Only non-internal errors information can be exposed. Any error that
	// does not explicitly expose its state by providing a code must be
	// silenced.
	if code := Code(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// Code returns the code of the root error wrapped by given error. The causer
// chain is followed until an error exposing a code is found.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrowed
// spectrum of cases (mostly in tests) where a more sophisticated check is
// required.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replace all errors that do not wrap a registered error with a
// generic internal error instance. This function is supposed to hide
// implementation details errors and leave only those that the framework
// originates.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
