package core

import (
	"errors"
	"fmt"
)

// General error codes
const (
	NOERROR       int = 0
	EMISSING      int = 122 // resource does not exist
	EINVALID      int = 123 // validation failed
	EUSAGE        int = 126 // command line arguments wrong
	EINIT         int = 127 // font subsystem could not be set up
	ECOLLABORATOR int = 128 // reordering or shaping failed
	EINTERNAL     int = 125 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case EUSAGE:
		return "usage"
	case EINIT:
		return "initialization failed"
	case ECOLLABORATOR:
		return "collaborator failed"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// ExitStatus maps an error to the process exit status reported by
// command line tools. Every failure class has a distinct negative status;
// nil maps to 0.
func ExitStatus(err error) int {
	switch Code(err) {
	case NOERROR:
		return 0
	case EUSAGE:
		return -1
	case EINIT:
		return -2
	case EMISSING:
		return -3
	case ECOLLABORATOR:
		return -4
	case EINVALID:
		return -5
	}
	return -6
}

// UserError formats a one-line diagnostic for err, led by its error code.
func UserError(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return fmt.Sprintf("[%d] %s", e.ErrorCode(), e.UserMessage())
	}
	return fmt.Sprintf("[%d] %s", Code(err), err.Error())
}
