package core

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// GLC error codes. Values follow the GLC enumerants so they may be handed
// out unchanged by an API layer.
const (
	NOERROR         int = 0
	EPARAMETER      int = 0x0040 // caller-supplied value out of range or unknown
	ERESOURCE       int = 0x0041 // allocation or external call failed
	ESTATE          int = 0x0042 // no context bound or illegal state transition
	ESTACKOVERFLOW  int = 0x800A // attribute stack full
	ESTACKUNDERFLOW int = 0x800B // attribute stack empty
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EPARAMETER:
		return "parameter error"
	case ERESOURCE:
		return "resource error"
	case ESTATE:
		return "state error"
	case ESTACKOVERFLOW:
		return "stack overflow"
	case ESTACKUNDERFLOW:
		return "stack underflow"
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
	if e.msg != "" {
		return fmt.Sprintf("[%#04x] %s: %v", e.code, e.msg, e.error)
	}
	return fmt.Sprintf("[%#04x] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

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
// Errors without a code stem from external calls (file access, font
// parsing) and are reported as ERESOURCE.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return ERESOURCE
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks the status code and returns that message.
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

// UserError prints an error to stderr.
func UserError(err error) {
	if e, ok := err.(AppError); ok {
		fmt.Fprintf(os.Stderr, "[%#04x] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// --- Sticky error codes ----------------------------------------------------

// Sticky holds an error code which, once set, ignores further errors until it
// is read. The zero value holds NOERROR and is ready to use.
type Sticky struct {
	mu   sync.Mutex
	code int
	err  error
}

// Raise records the code of err, if no other code is pending.
// Raise(nil) is a no-op.
func (s *Sticky) Raise(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == NOERROR {
		s.code = Code(err)
		s.err = err
	}
}

// Get returns the pending error code and resets it to NOERROR.
func (s *Sticky) Get() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.code
	s.code, s.err = NOERROR, nil
	return code
}

// Peek returns the pending error without clearing it.
func (s *Sticky) Peek() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
