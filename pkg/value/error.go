package value

import "fmt"

// ErrorCode enumerates the error kinds the core raises (spec.md §7).
type ErrorCode string

const (
	ErrArity            ErrorCode = "ArityError"
	ErrType             ErrorCode = "TypeError"
	ErrDivisionByZero   ErrorCode = "DivisionByZero"
	ErrIndexOutOfBounds ErrorCode = "IndexOutOfBounds"
	ErrOutOfMemory      ErrorCode = "OutOfMemory"
	ErrIllegalState     ErrorCode = "IllegalState"
	ErrValidator        ErrorCode = "ValidatorError"
	ErrWasmLoad         ErrorCode = "WasmLoadError"
	ErrWasmInvoke       ErrorCode = "WasmInvokeError"
	ErrWasmMemory       ErrorCode = "WasmMemoryError"
)

// Error is the structured error type every built-in raises, mirroring the
// teacher's types.Error (Code/Message/Position/Token/Err), adapted from a
// parser-position error to a runtime evaluation error (spec.md §7).
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // -1 when not applicable
	Token    string
	Err      error
}

func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithToken attaches the offending token text.
func (e *Error) WithToken(tok string) *Error {
	e.Token = tok
	return e
}

// WithCause wraps an underlying Go error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// NewError constructs a structured *Error with no position information.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Position: -1}
}

// exInfoCarrier is the error ExInfo returns: a structured *Error plus the
// ex-info data map, read back by ExMessage, ExData and AsMap.
type exInfoCarrier struct {
	*exInfoError
	data *Map
}

// exInfoError names Error for embedding, so the promoted Error() method is
// not shadowed by an embedded field that is itself called Error.
type exInfoError = Error

// ExInfo builds an ex-info value: an error carrying a {:message m :data d}
// map (spec.md §7). message and data are surfaced by ExMessage/ExData.
func ExInfo(message string, data *Map) error {
	return &exInfoCarrier{
		exInfoError: NewError(ErrIllegalState, message),
		data:        data,
	}
}

// ExMessage reads the :message key from an ex-info error, or "" if err is
// not one.
func ExMessage(err error) (string, bool) {
	if c, ok := err.(*exInfoCarrier); ok {
		return c.Message, true
	}
	return "", false
}

// ExData reads the :data key from an ex-info error, or nil if err is not
// one or carries no data.
func ExData(err error) (*Map, bool) {
	c, ok := err.(*exInfoCarrier)
	if !ok {
		return nil, false
	}
	return c.data, true
}

// AsMap converts any error into the {:message :data} shape ex-message/
// ex-data expect; for a plain Go error :message is err.Error() and :data
// is nil.
func AsMap(err error) *Map {
	msg := err.Error()
	var data Value = NilVal
	if c, ok := err.(*exInfoCarrier); ok {
		msg = c.Message
		if c.data != nil {
			data = c.data
		}
	}
	m, _ := NewMap(NewKeyword("", "message"), String(msg), NewKeyword("", "data"), data)
	return m
}
