package model

import "fmt"

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorKind classifies a failed transaction build
type ErrorKind string

const (
	KindInvalidPayload    ErrorKind = "INVALID_PAYLOAD"
	KindInvalidPrivateKey ErrorKind = "INVALID_PRIVATE_KEY"
	KindInvalidAddress    ErrorKind = "INVALID_ADDRESS"
	KindInvalidURI        ErrorKind = "INVALID_URI"
	KindNoFunds           ErrorKind = "NO_FUNDS"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindBackendFailure    ErrorKind = "BACKEND_FAILURE"
)

// Sentinels for errors.Is. A sentinel matches any BuildError of the same kind.
var (
	ErrInvalidPayload    = &BuildError{Kind: KindInvalidPayload}
	ErrInvalidPrivateKey = &BuildError{Kind: KindInvalidPrivateKey}
	ErrInvalidAddress    = &BuildError{Kind: KindInvalidAddress}
	ErrInvalidURI        = &BuildError{Kind: KindInvalidURI}
	ErrNoFunds           = &BuildError{Kind: KindNoFunds}
	ErrInsufficientFunds = &BuildError{Kind: KindInsufficientFunds}
	ErrBackendFailure    = &BuildError{Kind: KindBackendFailure}
)

var shortMessages = map[ErrorKind]string{
	KindInvalidPayload:    "unrecognized payload",
	KindInvalidPrivateKey: "invalid private key",
	KindInvalidAddress:    "invalid address",
	KindInvalidURI:        "invalid payment URI",
	KindNoFunds:           "no funds to spend",
	KindInsufficientFunds: "insufficient funds",
	KindBackendFailure:    "backend failure",
}

// BuildError is a recoverable failure of a single build attempt
type BuildError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewBuildError creates a BuildError of the given kind with a formatted detail message.
func NewBuildError(kind ErrorKind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BackendFailure wraps an upstream message verbatim.
func BackendFailure(message string) *BuildError {
	return &BuildError{Kind: KindBackendFailure, Message: message}
}

func (e *BuildError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ShortMessage()
}

// ShortMessage returns the user-facing text for the error.
// BackendFailure keeps the upstream message to preserve diagnostic detail.
func (e *BuildError) ShortMessage() string {
	if e.Kind == KindBackendFailure && e.Message != "" {
		return e.Message
	}
	if msg, ok := shortMessages[e.Kind]; ok {
		return msg
	}
	return string(e.Kind)
}

// Is reports whether target is the sentinel of e's kind.
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}
