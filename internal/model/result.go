package model

import "errors"

// Addressee is a single destination of a built transaction
type Addressee struct {
	Address string  `json:"address"`
	Satoshi *uint64 `json:"satoshi,omitempty"` // nil when the amount is left for the caller to enter
	Label   string  `json:"label,omitempty"`
	Message string  `json:"message,omitempty"`
}

// BuiltTransaction is the successful outcome of a build attempt.
// Raw is an opaque serialized PSBT handed to the signing/broadcast stage unmodified.
type BuiltTransaction struct {
	Raw        []byte      `json:"psbt,omitempty"` // base64 in JSON
	Addressees []Addressee `json:"addressees"`
	Subaccount uint32      `json:"subaccount"`
	Sweep      bool        `json:"isSweep"`
	FeeRate    uint64      `json:"feeRate,omitempty"` // sat/vbyte
	Fee        uint64      `json:"fee,omitempty"`     // satoshi
	VSize      int         `json:"vsize,omitempty"`
}

// TransactionResult holds either a built transaction or a failure, never both.
type TransactionResult struct {
	Built  *BuiltTransaction `json:"built,omitempty"`
	Failed *BuildError       `json:"failed,omitempty"`
}

// Built wraps a successful build.
func Built(tx *BuiltTransaction) TransactionResult {
	return TransactionResult{Built: tx}
}

// Failed wraps err as a failed result. Errors that are not a BuildError
// become BackendFailure carrying err's message verbatim.
func Failed(err error) TransactionResult {
	return TransactionResult{Failed: AsBuildError(err)}
}

// OK reports whether the result holds a built transaction
func (r TransactionResult) OK() bool {
	return r.Built != nil && r.Failed == nil
}

// Err returns the failure as an error, or nil on success.
func (r TransactionResult) Err() error {
	if r.Failed == nil {
		return nil
	}
	return r.Failed
}

// AsBuildError extracts a BuildError from err's chain or classifies err as a backend failure.
func AsBuildError(err error) *BuildError {
	if err == nil {
		return nil
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr
	}
	return BackendFailure(err.Error())
}
