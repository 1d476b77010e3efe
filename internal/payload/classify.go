package payload

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// URIPrefix is the payment URI scheme including the colon
const URIPrefix = "bitcoin:"

// Classify tags scanned text as a private key or a payment URI.
// It never fails: anything that is not a URI or a key is assumed to be a
// payable bare address and gets the bitcoin: prefix. Validation happens when
// the transaction is built.
func Classify(text string, params *chaincfg.Params) model.ScannedPayload {
	// The prefix check comes first: a bitcoin: string is never treated as a key.
	if HasURIPrefix(text) {
		return model.ScannedPayload{Kind: model.PayloadPaymentURI, Text: text}
	}

	if _, err := DecodePrivateKey(text, params); err == nil {
		return model.ScannedPayload{Kind: model.PayloadPrivateKey, Text: text}
	}

	return model.ScannedPayload{
		Kind:   model.PayloadPaymentURI,
		Text:   URIPrefix + text,
		Origin: model.PayloadBareAddress,
	}
}

// HasURIPrefix reports whether s starts with bitcoin: in any letter case
func HasURIPrefix(s string) bool {
	return len(s) >= len(URIPrefix) && strings.EqualFold(s[:len(URIPrefix)], URIPrefix)
}
