package model

// PayloadKind is the classification of a scanned string
type PayloadKind string

const (
	PayloadPrivateKey  PayloadKind = "PRIVATE_KEY"
	PayloadPaymentURI  PayloadKind = "PAYMENT_URI"
	PayloadBareAddress PayloadKind = "BARE_ADDRESS"
)

// ScannedPayload is a classified scan result.
// A bare address is carried as a PaymentURI with the bitcoin: prefix added and Origin set to BareAddress.
type ScannedPayload struct {
	Kind   PayloadKind `json:"kind"`
	Text   string      `json:"text"`
	Origin PayloadKind `json:"origin,omitempty"`
}

// IsBareAddress reports whether the URI text was produced by prefixing a bare address
func (p ScannedPayload) IsBareAddress() bool {
	return p.Kind == PayloadPaymentURI && p.Origin == PayloadBareAddress
}
