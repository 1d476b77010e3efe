package model

// BalanceEntry is a destination of a sweep.
// Satoshi zero means "the remainder of the swept funds".
type BalanceEntry struct {
	Address string `json:"address"`
	Satoshi uint64 `json:"satoshi,omitempty"`
}

// SweepRequest moves all funds controlled by PrivateKey into Addressees
type SweepRequest struct {
	PrivateKey string         `json:"-"`
	FeeRate    uint64         `json:"feeRate"` // sat/vbyte
	Addressees []BalanceEntry `json:"addressees"`
	Subaccount uint32         `json:"subaccount"`
}
