package model

// BitcoinBalanceResponse represents response for GET /bitcoin/balance
type BitcoinBalanceResponse struct {
	Subaccount  uint32 `json:"subaccount"`
	Confirmed   uint64 `json:"confirmedSatoshi"`
	Unconfirmed uint64 `json:"unconfirmedSatoshi"`
	BTC         string `json:"btc"`
	Currency    string `json:"currency,omitempty"`
	Rate        string `json:"rate,omitempty"`
	Fiat        string `json:"fiat,omitempty"`
}

// ReceiveResponse represents response for GET /bitcoin/receive
type ReceiveResponse struct {
	Subaccount uint32 `json:"subaccount"`
	Address    string `json:"address"`
	URI        string `json:"uri"`
	QR         string `json:"QR"` // base64 PNG
}

// FeesResponse represents response for GET /bitcoin/fees
type FeesResponse struct {
	Tiers []uint64 `json:"tiers"` // sat/vbyte, lowest first
}
