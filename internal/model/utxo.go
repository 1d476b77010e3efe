package model

import (
	"fmt"
)

// UTXO represents an unspent output owned by the wallet
type UTXO struct {
	TxID      string `json:"txId"`
	Vout      uint32 `json:"vout"`
	Address   string `json:"address"`
	Satoshi   uint64 `json:"satoshi"`
	BTC       string `json:"btc"`
	Confirmed bool   `json:"confirmed"`
	Change    bool   `json:"change"`
}

// UTXOResponse represents response for GET /bitcoin/utxos
type UTXOResponse struct {
	Subaccount     uint32 `json:"subaccount"`
	TotalSatoshi   uint64 `json:"totalSatoshi"`
	TotalBTC       string `json:"totalBTC"`
	Outputs        []UTXO `json:"outputs"`
	ConfirmedCount int    `json:"confirmedCount"`
}

// UTXORequest represents filter parameters for GET /bitcoin/utxos
type UTXORequest struct {
	Subaccount uint32
	TxID       *string
	MinSatoshi *uint64
	MaxSatoshi *uint64
	Confirmed  *bool
	Change     *bool
}

// Validate validates UTXORequest filter parameters.
func (r *UTXORequest) Validate() error {
	if r.TxID != nil && len(*r.TxID) != 64 {
		return fmt.Errorf("txId must be 64 hex characters")
	}
	if r.MinSatoshi != nil && r.MaxSatoshi != nil && *r.MinSatoshi > *r.MaxSatoshi {
		return fmt.Errorf("minSatoshi must be less than or equal to maxSatoshi")
	}
	return nil
}
