package model

// ClassifyRequest represents request for POST /bitcoin/classify
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// ScanRequest represents request for POST /bitcoin/scan
type ScanRequest struct {
	Text       string `json:"text" binding:"required"`
	Subaccount uint32 `json:"subaccount"`
}

// SweepKeyRequest represents request for POST /bitcoin/sweep
type SweepKeyRequest struct {
	PrivateKey string `json:"privateKey" binding:"required"`
	Subaccount uint32 `json:"subaccount"`
	FeeTier    *int   `json:"feeTier,omitempty"`
}

// URIRequest represents request for POST /bitcoin/uri
type URIRequest struct {
	URI        string `json:"uri" binding:"required"`
	Subaccount uint32 `json:"subaccount"`
}
