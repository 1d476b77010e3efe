package model

// CWTFile represents .cwt file structure
type CWTFile struct {
	Network     string       `json:"network"`
	Fingerprint string       `json:"fingerprint"` // master key fingerprint, hex
	Accounts    []AccountKey `json:"accounts"`
	Address     string       `json:"address"` // first receive address of subaccount 0
	QR          string       `json:"QR"`
	Salt        string       `json:"salt"`
	Nonce       string       `json:"nonce"`
	CipherText  string       `json:"cipherText"`
}

// AccountKey is the public key of one BIP84 subaccount, readable without the password
type AccountKey struct {
	Subaccount uint32 `json:"subaccount"`
	Path       string `json:"path"`
	XPub       string `json:"xpub"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	Seed      []byte `json:"seed"` // BIP32 seed (stored as base64 in JSON)
	CreatedAt string `json:"createdAt"`
}

// DerivedAddress is a wallet address together with its derivation data
type DerivedAddress struct {
	Address string   `json:"address"`
	PubKey  []byte   `json:"-"`
	Path    []uint32 `json:"-"`
	Change  bool     `json:"change"`
	Index   uint32   `json:"index"`
}
