package payload

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// base58 alphabet used by mini private keys
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ErrNotPrivateKey is returned when text is neither a WIF nor a mini private key.
var ErrNotPrivateKey = errors.New("not a private key")

// PrivateKey is a decoded sweep key
type PrivateKey struct {
	Key        *btcec.PrivateKey
	Compressed bool
	Mini       bool
}

// PubKey returns the serialized public key in the encoding the key's addresses use.
func (k *PrivateKey) PubKey() []byte {
	if k.Compressed {
		return k.Key.PubKey().SerializeCompressed()
	}
	return k.Key.PubKey().SerializeUncompressed()
}

// DecodePrivateKey decodes a WIF private key for params' network, or a Casascius mini private key.
// Mini keys carry no network and are accepted on any network.
func DecodePrivateKey(text string, params *chaincfg.Params) (*PrivateKey, error) {
	if isMiniKey(text) {
		sum := sha256.Sum256([]byte(text))
		key, _ := btcec.PrivKeyFromBytes(sum[:])
		return &PrivateKey{Key: key, Mini: true}, nil
	}

	wif, err := btcutil.DecodeWIF(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPrivateKey, err)
	}
	if !wif.IsForNet(params) {
		return nil, fmt.Errorf("%w: key is not for %s", ErrNotPrivateKey, params.Name)
	}

	return &PrivateKey{Key: wif.PrivKey, Compressed: wif.CompressPubKey}, nil
}

// isMiniKey checks the mini private key format: 'S' followed by base58 characters,
// 22, 26 or 30 characters long, with SHA256(key + "?") starting with a zero byte.
func isMiniKey(text string) bool {
	switch len(text) {
	case 22, 26, 30:
	default:
		return false
	}
	if text[0] != 'S' {
		return false
	}
	for _, r := range text {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	check := sha256.Sum256([]byte(text + "?"))
	return check[0] == 0x00
}
