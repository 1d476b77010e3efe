package hdwallet

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

const (
	purposeBIP84 = 84

	chainExternal = 0
	chainInternal = 1
)

// ErrUnknownSubaccount is returned for a subaccount missing from the wallet file
var ErrUnknownSubaccount = errors.New("unknown subaccount")

// DeriveAccounts derives the master fingerprint and the first count BIP84 account xpubs of seed
func DeriveAccounts(seed []byte, params *chaincfg.Params, count uint32) (uint32, []model.AccountKey, error) {
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create master key: %w", err)
	}

	masterPub, err := master.ECPubKey()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get master public key: %w", err)
	}
	fingerprint := binary.LittleEndian.Uint32(btcutil.Hash160(masterPub.SerializeCompressed())[:4])

	purpose, err := master.Derive(hdkeychain.HardenedKeyStart + purposeBIP84)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to derive purpose: %w", err)
	}
	coin, err := purpose.Derive(hdkeychain.HardenedKeyStart + params.HDCoinType)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to derive coin type: %w", err)
	}

	accounts := make([]model.AccountKey, 0, count)
	for sub := uint32(0); sub < count; sub++ {
		account, err := coin.Derive(hdkeychain.HardenedKeyStart + sub)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to derive account %d: %w", sub, err)
		}
		xpub, err := account.Neuter()
		if err != nil {
			return 0, nil, fmt.Errorf("failed to neuter account %d: %w", sub, err)
		}
		accounts = append(accounts, model.AccountKey{
			Subaccount: sub,
			Path:       fmt.Sprintf("m/%d'/%d'/%d'", purposeBIP84, params.HDCoinType, sub),
			XPub:       xpub.String(),
		})
	}

	return fingerprint, accounts, nil
}

// FormatFingerprint encodes a fingerprint as the 4 bytes found in key origins
func FormatFingerprint(fingerprint uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], fingerprint)
	return hex.EncodeToString(b[:])
}

// Keyring derives BIP84 addresses of a wallet from its public account keys.
// It never holds private keys.
type Keyring struct {
	params      *chaincfg.Params
	fingerprint uint32
	gapLimit    uint32
	accounts    map[uint32]*hdkeychain.ExtendedKey
}

// NewKeyring loads the account xpubs of a wallet file header
func NewKeyring(header *model.CWTFile, params *chaincfg.Params, gapLimit uint32) (*Keyring, error) {
	if header.Network != params.Name {
		return nil, fmt.Errorf("wallet is for %s, not %s", header.Network, params.Name)
	}
	if gapLimit == 0 {
		return nil, errors.New("gap limit must be positive")
	}

	fp, err := hex.DecodeString(header.Fingerprint)
	if err != nil || len(fp) != 4 {
		return nil, fmt.Errorf("invalid fingerprint %q", header.Fingerprint)
	}

	accounts := make(map[uint32]*hdkeychain.ExtendedKey, len(header.Accounts))
	for _, acc := range header.Accounts {
		key, err := hdkeychain.NewKeyFromString(acc.XPub)
		if err != nil {
			return nil, fmt.Errorf("invalid xpub for subaccount %d: %w", acc.Subaccount, err)
		}
		if key.IsPrivate() {
			return nil, fmt.Errorf("subaccount %d holds a private key", acc.Subaccount)
		}
		if !key.IsForNet(params) {
			return nil, fmt.Errorf("xpub for subaccount %d is not for %s", acc.Subaccount, params.Name)
		}
		accounts[acc.Subaccount] = key
	}

	return &Keyring{
		params:      params,
		fingerprint: binary.LittleEndian.Uint32(fp),
		gapLimit:    gapLimit,
		accounts:    accounts,
	}, nil
}

// Fingerprint returns the master key fingerprint used in PSBT key origins
func (k *Keyring) Fingerprint() uint32 {
	return k.fingerprint
}

// HasSubaccount reports whether the wallet file carries subaccount
func (k *Keyring) HasSubaccount(subaccount uint32) bool {
	_, ok := k.accounts[subaccount]
	return ok
}

// Address derives the P2WPKH address at chain/index of subaccount
func (k *Keyring) Address(subaccount uint32, change bool, index uint32) (model.DerivedAddress, error) {
	account, ok := k.accounts[subaccount]
	if !ok {
		return model.DerivedAddress{}, fmt.Errorf("%w: %d", ErrUnknownSubaccount, subaccount)
	}

	chain := uint32(chainExternal)
	if change {
		chain = chainInternal
	}

	branch, err := account.Derive(chain)
	if err != nil {
		return model.DerivedAddress{}, fmt.Errorf("failed to derive chain %d: %w", chain, err)
	}
	child, err := branch.Derive(index)
	if err != nil {
		return model.DerivedAddress{}, fmt.Errorf("failed to derive index %d: %w", index, err)
	}
	pub, err := child.ECPubKey()
	if err != nil {
		return model.DerivedAddress{}, fmt.Errorf("failed to get public key: %w", err)
	}

	pubBytes := pub.SerializeCompressed()
	addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pubBytes), k.params)
	if err != nil {
		return model.DerivedAddress{}, fmt.Errorf("failed to create address: %w", err)
	}

	return model.DerivedAddress{
		Address: addr.EncodeAddress(),
		PubKey:  pubBytes,
		Path: []uint32{
			hdkeychain.HardenedKeyStart + purposeBIP84,
			hdkeychain.HardenedKeyStart + k.params.HDCoinType,
			hdkeychain.HardenedKeyStart + subaccount,
			chain,
			index,
		},
		Change: change,
		Index:  index,
	}, nil
}

// Addresses derives the first gap-limit addresses of both chains of subaccount, external first.
func (k *Keyring) Addresses(subaccount uint32) ([]model.DerivedAddress, error) {
	out := make([]model.DerivedAddress, 0, 2*k.gapLimit)
	for _, change := range []bool{false, true} {
		for i := uint32(0); i < k.gapLimit; i++ {
			addr, err := k.Address(subaccount, change, i)
			if err != nil {
				return nil, err
			}
			out = append(out, addr)
		}
	}
	return out, nil
}

// ReceiveAddress returns the first external address of subaccount
func (k *Keyring) ReceiveAddress(_ context.Context, subaccount uint32) (string, error) {
	addr, err := k.Address(subaccount, false, 0)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

// ChangeAddress returns the first internal address of subaccount
func (k *Keyring) ChangeAddress(subaccount uint32) (model.DerivedAddress, error) {
	return k.Address(subaccount, true, 0)
}
