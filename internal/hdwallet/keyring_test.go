package hdwallet

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// seed of the "abandon abandon ... about" mnemonic with an empty passphrase
const abandonSeed = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

func testHeader(t *testing.T, params *chaincfg.Params) *model.CWTFile {
	t.Helper()
	seed, err := hex.DecodeString(abandonSeed)
	require.NoError(t, err)

	fp, accounts, err := DeriveAccounts(seed, params, 2)
	require.NoError(t, err)
	return &model.CWTFile{
		Network:     params.Name,
		Fingerprint: FormatFingerprint(fp),
		Accounts:    accounts,
	}
}

func TestDeriveAccounts(t *testing.T) {
	header := testHeader(t, &chaincfg.MainNetParams)

	assert.Equal(t, "73c5da0a", header.Fingerprint)
	require.Len(t, header.Accounts, 2)
	assert.Equal(t, "m/84'/0'/0'", header.Accounts[0].Path)
	assert.Equal(t, "m/84'/0'/1'", header.Accounts[1].Path)
	assert.Equal(t, "xpub", header.Accounts[0].XPub[:4])
}

func TestKeyring_BIP84Vectors(t *testing.T) {
	k, err := NewKeyring(testHeader(t, &chaincfg.MainNetParams), &chaincfg.MainNetParams, 20)
	require.NoError(t, err)

	recv, err := k.ReceiveAddress(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", recv)

	second, err := k.Address(0, false, 1)
	require.NoError(t, err)
	assert.Equal(t, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g", second.Address)

	change, err := k.ChangeAddress(0)
	require.NoError(t, err)
	assert.Equal(t, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el", change.Address)
	assert.True(t, change.Change)
	assert.Equal(t, []uint32{
		hdkeychain.HardenedKeyStart + 84,
		hdkeychain.HardenedKeyStart,
		hdkeychain.HardenedKeyStart,
		1,
		0,
	}, change.Path)
	assert.Len(t, change.PubKey, 33)
}

func TestKeyring_Addresses(t *testing.T) {
	k, err := NewKeyring(testHeader(t, &chaincfg.MainNetParams), &chaincfg.MainNetParams, 3)
	require.NoError(t, err)

	addrs, err := k.Addresses(1)
	require.NoError(t, err)
	require.Len(t, addrs, 6)
	assert.False(t, addrs[2].Change)
	assert.True(t, addrs[3].Change)
	assert.Equal(t, uint32(0), addrs[3].Index)

	seen := map[string]bool{}
	for _, a := range addrs {
		assert.False(t, seen[a.Address])
		seen[a.Address] = true
	}
}

func TestKeyring_UnknownSubaccount(t *testing.T) {
	k, err := NewKeyring(testHeader(t, &chaincfg.MainNetParams), &chaincfg.MainNetParams, 5)
	require.NoError(t, err)

	assert.False(t, k.HasSubaccount(7))
	_, err = k.ReceiveAddress(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUnknownSubaccount)
}

func TestKeyring_Testnet(t *testing.T) {
	k, err := NewKeyring(testHeader(t, &chaincfg.TestNet3Params), &chaincfg.TestNet3Params, 5)
	require.NoError(t, err)

	recv, err := k.ReceiveAddress(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "tb1", recv[:3])
}

func TestNewKeyring_Rejects(t *testing.T) {
	header := testHeader(t, &chaincfg.MainNetParams)

	_, err := NewKeyring(header, &chaincfg.TestNet3Params, 5)
	assert.Error(t, err)

	_, err = NewKeyring(header, &chaincfg.MainNetParams, 0)
	assert.Error(t, err)

	bad := *header
	bad.Fingerprint = "xyz"
	_, err = NewKeyring(&bad, &chaincfg.MainNetParams, 5)
	assert.Error(t, err)

	bad = *header
	bad.Accounts = []model.AccountKey{{Subaccount: 0, XPub: "xpubnope"}}
	_, err = NewKeyring(&bad, &chaincfg.MainNetParams, 5)
	assert.Error(t, err)
}
