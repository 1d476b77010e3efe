package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

func init() {
	// keep key derivation cheap in tests
	scryptN = 1 << 10
}

func testHeader() model.CWTFile {
	return model.CWTFile{
		Network:     "testnet3",
		Fingerprint: "73c5da0a",
		Accounts:    []model.AccountKey{{Subaccount: 0, Path: "m/84'/1'/0'", XPub: "tpubX"}},
		Address:     "tb1qexample",
		QR:          "qr",
	}
}

func TestEncryptDecryptWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.cwt")
	data := &model.WalletData{Seed: []byte{1, 2, 3, 4}, CreatedAt: "2026-01-01T00:00:00Z"}

	require.NoError(t, EncryptWallet(path, testHeader(), data, []byte("pw")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
	assert.NotContains(t, string(raw), "AQIDBA==") // base64 of the seed

	header, decrypted, err := DecryptWallet(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, data.Seed, decrypted.Seed)
	assert.Equal(t, data.CreatedAt, decrypted.CreatedAt)
	assert.Equal(t, "73c5da0a", header.Fingerprint)
	assert.Equal(t, "tpubX", header.Accounts[0].XPub)

	_, _, err = DecryptWallet(path, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEncryptWallet_Rejects(t *testing.T) {
	dir := t.TempDir()
	data := &model.WalletData{Seed: []byte{1}}

	err := EncryptWallet(filepath.Join(dir, "w.txt"), testHeader(), data, []byte("pw"))
	assert.Error(t, err)

	path := filepath.Join(dir, "w.cwt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	err = EncryptWallet(path, testHeader(), data, []byte("pw"))
	assert.ErrorIs(t, err, os.ErrExist)

	empty := filepath.Join(dir, "empty.cwt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	assert.NoError(t, EncryptWallet(empty, testHeader(), data, []byte("pw")))
}

func TestReadWalletFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadWalletFile(filepath.Join(dir, "missing.cwt"))
	assert.ErrorIs(t, err, ErrWalletNotFound)

	empty := filepath.Join(dir, "empty.cwt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = ReadWalletFile(empty)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	plain := filepath.Join(dir, "plain.cwt")
	require.NoError(t, os.WriteFile(plain, []byte(`{"network":"mainnet","address":"bc1q"}`), 0600))
	header, err := ReadWalletFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", header.Network)
	assert.Equal(t, "bc1q", header.Address)
}

func TestRekeyWallet(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.cwt")
	dst := filepath.Join(dir, "new.cwt")
	data := &model.WalletData{Seed: []byte{9, 8, 7}, CreatedAt: "now"}
	require.NoError(t, EncryptWallet(src, testHeader(), data, []byte("old")))

	require.NoError(t, RekeyWallet(src, dst, []byte("old"), []byte("new")))

	header, decrypted, err := DecryptWallet(dst, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, data.Seed, decrypted.Seed)
	assert.Equal(t, testHeader().Accounts, header.Accounts)

	oldHeader, err := ReadWalletFile(src)
	require.NoError(t, err)
	assert.NotEqual(t, oldHeader.Salt, header.Salt)

	assert.Error(t, RekeyWallet(src, src, []byte("old"), []byte("new")))
	assert.Error(t, RekeyWallet(src, filepath.Join(dir, "x.cwt"), []byte("bad"), []byte("new")))
}
