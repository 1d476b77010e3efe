package payload

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

const (
	genesisAddress   = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	wifUncompressed  = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	wifCompressed    = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
	wifKeyHex        = "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d"
	miniKey          = "SzavMBLoXU6kDrqtUVmffv"
	miniKeyDerivedHx = "4c7a9640c72dc2099f23715d0c8a0d8a35f8906e3cab61dd3f78b67bf887c9ab"
)

func TestClassify_PaymentURIUnchanged(t *testing.T) {
	for _, in := range []string{
		"bitcoin:" + genesisAddress,
		"BITCOIN:" + genesisAddress + "?amount=1",
		"Bitcoin:anything at all",
		"bitcoin:",
	} {
		p := Classify(in, &chaincfg.MainNetParams)
		assert.Equal(t, model.PayloadPaymentURI, p.Kind, in)
		assert.Equal(t, in, p.Text, in)
		assert.False(t, p.IsBareAddress(), in)
	}
}

func TestClassify_BareAddressPrefixedOnce(t *testing.T) {
	for _, in := range []string{genesisAddress, "invalid!!", "", "bitcoin", "bitcoin;x"} {
		p := Classify(in, &chaincfg.MainNetParams)
		assert.Equal(t, model.PayloadPaymentURI, p.Kind, in)
		assert.Equal(t, "bitcoin:"+in, p.Text, in)
		assert.True(t, p.IsBareAddress(), in)
	}
}

func TestClassify_PrivateKeys(t *testing.T) {
	for _, in := range []string{wifUncompressed, wifCompressed, miniKey} {
		p := Classify(in, &chaincfg.MainNetParams)
		assert.Equal(t, model.PayloadPrivateKey, p.Kind, in)
		assert.Equal(t, in, p.Text, in)
	}
}

func TestClassify_PrefixWinsOverKey(t *testing.T) {
	p := Classify("bitcoin:"+wifCompressed, &chaincfg.MainNetParams)
	assert.Equal(t, model.PayloadPaymentURI, p.Kind)
	assert.Equal(t, "bitcoin:"+wifCompressed, p.Text)
}

func TestClassify_WrongNetworkKeyIsAddress(t *testing.T) {
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	wif, err := btcutil.NewWIF(key, &chaincfg.TestNet3Params, true)
	require.NoError(t, err)

	p := Classify(wif.String(), &chaincfg.MainNetParams)
	assert.Equal(t, model.PayloadPaymentURI, p.Kind)

	p = Classify(wif.String(), &chaincfg.TestNet3Params)
	assert.Equal(t, model.PayloadPrivateKey, p.Kind)
}

func TestClassify_Idempotent(t *testing.T) {
	for _, in := range []string{genesisAddress, wifCompressed, "bitcoin:" + genesisAddress, "garbage"} {
		first := Classify(in, &chaincfg.MainNetParams)
		second := Classify(in, &chaincfg.MainNetParams)
		assert.Equal(t, first, second, in)
	}
}

func TestDecodePrivateKey(t *testing.T) {
	key, err := DecodePrivateKey(wifUncompressed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.False(t, key.Compressed)
	assert.Equal(t, wifKeyHex, hex.EncodeToString(key.Key.Serialize()))
	assert.Len(t, key.PubKey(), 65)

	key, err = DecodePrivateKey(wifCompressed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.True(t, key.Compressed)
	assert.Equal(t, wifKeyHex, hex.EncodeToString(key.Key.Serialize()))
	assert.Len(t, key.PubKey(), 33)
}

func TestDecodePrivateKey_MiniKey(t *testing.T) {
	key, err := DecodePrivateKey(miniKey, &chaincfg.TestNet3Params)
	require.NoError(t, err)
	assert.True(t, key.Mini)
	assert.False(t, key.Compressed)
	assert.Equal(t, miniKeyDerivedHx, hex.EncodeToString(key.Key.Serialize()))
}

func TestDecodePrivateKey_Rejects(t *testing.T) {
	for _, in := range []string{"", genesisAddress, "TzavMBLoXU6kDrqtUVmffv", "not a key", wifCompressed[:40]} {
		_, err := DecodePrivateKey(in, &chaincfg.MainNetParams)
		assert.ErrorIs(t, err, ErrNotPrivateKey, in)
	}
}
