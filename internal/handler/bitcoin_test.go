package handler

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/scan-wallet/bitcoin"
	"github.com/AlexZinkM/scan-wallet/internal/client"
	"github.com/AlexZinkM/scan-wallet/internal/hdwallet"
	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// seed of the "abandon abandon ... about" mnemonic with an empty passphrase
const abandonSeed = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

const (
	testWIF         = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
	testAddress     = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	testReceiveAddr = "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"
	testHash        = "aa00000000000000000000000000000000000000000000000000000000000001"
)

type mockChain struct {
	unspent map[string][]client.Utxo
}

func (m *mockChain) GetAllUnspent(_ context.Context, address string) ([]client.Utxo, error) {
	return m.unspent[address], nil
}

func (m *mockChain) GetRawTransaction(_ context.Context, txHash string) ([]byte, error) {
	return nil, errors.New("unknown transaction " + txHash)
}

type mockFees struct {
	rates []uint64
}

func (m *mockFees) Tiers(_ context.Context) ([]uint64, error) {
	return m.rates, nil
}

func (m *mockFees) Tier(_ context.Context, index int) (uint64, error) {
	if index >= len(m.rates) {
		return 0, errors.New("fee tier out of range")
	}
	return m.rates[index], nil
}

func writeWalletHeader(t *testing.T) string {
	t.Helper()
	seed, err := hex.DecodeString(abandonSeed)
	require.NoError(t, err)

	fp, accounts, err := hdwallet.DeriveAccounts(seed, &chaincfg.MainNetParams, 2)
	require.NoError(t, err)

	data, err := json.Marshal(model.CWTFile{
		Network:     chaincfg.MainNetParams.Name,
		Fingerprint: hdwallet.FormatFingerprint(fp),
		Accounts:    accounts,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func newTestHandler(t *testing.T, path string, chain *mockChain) *BitcoinHandler {
	t.Helper()
	logger, _ := test.NewNullLogger()

	w, err := bitcoin.NewWallet(bitcoin.Options{
		FilePath:    path,
		Params:      &chaincfg.MainNetParams,
		Subaccounts: 2,
		GapLimit:    2,
		Chain:       chain,
		Fees:        &mockFees{rates: []uint64{1, 3, 8}},
	}, logger)
	require.NoError(t, err)

	h, err := NewBitcoinHandler(w, func() ([]byte, error) { return []byte("pw"), nil }, logger)
	require.NoError(t, err)
	return h
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) model.TransactionResult {
	t.Helper()
	var result model.TransactionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	return result
}

func TestNewBitcoinHandler_Validates(t *testing.T) {
	_, err := NewBitcoinHandler(nil, nil, nil)
	assert.Error(t, err)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Scan(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/scan", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.GetBalance(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/balance", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReceive(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Receive(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/receive?subaccount=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ReceiveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testReceiveAddr, resp.Address)
	assert.Equal(t, "bitcoin:"+testReceiveAddr, resp.URI)

	rec = httptest.NewRecorder()
	h.Receive(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/receive?subaccount=9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Receive(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/receive?subaccount=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoWalletIsNotFound(t *testing.T) {
	h := newTestHandler(t, filepath.Join(t.TempDir(), "missing.cwt"), &mockChain{})

	rec := httptest.NewRecorder()
	h.Scan(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/scan", strings.NewReader(`{"text":"x"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "generate a wallet first")
}

func TestGetBalance(t *testing.T) {
	chain := &mockChain{unspent: map[string][]client.Utxo{
		testReceiveAddr: {{BlockID: 1, TransactionHash: testHash, Value: 42_000}},
	}}
	h := newTestHandler(t, writeWalletHeader(t), chain)

	rec := httptest.NewRecorder()
	h.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/balance", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.BitcoinBalanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(42_000), resp.Confirmed)
	assert.Equal(t, "0.00042000", resp.BTC)
}

func TestGetFees(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.GetFees(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/fees", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tiers":[1,3,8]}`, rec.Body.String())
}

func TestUTXOs(t *testing.T) {
	chain := &mockChain{unspent: map[string][]client.Utxo{
		testReceiveAddr: {
			{BlockID: 1, TransactionHash: testHash, Index: 0, Value: 5_000},
			{BlockID: -1, TransactionHash: testHash, Index: 1, Value: 7_000},
		},
	}}
	h := newTestHandler(t, writeWalletHeader(t), chain)

	rec := httptest.NewRecorder()
	h.UTXOs(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/utxos?confirmed=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.UTXOResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Outputs, 1)
	assert.Equal(t, uint64(5_000), resp.TotalSatoshi)

	for _, query := range []string{"minSatoshi=abc", "confirmed=maybe", "txId=short", "minSatoshi=10&maxSatoshi=5"} {
		rec = httptest.NewRecorder()
		h.UTXOs(rec, httptest.NewRequest(http.MethodGet, "/bitcoin/utxos?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestClassify(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Classify(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/classify", strings.NewReader(`{"text":"`+testAddress+`"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var p model.ScannedPayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, model.PayloadPaymentURI, p.Kind)
	assert.Equal(t, "bitcoin:"+testAddress, p.Text)
	assert.True(t, p.IsBareAddress())

	rec = httptest.NewRecorder()
	h.Classify(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/classify", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScan_PaymentWithoutAmount(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Scan(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/scan", strings.NewReader(`{"text":"`+testAddress+`"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	require.NotNil(t, result.Built)
	assert.Nil(t, result.Failed)
	assert.Equal(t, testAddress, result.Built.Addressees[0].Address)
}

func TestScan_FailureIsUnprocessable(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Scan(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/scan", strings.NewReader(`{"text":"not an address"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	result := decodeResult(t, rec)
	assert.Nil(t, result.Built)
	require.NotNil(t, result.Failed)
	assert.Equal(t, model.KindInvalidAddress, result.Failed.Kind)
}

func TestSweep_NoFunds(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Sweep(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/sweep", strings.NewReader(`{"privateKey":"`+testWIF+`","feeTier":2}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.KindNoFunds, decodeResult(t, rec).Failed.Kind)

	rec = httptest.NewRecorder()
	h.Sweep(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/sweep", strings.NewReader(`{"privateKey":"`+testWIF+`","feeTier":-1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSweep_InvalidKey(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Sweep(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/sweep", strings.NewReader(`{"privateKey":"`+testAddress+`"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.KindInvalidPrivateKey, decodeResult(t, rec).Failed.Kind)
}

func TestPayURI_InvalidURI(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.PayURI(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/uri", strings.NewReader(`{"uri":"bitcoin:`+testAddress+`?amount=abc"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.KindInvalidURI, decodeResult(t, rec).Failed.Kind)
}

func TestGenerate_ExistingFileConflicts(t *testing.T) {
	h := newTestHandler(t, writeWalletHeader(t), &mockChain{})

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/bitcoin/generate", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
