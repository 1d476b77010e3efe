package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"

func TestBlockchair_GetAllUnspentPaginates(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bitcoin/dashboards/address/"+testAddress, r.URL.Path)
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		n := utxoPageLimit
		if offset != "0,0" {
			n = 3
		}
		utxos := make([]Utxo, n)
		for i := range utxos {
			utxos[i] = Utxo{BlockID: 800000, TransactionHash: fmt.Sprintf("%064x", i), Index: uint32(i), Value: 1000}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{testAddress: map[string]any{"utxo": utxos}},
		})
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.MainNetParams)
	require.NoError(t, err)

	utxos, err := c.GetAllUnspent(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Len(t, utxos, utxoPageLimit+3)
	assert.Equal(t, []string{"0,0", fmt.Sprintf("0,%d", utxoPageLimit)}, offsets)
	assert.True(t, utxos[0].Confirmed())
}

func TestBlockchair_GetUnspentBatch(t *testing.T) {
	const other = "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"
	addresses := make([]string, AddressBatchLimit+1)
	for i := range addresses {
		addresses[i] = other
	}
	addresses[0] = strings.ToUpper(testAddress)

	var paths, offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		var utxos []map[string]any
		switch {
		case strings.Contains(r.URL.Path, strings.ToUpper(testAddress)) && offset == "0,0":
			for i := 0; i < utxoPageLimit; i++ {
				utxos = append(utxos, map[string]any{"address": testAddress, "block_id": 1, "transaction_hash": fmt.Sprintf("%064x", i), "index": 0, "value": 10})
			}
		case strings.Contains(r.URL.Path, strings.ToUpper(testAddress)):
			utxos = append(utxos, map[string]any{"address": other, "block_id": -1, "transaction_hash": fmt.Sprintf("%064x", 999), "index": 2, "value": 5})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"utxo": utxos}})
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.MainNetParams)
	require.NoError(t, err)

	byAddress, err := c.GetUnspentBatch(context.Background(), addresses)
	require.NoError(t, err)
	assert.Len(t, byAddress[strings.ToUpper(testAddress)], utxoPageLimit)
	require.Len(t, byAddress[other], 1)
	assert.False(t, byAddress[other][0].Confirmed())

	require.Len(t, paths, 3)
	assert.True(t, strings.HasPrefix(paths[0], "/bitcoin/dashboards/addresses/"))
	assert.Equal(t, "/bitcoin/dashboards/addresses/"+other, paths[2])
	assert.Equal(t, []string{"0,0", fmt.Sprintf("0,%d", utxoPageLimit), "0,0"}, offsets)
}

func TestBlockchair_GetUnspentBatchRejectsUnrequested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"utxo":[{"address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa","transaction_hash":"00","index":0,"value":1}]}}`))
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = c.GetUnspentBatch(context.Background(), []string{testAddress})
	assert.Error(t, err)
}

func TestBlockchair_UnknownAddressIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.TestNet3Params)
	require.NoError(t, err)

	utxos, err := c.GetAllUnspent(context.Background(), "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx")
	require.NoError(t, err)
	assert.Empty(t, utxos)
}

func TestBlockchair_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = c.GetAllUnspent(context.Background(), testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestBlockchair_GetRawTransaction(t *testing.T) {
	hash := fmt.Sprintf("%064x", 7)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/bitcoin/testnet/raw/transaction/"), r.URL.Path)
		fmt.Fprintf(w, `{"data":{%q:{"raw_transaction":"0102ff"}}}`, hash)
	}))
	defer srv.Close()

	c, err := NewBlockchairClient(srv.URL, &chaincfg.TestNet3Params)
	require.NoError(t, err)

	raw, err := c.GetRawTransaction(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0xff}, raw)

	_, err = c.GetRawTransaction(context.Background(), fmt.Sprintf("%064x", 8))
	assert.Error(t, err)
}

func TestBlockchair_UnsupportedNetwork(t *testing.T) {
	_, err := NewBlockchairClient("", &chaincfg.RegressionNetParams)
	assert.Error(t, err)
}

func TestMempool_Tiers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/fees/recommended", r.URL.Path)
		w.Write([]byte(`{"fastestFee":30,"halfHourFee":20,"hourFee":12,"economyFee":5,"minimumFee":1}`))
	}))
	defer srv.Close()

	c := NewMempoolClient(srv.URL + "/")
	tiers, err := c.Tiers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 5, 12, 20, 30}, tiers)

	rate, err := c.Tier(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rate)

	_, err = c.Tier(context.Background(), 5)
	assert.Error(t, err)
}

func TestCoinGecko_GetBTCRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":64123.456}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL)
	rate, err := c.GetBTCRate(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "64123.46", rate)

	_, err = c.GetBTCRate(context.Background(), "eur")
	assert.Error(t, err)
}
