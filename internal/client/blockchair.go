package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

const (
	blockchairAPI = "https://api.blockchair.com"
	utxoPageLimit = 100

	// AddressBatchLimit is the most addresses a single dashboards/addresses call accepts
	AddressBatchLimit = 100
)

// BlockchairClient client for the Blockchair UTXO API
type BlockchairClient struct {
	baseURL string
	chain   string
	client  *http.Client
}

// NewBlockchairClient creates a new Blockchair client for params' network.
// An empty baseURL selects the public API.
func NewBlockchairClient(baseURL string, params *chaincfg.Params) (*BlockchairClient, error) {
	chain, err := blockchairChain(params)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = blockchairAPI
	}

	return &BlockchairClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		chain:   chain,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

func blockchairChain(params *chaincfg.Params) (string, error) {
	switch params.Net {
	case chaincfg.MainNetParams.Net:
		return "bitcoin", nil
	case chaincfg.TestNet3Params.Net:
		return "bitcoin/testnet", nil
	default:
		return "", fmt.Errorf("blockchair does not index %s", params.Name)
	}
}

// Utxo is an unspent output as reported by Blockchair
type Utxo struct {
	BlockID         int64  `json:"block_id"` // -1 while unconfirmed
	TransactionHash string `json:"transaction_hash"`
	Index           uint32 `json:"index"`
	Value           uint64 `json:"value"`
}

// Confirmed reports whether the output is mined
func (u Utxo) Confirmed() bool {
	return u.BlockID > 0
}

type addressDashboard struct {
	Data map[string]struct {
		Address struct {
			Type               string `json:"type"`
			Balance            int64  `json:"balance"`
			UnspentOutputCount int    `json:"unspent_output_count"`
		} `json:"address"`
		Utxo []Utxo `json:"utxo"`
	} `json:"data"`
}

// GetAllUnspent fetches all UTXOs for an address, following pagination.
func (c *BlockchairClient) GetAllUnspent(ctx context.Context, address string) ([]Utxo, error) {
	var all []Utxo
	offset := 0

	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprintf("0,%d", utxoPageLimit))
		query.Set("offset", fmt.Sprintf("0,%d", offset))
		endpoint := fmt.Sprintf("%s/%s/dashboards/address/%s?%s", c.baseURL, c.chain, url.PathEscape(address), query.Encode())

		var page addressDashboard
		if err := getJSON(ctx, c.client, endpoint, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch address %s: %w", address, err)
		}

		entry, ok := page.Data[address]
		if !ok {
			// bech32 addresses are keyed in lower case
			entry, ok = page.Data[strings.ToLower(address)]
		}
		if !ok {
			break
		}

		all = append(all, entry.Utxo...)
		if len(entry.Utxo) < utxoPageLimit {
			break
		}
		offset += utxoPageLimit
	}

	return all, nil
}

type addressesDashboard struct {
	Data struct {
		Utxo []struct {
			Utxo
			Address string `json:"address"`
		} `json:"utxo"`
	} `json:"data"`
}

// GetUnspentBatch fetches the UTXOs of many addresses with one dashboards/addresses
// call per AddressBatchLimit addresses, following pagination. Addresses without
// outputs are absent from the result.
func (c *BlockchairClient) GetUnspentBatch(ctx context.Context, addresses []string) (map[string][]Utxo, error) {
	out := make(map[string][]Utxo)

	for start := 0; start < len(addresses); start += AddressBatchLimit {
		chunk := addresses[start:min(start+AddressBatchLimit, len(addresses))]

		// bech32 addresses come back in lower case
		requested := make(map[string]string, len(chunk))
		for _, a := range chunk {
			requested[strings.ToLower(a)] = a
		}

		escaped := make([]string, len(chunk))
		for i, a := range chunk {
			escaped[i] = url.PathEscape(a)
		}

		for offset := 0; ; offset += utxoPageLimit {
			query := url.Values{}
			query.Set("limit", fmt.Sprintf("0,%d", utxoPageLimit))
			query.Set("offset", fmt.Sprintf("0,%d", offset))
			endpoint := fmt.Sprintf("%s/%s/dashboards/addresses/%s?%s", c.baseURL, c.chain, strings.Join(escaped, ","), query.Encode())

			var page addressesDashboard
			if err := getJSON(ctx, c.client, endpoint, &page); err != nil {
				return nil, fmt.Errorf("failed to fetch %d addresses: %w", len(chunk), err)
			}

			for _, u := range page.Data.Utxo {
				address, ok := requested[strings.ToLower(u.Address)]
				if !ok {
					return nil, fmt.Errorf("utxo %s:%d belongs to unrequested address %s", u.TransactionHash, u.Index, u.Address)
				}
				out[address] = append(out[address], u.Utxo)
			}
			if len(page.Data.Utxo) < utxoPageLimit {
				break
			}
		}
	}

	return out, nil
}

// GetRawTransaction returns the serialized transaction with the given hash
func (c *BlockchairClient) GetRawTransaction(ctx context.Context, txHash string) ([]byte, error) {
	var res struct {
		Data map[string]struct {
			RawTransaction string `json:"raw_transaction"`
		} `json:"data"`
	}

	endpoint := fmt.Sprintf("%s/%s/raw/transaction/%s", c.baseURL, c.chain, url.PathEscape(txHash))
	if err := getJSON(ctx, c.client, endpoint, &res); err != nil {
		return nil, fmt.Errorf("failed to get raw tx %s: %w", txHash, err)
	}

	data, ok := res.Data[txHash]
	if !ok {
		return nil, fmt.Errorf("failed to get tx from response, hash=%s", txHash)
	}

	raw, err := hex.DecodeString(data.RawTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw tx %s: %w", txHash, err)
	}
	return raw, nil
}
