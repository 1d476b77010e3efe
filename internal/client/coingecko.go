package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client.
// An empty baseURL selects the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// GetBTCRate gets the BTC exchange rate in currency (e.g. "usd", "rub") with 2 decimals
func (c *CoinGeckoClient) GetBTCRate(ctx context.Context, currency string) (string, error) {
	currency = strings.ToLower(currency)
	query := url.Values{}
	query.Set("ids", "bitcoin")
	query.Set("vs_currencies", currency)

	var priceResp map[string]map[string]float64
	if err := getJSON(ctx, c.client, c.baseURL+"/simple/price?"+query.Encode(), &priceResp); err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}

	price, ok := priceResp["bitcoin"][currency]
	if !ok {
		return "", fmt.Errorf("no bitcoin rate for %s", currency)
	}

	return strconv.FormatFloat(price, 'f', 2, 64), nil
}
