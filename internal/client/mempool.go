package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const mempoolAPI = "https://mempool.space/api"

// MempoolClient client for the mempool.space fee API
type MempoolClient struct {
	baseURL string
	client  *http.Client
}

// NewMempoolClient creates a new mempool.space client.
// An empty baseURL selects the public mainnet API.
func NewMempoolClient(baseURL string) *MempoolClient {
	if baseURL == "" {
		baseURL = mempoolAPI
	}
	return &MempoolClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// RecommendedFees response from /v1/fees/recommended, sat/vbyte
type RecommendedFees struct {
	FastestFee  uint64 `json:"fastestFee"`
	HalfHourFee uint64 `json:"halfHourFee"`
	HourFee     uint64 `json:"hourFee"`
	EconomyFee  uint64 `json:"economyFee"`
	MinimumFee  uint64 `json:"minimumFee"`
}

// Recommended fetches the current fee recommendation
func (c *MempoolClient) Recommended(ctx context.Context) (*RecommendedFees, error) {
	var fees RecommendedFees
	if err := getJSON(ctx, c.client, c.baseURL+"/v1/fees/recommended", &fees); err != nil {
		return nil, fmt.Errorf("failed to get fees: %w", err)
	}
	return &fees, nil
}

// FeeTierCount is the number of fee tiers Tiers reports
const FeeTierCount = 5

// Tiers returns fee rates from lowest to highest: minimum, economy, hour, half hour, fastest.
func (c *MempoolClient) Tiers(ctx context.Context) ([]uint64, error) {
	fees, err := c.Recommended(ctx)
	if err != nil {
		return nil, err
	}
	return []uint64{fees.MinimumFee, fees.EconomyFee, fees.HourFee, fees.HalfHourFee, fees.FastestFee}, nil
}

// Tier returns the fee rate of tier index, 0 being the lowest
func (c *MempoolClient) Tier(ctx context.Context, index int) (uint64, error) {
	tiers, err := c.Tiers(ctx)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(tiers) {
		return 0, fmt.Errorf("fee tier %d out of range [0, %d]", index, len(tiers)-1)
	}
	return tiers[index], nil
}
