package bitcoin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlexZinkM/scan-wallet/internal/common"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

// GetBalance gets the balance of subaccount over both address chains up to the gap limit
func (w *Wallet) GetBalance(ctx context.Context, subaccount uint32) (*model.BitcoinBalanceResponse, error) {
	outputs, _, err := w.unspent(ctx, subaccount)
	if err != nil {
		return nil, err
	}

	resp := &model.BitcoinBalanceResponse{Subaccount: subaccount}
	for _, out := range outputs {
		if out.Confirmed {
			resp.Confirmed += out.Value
		} else {
			resp.Unconfirmed += out.Value
		}
	}
	total := resp.Confirmed + resp.Unconfirmed
	resp.BTC = common.SatoshiToBTC(total)

	if w.opts.Rates == nil || w.opts.FiatCurrency == "" {
		return resp, nil
	}

	rate, err := w.opts.Rates.GetBTCRate(ctx, w.opts.FiatCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	// Use float only for display, not for critical operations
	btcFloat, _ := strconv.ParseFloat(resp.BTC, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)

	resp.Currency = w.opts.FiatCurrency
	resp.Rate = rate
	resp.Fiat = fmt.Sprintf("%.2f", btcFloat*rateFloat)
	return resp, nil
}

// unspent collects the outputs of subaccount, together with the wallet addresses they were looked up for
func (w *Wallet) unspent(ctx context.Context, subaccount uint32) ([]utxo.Output, map[string]model.DerivedAddress, error) {
	keyring, err := w.keyring()
	if err != nil {
		return nil, nil, err
	}

	derived, err := keyring.Addresses(subaccount)
	if err != nil {
		return nil, nil, err
	}

	addresses := make([]string, len(derived))
	byAddress := make(map[string]model.DerivedAddress, len(derived))
	for i, d := range derived {
		addresses[i] = d.Address
		byAddress[d.Address] = d
	}

	outputs, err := w.collector.Collect(ctx, addresses)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get unspent outputs: %w", err)
	}
	return outputs, byAddress, nil
}
