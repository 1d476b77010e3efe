package bitcoin

import (
	"context"
	"sort"

	"github.com/AlexZinkM/scan-wallet/internal/common"
	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// GetUTXOs gets the unspent outputs of a subaccount with filtering
func (w *Wallet) GetUTXOs(ctx context.Context, req *model.UTXORequest) (*model.UTXOResponse, error) {
	outputs, byAddress, err := w.unspent(ctx, req.Subaccount)
	if err != nil {
		return nil, err
	}

	result := make([]model.UTXO, 0, len(outputs))
	var total uint64
	var confirmed int
	for _, out := range outputs {
		txID := out.OutPoint.Hash.String()
		change := byAddress[out.Address].Change

		// Filter by txId
		if req.TxID != nil && *req.TxID != txID {
			continue
		}

		// Filter by status and chain
		if req.Confirmed != nil && *req.Confirmed != out.Confirmed {
			continue
		}
		if req.Change != nil && *req.Change != change {
			continue
		}

		// Filter by amount
		if req.MinSatoshi != nil && out.Value < *req.MinSatoshi {
			continue
		}
		if req.MaxSatoshi != nil && out.Value > *req.MaxSatoshi {
			continue
		}

		result = append(result, model.UTXO{
			TxID:      txID,
			Vout:      out.OutPoint.Index,
			Address:   out.Address,
			Satoshi:   out.Value,
			BTC:       common.SatoshiToBTC(out.Value),
			Confirmed: out.Confirmed,
			Change:    change,
		})
		total += out.Value
		if out.Confirmed {
			confirmed++
		}
	}

	// Sort by value DESC (largest first)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Satoshi > result[j].Satoshi
	})

	return &model.UTXOResponse{
		Subaccount:     req.Subaccount,
		TotalSatoshi:   total,
		TotalBTC:       common.SatoshiToBTC(total),
		Outputs:        result,
		ConfirmedCount: confirmed,
	}, nil
}
