package bitcoin

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// GetFees returns the current fee tiers
func (w *Wallet) GetFees(ctx context.Context) (*model.FeesResponse, error) {
	tiers, err := w.opts.Fees.Tiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fees: %w", err)
	}
	return &model.FeesResponse{Tiers: tiers}, nil
}
