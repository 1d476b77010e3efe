package bitcoin

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
)

// Receive returns the receive address of subaccount with its payment URI and QR code
func (w *Wallet) Receive(ctx context.Context, subaccount uint32) (*model.ReceiveResponse, error) {
	keyring, err := w.keyring()
	if err != nil {
		return nil, err
	}

	address, err := keyring.ReceiveAddress(ctx, subaccount)
	if err != nil {
		return nil, err
	}

	uri := payload.FormatURI(address, nil, "", "")
	qr, err := generateQRCode(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.ReceiveResponse{
		Subaccount: subaccount,
		Address:    address,
		URI:        uri,
		QR:         qr,
	}, nil
}
