package bitcoin

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/scan-wallet/internal/crypto"
	"github.com/AlexZinkM/scan-wallet/internal/hdwallet"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
)

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var target *FileExistsError
	return errors.As(err, &target)
}

// Generate creates a new HD wallet and saves it to the .cwt file.
// Returns the first receive address of subaccount 0 on success.
// password must be []byte for security (caller should zero it after use)
func (w *Wallet) Generate(password []byte) (address string, err error) {
	// Check file extension (.cwt)
	if filepath.Ext(w.opts.FilePath) != ".cwt" {
		return "", fmt.Errorf("file must have .cwt extension")
	}

	// Check file existence
	if fileInfo, err := os.Stat(w.opts.FilePath); err == nil && fileInfo.Size() > 0 {
		return "", &FileExistsError{Message: "file is not empty"}
	}

	seed, err := hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate seed: %w", err)
	}
	defer clear(seed)

	fingerprint, accounts, err := hdwallet.DeriveAccounts(seed, w.opts.Params, w.opts.Subaccounts)
	if err != nil {
		return "", err
	}

	header := model.CWTFile{
		Network:     w.opts.Params.Name,
		Fingerprint: hdwallet.FormatFingerprint(fingerprint),
		Accounts:    accounts,
	}

	keyring, err := hdwallet.NewKeyring(&header, w.opts.Params, w.opts.GapLimit)
	if err != nil {
		return "", err
	}
	first, err := keyring.Address(0, false, 0)
	if err != nil {
		return "", err
	}
	header.Address = first.Address

	header.QR, err = generateQRCode(payload.FormatURI(first.Address, nil, "", ""))
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		Seed:      seed,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(w.opts.FilePath, header, walletData, password); err != nil {
		if errors.Is(err, crypto.ErrFileNotEmpty) {
			return "", &FileExistsError{Message: err.Error()}
		}
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	w.reset()
	w.log.WithField("address", first.Address).Info("wallet generated")

	return first.Address, nil
}

// generateQRCode generates QR code of content in base64
func generateQRCode(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
