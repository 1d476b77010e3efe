package crypto

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/scan-wallet/internal/model"
)

// RekeyWallet decrypts src with oldPassword and writes the same wallet to dst encrypted
// with newPassword under a fresh salt and nonce. The public header is carried over unchanged.
func RekeyWallet(src, dst string, oldPassword, newPassword []byte) error {
	if src == dst {
		return errors.New("destination must differ from source")
	}
	if len(newPassword) == 0 {
		return errors.New("new password cannot be empty")
	}

	header, walletData, err := DecryptWallet(src, oldPassword)
	if err != nil {
		return fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.Seed)

	return EncryptWallet(dst, publicHeader(header), walletData, newPassword)
}

// publicHeader drops the encryption fields of a header
func publicHeader(h *model.CWTFile) model.CWTFile {
	out := *h
	out.Salt, out.Nonce, out.CipherText = "", "", ""
	return out
}

