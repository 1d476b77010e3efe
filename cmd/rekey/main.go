// Re-encrypt a wallet file under a new password. The seed and public header are kept, salt and nonce are fresh.
// Usage: go run ./cmd/rekey <src.cwt> <dst.cwt>
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/AlexZinkM/scan-wallet/internal/config"
	"github.com/AlexZinkM/scan-wallet/internal/crypto"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: rekey <src.cwt> <dst.cwt>")
		os.Exit(2)
	}
	src, dst := os.Args[1], os.Args[2]

	oldPassword, err := config.ReadPassword("Current password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(oldPassword)

	newPassword, err := config.ReadPassword("New password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(newPassword)

	confirm, err := config.ReadPassword("Repeat new password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(confirm)

	if !bytes.Equal(newPassword, confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	if err := crypto.RekeyWallet(src, dst, oldPassword, newPassword); err != nil {
		fmt.Fprintln(os.Stderr, "rekey failed:", err)
		os.Exit(1)
	}
	fmt.Println("wallet written to", dst)
}
