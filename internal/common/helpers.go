package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	BTCDecimals = 8 // BTC has 8 decimals (satoshi)
)

// NetworkParams returns chain parameters for a network name
func NetworkParams(name string) (*chaincfg.Params, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("unknown bitcoin network %q", name)
	}
}

// SatoshiToBTC converts satoshi to BTC string without float precision loss
func SatoshiToBTC(sat uint64) string {
	return formatWithDecimals(sat, BTCDecimals)
}

// BTCToSatoshi converts BTC string to satoshi without float precision loss.
// More than 8 fractional digits or an amount above the 21M supply is an error.
func BTCToSatoshi(btc string) (uint64, error) {
	sat, err := parseWithDecimals(btc, BTCDecimals)
	if err != nil {
		return 0, err
	}
	if sat > btcutil.MaxSatoshi {
		return 0, fmt.Errorf("amount exceeds maximum supply")
	}
	return sat, nil
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 8) = "0.24981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.24981836", 8) = 24981836
func parseWithDecimals(s string, decimals int) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if hasPoint && strings.Contains(frac, ".") {
		return 0, fmt.Errorf("invalid decimal format")
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid decimal format")
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("too many decimal places (max %d)", decimals)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid decimal format")
	}

	// Pad fractional part to exact decimals
	frac += strings.Repeat("0", decimals-len(frac))

	// Combine and parse
	return strconv.ParseUint(whole+frac, 10, 64)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
