package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"

	"github.com/AlexZinkM/scan-wallet/internal/client"
	"github.com/AlexZinkM/scan-wallet/internal/common"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetPasswordBytes()
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	Network       string `envconfig:"BITCOIN_NETWORK" default:"mainnet"`
	FilePath      string `envconfig:"BITCOIN_FILE_PATH" required:"true"`
	Subaccounts   uint32 `envconfig:"BITCOIN_SUBACCOUNTS" default:"2"`
	GapLimit      uint32 `envconfig:"BITCOIN_GAP_LIMIT" default:"20"`
	BlockchairURL string `envconfig:"BLOCKCHAIR_URL" default:"https://api.blockchair.com"`
	MempoolURL    string `envconfig:"MEMPOOL_URL" default:"https://mempool.space/api"`
	CoinGeckoURL  string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
	FiatCurrency  string `envconfig:"FIAT_CURRENCY" default:"usd"`
	FeeTier       int    `envconfig:"FEE_TIER" default:"0"`
	WatchOnly     bool   `envconfig:"WATCH_ONLY" default:"false"`
	ScanCooldown  int    `envconfig:"SCAN_COOLDOWN_SECONDS" default:"0"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"text"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.FilePath == "" {
		return errors.New("BITCOIN_FILE_PATH not set")
	}
	if cfg.Subaccounts == 0 {
		return errors.New("BITCOIN_SUBACCOUNTS must be positive")
	}
	if cfg.GapLimit == 0 {
		return errors.New("BITCOIN_GAP_LIMIT must be positive")
	}
	if _, err := common.NetworkParams(cfg.Network); err != nil {
		return fmt.Errorf("BITCOIN_NETWORK: %w", err)
	}
	if cfg.FeeTier < 0 || cfg.FeeTier >= client.FeeTierCount {
		return fmt.Errorf("FEE_TIER must be between 0 and %d", client.FeeTierCount-1)
	}
	if cfg.ScanCooldown < 0 {
		return errors.New("SCAN_COOLDOWN_SECONDS cannot be negative")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetFilePath returns path to .cwt file from configuration
func GetFilePath() string {
	return Get().FilePath
}

// GetNetwork returns the bitcoin network name from configuration
func GetNetwork() string {
	return Get().Network
}

// GetScanCooldown returns the minimum gap between two transaction builds
func GetScanCooldown() time.Duration {
	return time.Duration(Get().ScanCooldown) * time.Second
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter wallet password: ")
	if err != nil {
		return err
	}

	passwordBytes = raw
	return nil
}

// ReadPassword reads a non-empty password from the terminal without echo
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
