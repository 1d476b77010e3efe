package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/assembler"
	"github.com/AlexZinkM/scan-wallet/internal/client"
	"github.com/AlexZinkM/scan-wallet/internal/crypto"
	"github.com/AlexZinkM/scan-wallet/internal/hdwallet"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
	"github.com/AlexZinkM/scan-wallet/internal/txbuild"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

// ChainSource is the block explorer backing balances and transaction assembly
type ChainSource interface {
	GetAllUnspent(ctx context.Context, address string) ([]client.Utxo, error)
	GetRawTransaction(ctx context.Context, txHash string) ([]byte, error)
}

// FeeSource supplies fee tiers in sat/vbyte, lowest first
type FeeSource interface {
	Tiers(ctx context.Context) ([]uint64, error)
	Tier(ctx context.Context, index int) (uint64, error)
}

// RateSource supplies the BTC exchange rate
type RateSource interface {
	GetBTCRate(ctx context.Context, currency string) (string, error)
}

// Options configures a Wallet
type Options struct {
	FilePath     string
	Params       *chaincfg.Params
	Subaccounts  uint32
	GapLimit     uint32
	FeeTier      int
	FiatCurrency string
	WatchOnly    bool
	ScanCooldown time.Duration
	Concurrency  int

	Chain ChainSource
	Fees  FeeSource
	Rates RateSource // optional, balances are reported without fiat when nil

	OnRetry func(*model.BuildError)
}

// ErrNoWallet is returned when the wallet file has not been generated yet
var ErrNoWallet = errors.New("wallet file not found: generate a wallet first")

// Wallet is a watch-only view of a .cwt wallet file together with the
// scan pipeline building transactions for it. The file is read on first use.
type Wallet struct {
	opts      Options
	collector *utxo.Collector
	log       logrus.FieldLogger

	mu      sync.Mutex
	session *session
}

// session holds everything derived from the wallet file header
type session struct {
	keyring *hdwallet.Keyring
	scanner *Scanner
}

// NewWallet creates a Wallet
func NewWallet(opts Options, log logrus.FieldLogger) (*Wallet, error) {
	if opts.FilePath == "" {
		return nil, errors.New("wallet file path not set")
	}
	if opts.Params == nil {
		return nil, errors.New("network params not set")
	}
	if opts.Chain == nil || opts.Fees == nil {
		return nil, errors.New("chain and fee sources are required")
	}

	return &Wallet{
		opts:      opts,
		collector: utxo.NewCollector(opts.Chain, opts.Concurrency),
		log:       log.WithField("network", opts.Params.Name),
	}, nil
}

// Scanner returns the scan pipeline of the loaded wallet
func (w *Wallet) Scanner() (*Scanner, error) {
	s, err := w.load()
	if err != nil {
		return nil, err
	}
	return s.scanner, nil
}

func (w *Wallet) keyring() (*hdwallet.Keyring, error) {
	s, err := w.load()
	if err != nil {
		return nil, err
	}
	return s.keyring, nil
}

func (w *Wallet) load() (*session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session != nil {
		return w.session, nil
	}

	header, err := crypto.ReadWalletFile(w.opts.FilePath)
	if err != nil {
		if errors.Is(err, crypto.ErrWalletNotFound) {
			return nil, ErrNoWallet
		}
		return nil, fmt.Errorf("failed to read wallet file: %w", err)
	}

	keyring, err := hdwallet.NewKeyring(header, w.opts.Params, w.opts.GapLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet keys: %w", err)
	}

	backend := assembler.New(assembler.Config{
		Params:  w.opts.Params,
		UTXOs:   w.collector,
		PrevTxs: w.opts.Chain,
		Keyring: keyring,
		Fees:    w.opts.Fees,
		FeeTier: w.opts.FeeTier,
	}, w.log)

	scanner := NewScanner(ScannerConfig{
		Params:    w.opts.Params,
		Builder:   txbuild.NewBuilder(w.opts.Params, backend, w.log),
		Fees:      w.opts.Fees,
		Balances:  keyring,
		FeeTier:   w.opts.FeeTier,
		WatchOnly: w.opts.WatchOnly,
		Cooldown:  w.opts.ScanCooldown,
		OnRetry:   w.opts.OnRetry,
	}, w.log)

	w.session = &session{keyring: keyring, scanner: scanner}
	w.log.WithField("fingerprint", header.Fingerprint).Info("wallet loaded")
	return w.session, nil
}

func (w *Wallet) reset() {
	w.mu.Lock()
	w.session = nil
	w.mu.Unlock()
}

// Classify tags scanned text without building anything
func (w *Wallet) Classify(text string) model.ScannedPayload {
	return payload.Classify(text, w.opts.Params)
}
