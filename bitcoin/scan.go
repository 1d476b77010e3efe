package bitcoin

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/metrics"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
	"github.com/AlexZinkM/scan-wallet/internal/txbuild"
)

// TxBuilder builds transactions from validated requests
type TxBuilder interface {
	BuildSweep(ctx context.Context, req model.SweepRequest) model.TransactionResult
	BuildFromURI(ctx context.Context, uri string, subaccount uint32) model.TransactionResult
}

// ScannerConfig holds the collaborators and settings of a Scanner
type ScannerConfig struct {
	Params    *chaincfg.Params
	Builder   TxBuilder
	Fees      txbuild.FeeEstimator
	Balances  txbuild.BalanceProvider
	FeeTier   int
	WatchOnly bool
	Cooldown  time.Duration

	// OnRetry is called after every failed attempt, when the scanner is ready for the next scan
	OnRetry func(*model.BuildError)
}

// Scanner turns scanned text into a transaction: the text is classified,
// then swept when it is a private key or paid when it is a payment URI.
// One attempt runs at a time; a second scan arriving meanwhile is rejected.
type Scanner struct {
	cfg ScannerConfig
	log logrus.FieldLogger
	now func() time.Time

	busy atomic.Bool

	mu        sync.Mutex
	lastBuilt time.Time
}

// NewScanner creates a Scanner
func NewScanner(cfg ScannerConfig, log logrus.FieldLogger) *Scanner {
	return &Scanner{cfg: cfg, log: log, now: time.Now}
}

// OnInserted runs the full pipeline for scanned or typed text
func (s *Scanner) OnInserted(ctx context.Context, text string, subaccount uint32) model.TransactionResult {
	return s.attempt(func() model.TransactionResult {
		if strings.TrimSpace(text) == "" {
			return model.Failed(model.NewBuildError(model.KindInvalidPayload, "nothing was scanned"))
		}

		p := payload.Classify(text, s.cfg.Params)
		if p.IsBareAddress() {
			metrics.ObserveScan(string(model.PayloadBareAddress))
		} else {
			metrics.ObserveScan(string(p.Kind))
		}

		switch {
		case p.Kind == model.PayloadPrivateKey:
			return s.sweep(ctx, p.Text, subaccount, s.cfg.FeeTier)
		case s.cfg.WatchOnly:
			return model.Failed(model.NewBuildError(model.KindInvalidPrivateKey, "watch-only session accepts private keys only"))
		default:
			return s.cfg.Builder.BuildFromURI(ctx, p.Text, subaccount)
		}
	})
}

// Sweep moves all funds of privateKey into the subaccount's receive address at fee tier
func (s *Scanner) Sweep(ctx context.Context, privateKey string, subaccount uint32, tier int) model.TransactionResult {
	return s.attempt(func() model.TransactionResult {
		return s.sweep(ctx, privateKey, subaccount, tier)
	})
}

// Pay builds a payment from a bitcoin: URI funded by subaccount
func (s *Scanner) Pay(ctx context.Context, uri string, subaccount uint32) model.TransactionResult {
	return s.attempt(func() model.TransactionResult {
		return s.cfg.Builder.BuildFromURI(ctx, uri, subaccount)
	})
}

// FeeTier returns the fee tier used for scanned private keys
func (s *Scanner) FeeTier() int {
	return s.cfg.FeeTier
}

func (s *Scanner) sweep(ctx context.Context, privateKey string, subaccount uint32, tier int) model.TransactionResult {
	req, err := txbuild.PrepareSweep(ctx, s.cfg.Fees, s.cfg.Balances, privateKey, subaccount, tier)
	if err != nil {
		return model.Failed(err)
	}
	return s.cfg.Builder.BuildSweep(ctx, req)
}

// attempt runs build under the busy flag and the cooldown.
// The retry hook fires on every failure except a rejected concurrent scan,
// whose running attempt re-arms the scanner itself.
func (s *Scanner) attempt(build func() model.TransactionResult) model.TransactionResult {
	if !s.busy.CompareAndSwap(false, true) {
		return model.Failed(model.BackendFailure("another scan is being processed"))
	}
	defer s.busy.Store(false)

	if wait := s.cooldownRemaining(); wait > 0 {
		return s.fail(model.Failed(model.BackendFailure("cooldown active, please wait " + wait.Round(time.Second).String())))
	}

	result := build()
	if !result.OK() {
		return s.fail(result)
	}

	s.mu.Lock()
	s.lastBuilt = s.now()
	s.mu.Unlock()
	return result
}

func (s *Scanner) cooldownRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Cooldown <= 0 || s.lastBuilt.IsZero() {
		return 0
	}
	return s.cfg.Cooldown - s.now().Sub(s.lastBuilt)
}

func (s *Scanner) fail(result model.TransactionResult) model.TransactionResult {
	s.log.WithFields(logrus.Fields{
		"kind":  result.Failed.Kind,
		"error": result.Failed.ShortMessage(),
	}).Debug("scan failed, ready for retry")

	if s.cfg.OnRetry != nil {
		s.cfg.OnRetry(result.Failed)
	}
	return result
}
