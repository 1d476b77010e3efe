package txbuild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/metrics"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
)

// FeeEstimator supplies network fee rates in sat/vbyte, tier 0 being the lowest
type FeeEstimator interface {
	Tier(ctx context.Context, index int) (uint64, error)
}

// BalanceProvider supplies the wallet's own receive address of a subaccount
type BalanceProvider interface {
	ReceiveAddress(ctx context.Context, subaccount uint32) (string, error)
}

// Backend assembles transactions. Errors that are not a *model.BuildError
// are reported to the caller as BackendFailure with their message unchanged.
type Backend interface {
	AssembleSweep(ctx context.Context, req model.SweepRequest) (*model.BuiltTransaction, error)
	AssembleFromURI(ctx context.Context, uri *payload.PaymentURI, subaccount uint32) (*model.BuiltTransaction, error)
}

var errNoTransaction = errors.New("backend returned no transaction")

// Builder validates sweep and payment requests and hands them to a Backend.
// It keeps no state between calls.
type Builder struct {
	params  *chaincfg.Params
	backend Backend
	log     logrus.FieldLogger
}

// NewBuilder creates a Builder for params' network
func NewBuilder(params *chaincfg.Params, backend Backend, log logrus.FieldLogger) *Builder {
	return &Builder{params: params, backend: backend, log: log}
}

// PrepareSweep creates a sweep request paying everything to the subaccount's receive address
// at fee tier index.
func PrepareSweep(ctx context.Context, fees FeeEstimator, balances BalanceProvider, privateKey string, subaccount uint32, tier int) (model.SweepRequest, error) {
	feeRate, err := fees.Tier(ctx, tier)
	if err != nil {
		return model.SweepRequest{}, fmt.Errorf("failed to get fee rate: %w", err)
	}

	address, err := balances.ReceiveAddress(ctx, subaccount)
	if err != nil {
		return model.SweepRequest{}, fmt.Errorf("failed to get receive address: %w", err)
	}

	return model.SweepRequest{
		PrivateKey: privateKey,
		FeeRate:    feeRate,
		Addressees: []model.BalanceEntry{{Address: address}},
		Subaccount: subaccount,
	}, nil
}

// BuildSweep builds a transaction moving all funds of req.PrivateKey into req.Addressees
func (b *Builder) BuildSweep(ctx context.Context, req model.SweepRequest) model.TransactionResult {
	started := time.Now()
	log := b.log.WithFields(logrus.Fields{
		"attempt":    uuid.NewString(),
		"path":       metrics.PathSweep,
		"subaccount": req.Subaccount,
		"fee_rate":   req.FeeRate,
	})

	result := b.buildSweep(ctx, req)
	b.observe(log, metrics.PathSweep, result, started)
	return result
}

func (b *Builder) buildSweep(ctx context.Context, req model.SweepRequest) model.TransactionResult {
	if _, err := payload.DecodePrivateKey(req.PrivateKey, b.params); err != nil {
		return model.Failed(model.NewBuildError(model.KindInvalidPrivateKey, "private key is not valid for %s", b.params.Name))
	}
	if len(req.Addressees) == 0 {
		return model.Failed(model.NewBuildError(model.KindNoFunds, "no destination for swept funds"))
	}

	tx, err := b.backend.AssembleSweep(ctx, req)
	if err != nil {
		return model.Failed(err)
	}
	if tx == nil {
		return model.Failed(errNoTransaction)
	}
	return model.Built(tx)
}

// BuildFromURI builds a payment from a bitcoin: URI funded by subaccount
func (b *Builder) BuildFromURI(ctx context.Context, uri string, subaccount uint32) model.TransactionResult {
	started := time.Now()
	log := b.log.WithFields(logrus.Fields{
		"attempt":    uuid.NewString(),
		"path":       metrics.PathURI,
		"subaccount": subaccount,
	})

	result := b.buildFromURI(ctx, uri, subaccount)
	b.observe(log, metrics.PathURI, result, started)
	return result
}

func (b *Builder) buildFromURI(ctx context.Context, uri string, subaccount uint32) model.TransactionResult {
	parsed, err := payload.ParseURI(uri, b.params)
	if err != nil {
		return model.Failed(err)
	}

	tx, err := b.backend.AssembleFromURI(ctx, parsed, subaccount)
	if err != nil {
		return model.Failed(err)
	}
	if tx == nil {
		return model.Failed(errNoTransaction)
	}
	return model.Built(tx)
}

func (b *Builder) observe(log logrus.FieldLogger, path string, result model.TransactionResult, started time.Time) {
	if result.OK() {
		metrics.ObserveBuild(path, metrics.ResultBuilt, started)
		log.WithFields(logrus.Fields{
			"fee":   result.Built.Fee,
			"vsize": result.Built.VSize,
		}).Info("transaction built")
		return
	}

	metrics.ObserveBuild(path, string(result.Failed.Kind), started)
	log.WithFields(logrus.Fields{
		"kind":  result.Failed.Kind,
		"error": result.Failed.Message,
	}).Warn("transaction build failed")
}
