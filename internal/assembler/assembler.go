package assembler

import (
	"bytes"
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/mempool"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

const txVersion = 2

// UnspentSource lists the unspent outputs of a set of addresses
type UnspentSource interface {
	Collect(ctx context.Context, addresses []string) ([]utxo.Output, error)
}

// PrevTxFetcher returns serialized previous transactions, needed to sign legacy inputs
type PrevTxFetcher interface {
	GetRawTransaction(ctx context.Context, txHash string) ([]byte, error)
}

// FeeEstimator supplies fee rates in sat/vbyte by tier
type FeeEstimator interface {
	Tier(ctx context.Context, index int) (uint64, error)
}

// Keyring derives the wallet's own addresses
type Keyring interface {
	Fingerprint() uint32
	HasSubaccount(subaccount uint32) bool
	Addresses(subaccount uint32) ([]model.DerivedAddress, error)
	ChangeAddress(subaccount uint32) (model.DerivedAddress, error)
}

// Assembler builds PSBTs from chain data: sweeps signed with a scanned key and
// unsigned payments funded by a wallet subaccount.
type Assembler struct {
	params  *chaincfg.Params
	utxos   UnspentSource
	prevTxs PrevTxFetcher
	keyring Keyring
	fees    FeeEstimator
	feeTier int
	log     logrus.FieldLogger
}

// Config holds the collaborators of an Assembler
type Config struct {
	Params  *chaincfg.Params
	UTXOs   UnspentSource
	PrevTxs PrevTxFetcher
	Keyring Keyring
	Fees    FeeEstimator
	FeeTier int
}

// New creates an Assembler
func New(cfg Config, log logrus.FieldLogger) *Assembler {
	return &Assembler{
		params:  cfg.Params,
		utxos:   cfg.UTXOs,
		prevTxs: cfg.PrevTxs,
		keyring: cfg.Keyring,
		fees:    cfg.Fees,
		feeTier: cfg.FeeTier,
		log:     log,
	}
}

func isDust(out *wire.TxOut) bool {
	return mempool.IsDust(out, mempool.DefaultMinRelayTxFee)
}

func serializePacket(packet *psbt.Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := packet.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize psbt: %w", err)
	}
	return buf.Bytes(), nil
}

func outputAddressees(outs []*wire.TxOut, addresses []string) []model.Addressee {
	addressees := make([]model.Addressee, len(addresses))
	for i, address := range addresses {
		value := uint64(outs[i].Value)
		addressees[i] = model.Addressee{Address: address, Satoshi: &value}
	}
	return addressees
}
