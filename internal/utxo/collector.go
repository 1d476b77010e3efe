package utxo

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"golang.org/x/sync/errgroup"

	"github.com/AlexZinkM/scan-wallet/internal/client"
)

// DefaultConcurrency bounds parallel address lookups
const DefaultConcurrency = 4

// Fetcher lists unspent outputs of a single address
type Fetcher interface {
	GetAllUnspent(ctx context.Context, address string) ([]client.Utxo, error)
}

// BatchFetcher lists unspent outputs of many addresses per request.
// Collect prefers it when the fetcher provides it.
type BatchFetcher interface {
	GetUnspentBatch(ctx context.Context, addresses []string) (map[string][]client.Utxo, error)
}

// Output is an unspent output owned by one of the collected addresses
type Output struct {
	Address   string
	OutPoint  wire.OutPoint
	Value     uint64
	Confirmed bool
}

// Collector fetches the UTXOs of many addresses concurrently
type Collector struct {
	fetcher Fetcher
	limit   int
}

// NewCollector creates a collector running at most limit lookups at once
func NewCollector(fetcher Fetcher, limit int) *Collector {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Collector{fetcher: fetcher, limit: limit}
}

// Collect returns the outputs of all addresses, grouped in address order.
// The first lookup error cancels the remaining lookups.
func (c *Collector) Collect(ctx context.Context, addresses []string) ([]Output, error) {
	if batch, ok := c.fetcher.(BatchFetcher); ok {
		return collectBatch(ctx, batch, addresses)
	}

	results := make([][]Output, len(addresses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for i, address := range addresses {
		g.Go(func() error {
			utxos, err := c.fetcher.GetAllUnspent(ctx, address)
			if err != nil {
				return err
			}

			outputs, err := toOutputs(address, utxos)
			if err != nil {
				return err
			}
			results[i] = outputs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect utxos: %w", err)
	}

	var all []Output
	for _, outputs := range results {
		all = append(all, outputs...)
	}
	return all, nil
}

func collectBatch(ctx context.Context, batch BatchFetcher, addresses []string) ([]Output, error) {
	byAddress, err := batch.GetUnspentBatch(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to collect utxos: %w", err)
	}

	var all []Output
	for _, address := range addresses {
		outputs, err := toOutputs(address, byAddress[address])
		if err != nil {
			return nil, fmt.Errorf("failed to collect utxos: %w", err)
		}
		all = append(all, outputs...)
	}
	return all, nil
}

func toOutputs(address string, utxos []client.Utxo) ([]Output, error) {
	outputs := make([]Output, 0, len(utxos))
	for _, u := range utxos {
		hash, err := chainhash.NewHashFromStr(u.TransactionHash)
		if err != nil {
			return nil, fmt.Errorf("invalid utxo hash %q for %s: %w", u.TransactionHash, address, err)
		}
		outputs = append(outputs, Output{
			Address:   address,
			OutPoint:  wire.OutPoint{Hash: *hash, Index: u.Index},
			Value:     u.Value,
			Confirmed: u.Confirmed(),
		})
	}
	return outputs, nil
}

// Total sums output values
func Total(outputs []Output) uint64 {
	var total uint64
	for _, o := range outputs {
		total += o.Value
	}
	return total
}
