package assembler

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
)

// uncompressed public keys are 32 bytes longer than compressed ones in a P2PKH sigScript
const uncompressedPubKeyExtra = 32

// inputCounts tallies inputs per script type
type inputCounts struct {
	p2pkh  int
	p2wpkh int
	nested int
}

// estimateVSize estimates the virtual size of a transaction spending counts into outs,
// plus an optional change output of changeScriptSize bytes.
func estimateVSize(counts inputCounts, outs []*wire.TxOut, changeScriptSize int, compressed bool) int {
	vsize := txsizes.EstimateVirtualSize(counts.p2pkh, 0, counts.p2wpkh, counts.nested, outs, changeScriptSize)
	if !compressed {
		vsize += counts.p2pkh * uncompressedPubKeyExtra
	}
	return vsize
}
