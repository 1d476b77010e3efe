package assembler

import (
	"bytes"
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

type scriptKind int

const (
	kindP2PKH scriptKind = iota
	kindP2WPKH
	kindNestedP2WPKH
)

// keySource is one address type a private key can hold funds at
type keySource struct {
	kind         scriptKind
	address      btcutil.Address
	pkScript     []byte
	redeemScript []byte // nested P2WPKH only
}

// keySources lists the addresses controlled by key.
// Uncompressed keys only ever had legacy addresses.
func keySources(key *payload.PrivateKey, params *chaincfg.Params) ([]keySource, error) {
	pkHash := btcutil.Hash160(key.PubKey())

	p2pkh, err := btcutil.NewAddressPubKeyHash(pkHash, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2pkh address: %w", err)
	}
	p2pkhScript, err := txscript.PayToAddrScript(p2pkh)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2pkh script: %w", err)
	}
	sources := []keySource{{kind: kindP2PKH, address: p2pkh, pkScript: p2pkhScript}}

	if !key.Compressed {
		return sources, nil
	}

	p2wpkh, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2wpkh address: %w", err)
	}
	witnessProgram, err := txscript.PayToAddrScript(p2wpkh)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2wpkh script: %w", err)
	}
	nested, err := btcutil.NewAddressScriptHash(witnessProgram, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2sh-p2wpkh address: %w", err)
	}
	nestedScript, err := txscript.PayToAddrScript(nested)
	if err != nil {
		return nil, fmt.Errorf("failed to create p2sh-p2wpkh script: %w", err)
	}

	return append(sources,
		keySource{kind: kindP2WPKH, address: p2wpkh, pkScript: witnessProgram},
		keySource{kind: kindNestedP2WPKH, address: nested, pkScript: nestedScript, redeemScript: witnessProgram},
	), nil
}

// AssembleSweep spends every output held by req.PrivateKey into req.Addressees.
// Addressees with an amount get exactly that amount; the remainder after the fee goes to
// the first addressee without one, or to the first addressee when all have amounts.
// The inputs are signed and finalized with the swept key.
func (a *Assembler) AssembleSweep(ctx context.Context, req model.SweepRequest) (*model.BuiltTransaction, error) {
	key, err := payload.DecodePrivateKey(req.PrivateKey, a.params)
	if err != nil {
		return nil, model.NewBuildError(model.KindInvalidPrivateKey, "private key is not valid for %s", a.params.Name)
	}

	sources, err := keySources(key, a.params)
	if err != nil {
		return nil, err
	}
	byAddress := make(map[string]keySource, len(sources))
	addresses := make([]string, 0, len(sources))
	for _, src := range sources {
		encoded := src.address.EncodeAddress()
		byAddress[encoded] = src
		addresses = append(addresses, encoded)
	}

	inputs, err := a.utxos.Collect(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch utxos: %w", err)
	}
	if len(inputs) == 0 {
		return nil, model.NewBuildError(model.KindNoFunds, "no funds at the addresses of the scanned key")
	}
	total := utxo.Total(inputs)

	outs, remainderIdx, fixed, err := a.sweepOutputs(req.Addressees)
	if err != nil {
		return nil, err
	}

	var counts inputCounts
	for _, in := range inputs {
		switch byAddress[in.Address].kind {
		case kindP2PKH:
			counts.p2pkh++
		case kindP2WPKH:
			counts.p2wpkh++
		case kindNestedP2WPKH:
			counts.nested++
		}
	}
	vsize := estimateVSize(counts, outs, 0, key.Compressed)
	fee := req.FeeRate * uint64(vsize)

	if fixed+fee >= total {
		return nil, model.NewBuildError(model.KindInsufficientFunds,
			"fee %d plus fixed amounts %d exceeds swept funds %d", fee, fixed, total)
	}
	outs[remainderIdx].Value += int64(total - fixed - fee)

	destinations := make([]string, len(req.Addressees))
	for i, out := range outs {
		destinations[i] = req.Addressees[i].Address
		if isDust(out) {
			return nil, model.NewBuildError(model.KindInsufficientFunds,
				"output of %d to %s is below the dust limit", out.Value, destinations[i])
		}
	}

	tx := wire.NewMsgTx(txVersion)
	prevOuts := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range inputs {
		outPoint := in.OutPoint
		tx.AddTxIn(wire.NewTxIn(&outPoint, nil, nil))
		prevOuts.AddPrevOut(outPoint, wire.NewTxOut(int64(in.Value), byAddress[in.Address].pkScript))
	}
	for _, out := range outs {
		tx.AddTxOut(out)
	}

	packet, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create psbt: %w", err)
	}
	if err := a.signSweep(ctx, packet, key, inputs, byAddress, prevOuts); err != nil {
		return nil, err
	}
	if err := psbt.MaybeFinalizeAll(packet); err != nil {
		return nil, fmt.Errorf("failed to finalize sweep: %w", err)
	}

	raw, err := serializePacket(packet)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"inputs": len(inputs),
		"swept":  total,
		"fee":    fee,
	}).Debug("sweep assembled")

	return &model.BuiltTransaction{
		Raw:        raw,
		Addressees: outputAddressees(outs, destinations),
		Subaccount: req.Subaccount,
		Sweep:      true,
		FeeRate:    req.FeeRate,
		Fee:        fee,
		VSize:      vsize,
	}, nil
}

// sweepOutputs converts addressees to outputs and returns the index receiving the remainder
// and the sum of fixed amounts.
func (a *Assembler) sweepOutputs(entries []model.BalanceEntry) ([]*wire.TxOut, int, uint64, error) {
	if len(entries) == 0 {
		return nil, 0, 0, model.NewBuildError(model.KindNoFunds, "no destination for swept funds")
	}

	outs := make([]*wire.TxOut, 0, len(entries))
	remainderIdx := -1
	var fixed uint64
	for i, entry := range entries {
		addr, err := btcutil.DecodeAddress(entry.Address, a.params)
		if err != nil || !addr.IsForNet(a.params) {
			return nil, 0, 0, model.NewBuildError(model.KindInvalidAddress, "invalid destination address %q", entry.Address)
		}
		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to create script for %s: %w", entry.Address, err)
		}

		if entry.Satoshi == 0 && remainderIdx < 0 {
			remainderIdx = i
		}
		fixed += entry.Satoshi
		outs = append(outs, wire.NewTxOut(int64(entry.Satoshi), script))
	}
	if remainderIdx < 0 {
		remainderIdx = 0
	}

	return outs, remainderIdx, fixed, nil
}

func (a *Assembler) signSweep(
	ctx context.Context,
	packet *psbt.Packet,
	key *payload.PrivateKey,
	inputs []utxo.Output,
	byAddress map[string]keySource,
	prevOuts *txscript.MultiPrevOutFetcher,
) error {
	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return fmt.Errorf("failed to create psbt updater: %w", err)
	}

	tx := packet.UnsignedTx
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)
	prevTxs := make(map[chainhash.Hash]*wire.MsgTx)
	pubKey := key.PubKey()

	for i, in := range inputs {
		src := byAddress[in.Address]

		var (
			sig    []byte
			redeem []byte
		)
		switch src.kind {
		case kindP2PKH:
			prevTx, err := a.prevTx(ctx, prevTxs, in)
			if err != nil {
				return err
			}
			if err := updater.AddInNonWitnessUtxo(prevTx, i); err != nil {
				return fmt.Errorf("failed to add previous tx to input %d: %w", i, err)
			}
			sig, err = txscript.RawTxInSignature(tx, i, src.pkScript, txscript.SigHashAll, key.Key)
			if err != nil {
				return fmt.Errorf("failed to sign input %d: %w", i, err)
			}
		case kindP2WPKH, kindNestedP2WPKH:
			if err := updater.AddInWitnessUtxo(wire.NewTxOut(int64(in.Value), src.pkScript), i); err != nil {
				return fmt.Errorf("failed to add witness utxo to input %d: %w", i, err)
			}
			subScript := src.pkScript
			if src.kind == kindNestedP2WPKH {
				subScript = src.redeemScript
				redeem = src.redeemScript
			}
			sig, err = txscript.RawTxInWitnessSignature(tx, sigHashes, i, int64(in.Value), subScript, txscript.SigHashAll, key.Key)
			if err != nil {
				return fmt.Errorf("failed to sign input %d: %w", i, err)
			}
		}

		outcome, err := updater.Sign(i, sig, pubKey, redeem, nil)
		if err != nil {
			return fmt.Errorf("failed to add signature to input %d: %w", i, err)
		}
		if outcome != psbt.SignSuccesful {
			return fmt.Errorf("input %d was not signed (outcome %d)", i, outcome)
		}
	}

	return nil
}

// prevTx fetches and checks the transaction that created in, caching by hash
func (a *Assembler) prevTx(ctx context.Context, cache map[chainhash.Hash]*wire.MsgTx, in utxo.Output) (*wire.MsgTx, error) {
	hash := in.OutPoint.Hash
	if tx, ok := cache[hash]; ok {
		return tx, nil
	}

	raw, err := a.prevTxs.GetRawTransaction(ctx, hash.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch previous tx: %w", err)
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to decode previous tx %s: %w", hash, err)
	}
	if tx.TxHash() != hash {
		return nil, fmt.Errorf("previous tx hash mismatch: want %s, got %s", hash, tx.TxHash())
	}
	if int(in.OutPoint.Index) >= len(tx.TxOut) || uint64(tx.TxOut[in.OutPoint.Index].Value) != in.Value {
		return nil, fmt.Errorf("previous tx %s does not match output %d", hash, in.OutPoint.Index)
	}

	cache[hash] = &tx
	return &tx, nil
}
