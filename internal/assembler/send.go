package assembler

import (
	"context"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/sirupsen/logrus"

	"github.com/AlexZinkM/scan-wallet/internal/hdwallet"
	"github.com/AlexZinkM/scan-wallet/internal/model"
	"github.com/AlexZinkM/scan-wallet/internal/payload"
	"github.com/AlexZinkM/scan-wallet/internal/utxo"
)

// selection is the funding of a payment
type selection struct {
	inputs []utxo.Output
	fee    uint64
	vsize  int
	change uint64 // zero when the change would be dust
}

// AssembleFromURI builds an unsigned payment of uri's amount funded by subaccount.
// Without an amount nothing is funded: the result only carries the addressee, for the
// caller to complete.
func (a *Assembler) AssembleFromURI(ctx context.Context, uri *payload.PaymentURI, subaccount uint32) (*model.BuiltTransaction, error) {
	if !a.keyring.HasSubaccount(subaccount) {
		return nil, fmt.Errorf("%w: %d", hdwallet.ErrUnknownSubaccount, subaccount)
	}

	addressee := uri.Addressee()
	if uri.Amount == nil {
		return &model.BuiltTransaction{
			Addressees: []model.Addressee{addressee},
			Subaccount: subaccount,
		}, nil
	}
	amount := *uri.Amount

	payScript, err := txscript.PayToAddrScript(uri.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment script: %w", err)
	}
	payment := wire.NewTxOut(int64(amount), payScript)
	if isDust(payment) {
		return nil, model.BackendFailure(fmt.Sprintf("amount %d is below the dust limit", amount))
	}

	feeRate, err := a.fees.Tier(ctx, a.feeTier)
	if err != nil {
		return nil, fmt.Errorf("failed to get fee rate: %w", err)
	}

	owned, err := a.keyring.Addresses(subaccount)
	if err != nil {
		return nil, err
	}
	byAddress := make(map[string]model.DerivedAddress, len(owned))
	addresses := make([]string, 0, len(owned))
	for _, addr := range owned {
		byAddress[addr.Address] = addr
		addresses = append(addresses, addr.Address)
	}

	available, err := a.utxos.Collect(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch utxos: %w", err)
	}
	if len(available) == 0 {
		return nil, model.NewBuildError(model.KindNoFunds, "subaccount %d has no funds", subaccount)
	}

	change, err := a.keyring.ChangeAddress(subaccount)
	if err != nil {
		return nil, err
	}
	changeAddr, err := btcutil.DecodeAddress(change.Address, a.params)
	if err != nil {
		return nil, fmt.Errorf("failed to decode change address: %w", err)
	}
	changeScript, err := txscript.PayToAddrScript(changeAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create change script: %w", err)
	}

	sel, ok := selectLargestFirst(available, payment, feeRate, changeScript)
	if !ok {
		return nil, model.NewBuildError(model.KindInsufficientFunds,
			"payment of %d plus fee exceeds subaccount %d balance of %d", amount, subaccount, utxo.Total(available))
	}

	tx := wire.NewMsgTx(txVersion)
	for _, in := range sel.inputs {
		outPoint := in.OutPoint
		tx.AddTxIn(wire.NewTxIn(&outPoint, nil, nil))
	}
	tx.AddTxOut(payment)
	if sel.change > 0 {
		tx.AddTxOut(wire.NewTxOut(int64(sel.change), changeScript))
	}

	packet, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create psbt: %w", err)
	}
	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, fmt.Errorf("failed to create psbt updater: %w", err)
	}

	fingerprint := a.keyring.Fingerprint()
	for i, in := range sel.inputs {
		owner := byAddress[in.Address]
		ownerAddr, err := btcutil.DecodeAddress(owner.Address, a.params)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input address: %w", err)
		}
		script, err := txscript.PayToAddrScript(ownerAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to create input script: %w", err)
		}
		if err := updater.AddInWitnessUtxo(wire.NewTxOut(int64(in.Value), script), i); err != nil {
			return nil, fmt.Errorf("failed to add witness utxo to input %d: %w", i, err)
		}
		if err := updater.AddInBip32Derivation(fingerprint, owner.Path, owner.PubKey, i); err != nil {
			return nil, fmt.Errorf("failed to add derivation to input %d: %w", i, err)
		}
		if err := updater.AddInSighashType(txscript.SigHashAll, i); err != nil {
			return nil, fmt.Errorf("failed to add sighash type to input %d: %w", i, err)
		}
	}
	if sel.change > 0 {
		if err := updater.AddOutBip32Derivation(fingerprint, change.Path, change.PubKey, 1); err != nil {
			return nil, fmt.Errorf("failed to add change derivation: %w", err)
		}
	}

	raw, err := serializePacket(packet)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"inputs": len(sel.inputs),
		"amount": amount,
		"change": sel.change,
		"fee":    sel.fee,
	}).Debug("payment assembled")

	return &model.BuiltTransaction{
		Raw:        raw,
		Addressees: []model.Addressee{addressee},
		Subaccount: subaccount,
		FeeRate:    feeRate,
		Fee:        sel.fee,
		VSize:      sel.vsize,
	}, nil
}

// selectLargestFirst adds outputs from largest to smallest until payment and fee are covered.
// Change below the dust limit is left to the fee.
func selectLargestFirst(available []utxo.Output, payment *wire.TxOut, feeRate uint64, changeScript []byte) (selection, bool) {
	sorted := make([]utxo.Output, len(available))
	copy(sorted, available)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	amount := uint64(payment.Value)
	outs := []*wire.TxOut{payment}

	var total uint64
	for n := 1; n <= len(sorted); n++ {
		total += sorted[n-1].Value
		counts := inputCounts{p2wpkh: n}

		withChange := estimateVSize(counts, outs, txsizes.P2WPKHPkScriptSize, true)
		feeWithChange := feeRate * uint64(withChange)
		if total >= amount+feeWithChange {
			change := total - amount - feeWithChange
			if !isDust(wire.NewTxOut(int64(change), changeScript)) {
				return selection{inputs: sorted[:n], fee: feeWithChange, vsize: withChange, change: change}, true
			}
		}

		noChange := estimateVSize(counts, outs, 0, true)
		if total >= amount+feeRate*uint64(noChange) {
			return selection{inputs: sorted[:n], fee: total - amount, vsize: noChange}, true
		}
	}

	return selection{}, false
}
