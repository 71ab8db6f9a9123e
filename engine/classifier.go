package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Classify maps a transaction's declared type onto its economic effect. The
// handlers branch further inside a kind (e.g. wash-sale matching applies to
// market buys but not LP-token acquisitions).
func Classify(tx Transaction) Kind {
	switch normalizeType(tx.Type) {
	case "buy", "dca", "nft-purchase", "liquidity-add":
		return Acquisition
	case "sell", "nft-sale", "bridge", "liquidity-remove":
		return Disposal
	case "swap", "convert", "trade":
		return SwapPair
	case "send", "unstake":
		return Transfer
	case "receive", "stake", "staking", "reward", "airdrop", "mining", "yield", "interest":
		return IncomeRecognition
	case "liquidity-providing":
		if tx.ValueUSD.IsPositive() {
			return IncomeRecognition
		}
		return NoOp
	case "borrow", "repay":
		return NoOp
	}
	return NoOp
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.ReplaceAll(t, "_", "-")
	return strings.ReplaceAll(t, " ", "-")
}

func normalizeAsset(a string) string {
	return strings.ToUpper(strings.TrimSpace(a))
}

// run is the state of one report computation. Everything here is created for
// a single ComputeReport call and discarded with it.
type run struct {
	year   int
	method Method

	ledger *LotLedger
	wash   *WashSaleTracker

	events []*TaxableEvent
	income []*IncomeEvent
	diags  []Diagnostic
}

// ComputeReport turns the full chronological transaction history into the
// filing year's tax report. The transaction list must cover all time up to
// year end: prior-year acquisitions supply the basis of current-year
// disposals. The computation is pure; rerunning it on the same input yields
// an identical report.
func ComputeReport(txs []Transaction, year int, method Method) (*TaxReport, error) {
	method, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}
	if year < 1000 || year > 9999 {
		return nil, fmt.Errorf("invalid filing year %d, must be a four-digit year", year)
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Timestamp.Before(txs[i-1].Timestamp) {
			return nil, fmt.Errorf("transactions out of chronological order: %s at %s precedes %s at %s",
				txs[i].ID, txs[i].Timestamp.Format(time.RFC3339), txs[i-1].ID, txs[i-1].Timestamp.Format(time.RFC3339))
		}
	}

	// Canonicalize equal-timestamp ordering by id so output is bit-for-bit
	// reproducible regardless of how ties arrived.
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	r := &run{
		year:   year,
		method: method,
		ledger: NewLotLedger(),
		wash:   NewWashSaleTracker(),
	}

	for _, tx := range sorted {
		switch Classify(tx) {
		case Acquisition:
			r.handleAcquisition(tx)
		case Disposal:
			r.handleDisposal(tx)
		case SwapPair:
			r.handleSwap(tx)
		case Transfer:
			r.handleTransfer(tx)
		case IncomeRecognition:
			r.handleIncome(tx)
		case NoOp:
			if !knownNoOp(tx.Type) {
				r.warnf(tx.ID, "unrecognized transaction type %q, skipped", tx.Type)
			}
		}
	}

	r.wash.Finalize()

	return r.buildReport(), nil
}

func knownNoOp(txType string) bool {
	switch normalizeType(txType) {
	case "borrow", "repay", "liquidity-providing":
		return true
	}
	return false
}

func (r *run) warnf(txID, format string, args ...interface{}) {
	r.diags = append(r.diags, Diagnostic{Level: DiagWarning, TxID: txID, Message: fmt.Sprintf(format, args...)})
}

func (r *run) defectf(txID, format string, args ...interface{}) {
	r.diags = append(r.diags, Diagnostic{Level: DiagDefect, TxID: txID, Message: fmt.Sprintf(format, args...)})
}

// handleAcquisition appends a new lot. Market buys additionally absorb any
// disallowed loss from a wash sale within the window; LP-token lots carry the
// contributed value as-is.
func (r *run) handleAcquisition(tx Transaction) {
	asset := normalizeAsset(tx.Asset)
	value := tx.ValueUSD.Abs()
	basis := value.Add(tx.FeeUSD)

	if isMarketBuy(tx.Type) {
		disallowed := r.wash.MatchAcquisition(asset, tx.Timestamp, value)
		basis = basis.Add(disallowed)
	}

	r.appendLot(tx.ID, asset, tx.Timestamp, tx.Amount, basis, tx.PricePerUnit)
}

func isMarketBuy(txType string) bool {
	switch normalizeType(txType) {
	case "buy", "dca", "nft-purchase":
		return true
	}
	return false
}

func (r *run) appendLot(txID, asset string, at time.Time, amount, basis, pricePerUnit decimal.Decimal) {
	if pricePerUnit.IsZero() && !amount.IsZero() {
		pricePerUnit = basis.Div(amount)
	}
	r.ledger.Append(asset, &CostBasisLot{
		TxID:           txID,
		AcquiredAt:     at,
		OriginalAmount: amount,
		Remaining:      amount,
		CostBasis:      basis,
		PricePerUnit:   pricePerUnit,
	})
}

// handleDisposal realizes gain or loss on a sell, bridge or liquidity
// removal. A sell whose notes carry a pre-resolved cost basis trusts the
// ingestion pipeline's lot matching instead of the live ledger.
func (r *run) handleDisposal(tx Transaction) {
	asset := normalizeAsset(tx.Asset)
	proceeds := r.proceedsFor(tx)

	if isSell(tx.Type) && strings.Contains(strings.ToLower(tx.Notes), "cost basis") {
		if eb, ok := ParseEmbeddedBasis(tx.Notes); ok {
			r.captureDisposal(tx, asset, proceeds, eb.CostBasis, eb.AcquiredAt, embeddedHolding(eb, tx.Timestamp))
			return
		}
		r.warnf(tx.ID, "malformed embedded cost basis in notes, falling back to lot accounting")
	}

	r.disposeFromLots(tx, asset, tx.Amount, proceeds)
}

func isSell(txType string) bool {
	switch normalizeType(txType) {
	case "sell", "nft-sale":
		return true
	}
	return false
}

func embeddedHolding(eb EmbeddedBasis, disposedAt time.Time) string {
	if eb.Holding != "" {
		return eb.Holding
	}
	if eb.HasAcquired {
		return holdingPeriod(eb.AcquiredAt, disposedAt)
	}
	return ShortTerm
}

// disposeFromLots consumes open lots and captures the taxable event. Missing
// lots never fail the disposal; the uncovered portion simply realizes with
// zero basis, surfaced as a warning.
func (r *run) disposeFromLots(tx Transaction, asset string, amount, proceeds decimal.Decimal) {
	portions, short := r.ledger.Consume(asset, amount, r.method)

	if short.IsPositive() {
		r.warnf(tx.ID, "disposal of %s %s not fully covered by open lots, %s carries zero cost basis",
			amount, asset, short)
	}

	costBasis := decimal.Zero
	var acquiredAt time.Time
	for _, p := range portions {
		costBasis = costBasis.Add(p.CostBasis)
		if acquiredAt.IsZero() || p.Lot.AcquiredAt.Before(acquiredAt) {
			acquiredAt = p.Lot.AcquiredAt
		}
	}

	holding := ShortTerm
	if !acquiredAt.IsZero() {
		holding = holdingPeriod(acquiredAt, tx.Timestamp)
	}

	r.captureDisposal(tx, asset, proceeds, costBasis, acquiredAt, holding)
}

// captureDisposal records the taxable event (filing year only) and the loss
// sale record (always, since the wash window can span year boundaries).
func (r *run) captureDisposal(tx Transaction, asset string, proceeds, costBasis decimal.Decimal, acquiredAt time.Time, holding string) {
	gainLoss := proceeds.Sub(costBasis)

	var event *TaxableEvent
	if tx.Timestamp.Year() == r.year {
		event = &TaxableEvent{
			TxID:           tx.ID,
			Asset:          asset,
			Amount:         tx.Amount,
			DisposedAt:     tx.Timestamp,
			AcquiredAt:     acquiredAt,
			Proceeds:       proceeds,
			CostBasis:      costBasis,
			GainLoss:       gainLoss,
			HoldingPeriod:  holding,
			DisallowedLoss: decimal.Zero,
		}
		r.events = append(r.events, event)
	}

	if gainLoss.IsNegative() {
		r.wash.RecordLoss(asset, tx.ID, tx.Timestamp, gainLoss.Neg(), event)
	}
}

// proceedsFor nets fees out of the disposal value. CSV-imported values are
// already net; on-chain values have the fee subtracted here. Collapsing the
// two would double-count fees.
func (r *run) proceedsFor(tx Transaction) decimal.Decimal {
	value := tx.ValueUSD.Abs()
	if tx.Source == SourceCSVImport {
		return value
	}
	return value.Sub(tx.FeeUSD)
}

// handleSwap decomposes a swap into a disposal of the outgoing asset and an
// acquisition of the incoming one. The fee attaches to the incoming lot's
// basis; the outgoing leg realizes against the full outgoing value.
func (r *run) handleSwap(tx Transaction) {
	outAsset := normalizeAsset(tx.Asset)
	outAmount := tx.Amount
	outValue := tx.ValueUSD.Abs()

	inAsset := normalizeAsset(tx.InAsset)
	inAmount := tx.InAmount
	inValue := tx.InValueUSD.Abs()

	if inAsset == "" || inAmount.IsZero() {
		legs, ok := ParseSwapNotation(tx.Notes)
		if ok {
			inAsset = legs.InAsset
			inAmount = legs.InAmount
			if legs.OutAsset == outAsset && !legs.OutAmount.IsZero() {
				outAmount = legs.OutAmount
			}
		} else {
			r.warnf(tx.ID, "unparseable swap notation in notes, recording outgoing leg only")
		}
	}

	if inValue.IsZero() {
		// Absent a separate valuation the incoming side is worth what the
		// outgoing side fetched.
		inValue = outValue
	}

	r.disposeFromLots(tx, outAsset, outAmount, outValue)

	if inAsset != "" && !inAmount.IsZero() {
		r.appendLot(tx.ID, inAsset, tx.Timestamp, inAmount, inValue.Add(tx.FeeUSD), decimal.Zero)
	}
}

// handleTransfer consumes lots without realizing gain. Sends reduce the
// basis available to future disposals; unstakes release principal whose
// rewards were already recognized on receipt.
func (r *run) handleTransfer(tx Transaction) {
	asset := normalizeAsset(tx.Asset)
	_, short := r.ledger.Consume(asset, tx.Amount, r.method)
	if short.IsPositive() {
		r.warnf(tx.ID, "transfer of %s %s exceeds open lots by %s", tx.Amount, asset, short)
	}
}

// handleIncome recognizes ordinary income at fair-market value and opens a
// lot at that value, since recognized income becomes basis for any future
// disposal.
func (r *run) handleIncome(tx Transaction) {
	asset := normalizeAsset(tx.Asset)
	value := tx.ValueUSD.Abs()

	if tx.Timestamp.Year() == r.year {
		r.income = append(r.income, &IncomeEvent{
			TxID:     tx.ID,
			Date:     tx.Timestamp,
			Asset:    asset,
			Amount:   tx.Amount,
			ValueUSD: value,
			Category: incomeCategory(tx.Type),
		})
	}

	r.appendLot(tx.ID, asset, tx.Timestamp, tx.Amount, value, tx.PricePerUnit)
}

func incomeCategory(txType string) string {
	switch normalizeType(txType) {
	case "stake", "staking":
		return "staking"
	case "reward":
		return "reward"
	case "airdrop":
		return "airdrop"
	case "mining":
		return "mining"
	}
	return "other"
}

// holdingPeriod classifies long-term at 366 days or more between acquisition
// and disposal, so 365 days exactly is still short-term.
func holdingPeriod(acquiredAt, disposedAt time.Time) string {
	if int(disposedAt.Sub(acquiredAt).Hours()/24) >= 366 {
		return LongTerm
	}
	return ShortTerm
}
