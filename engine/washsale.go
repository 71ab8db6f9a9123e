package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// washSaleWindow is 30 days on either side of a loss sale, a 61-day span
// counting the sale date itself.
const washSaleWindow = 30 * 24 * time.Hour

// LossSaleRecord tracks how much of a realized loss is still available to be
// disallowed by a replacement acquisition. Capacity only ever decreases and
// never goes below zero.
type LossSaleRecord struct {
	TxID     string
	Asset    string
	SoldAt   time.Time
	Remaining decimal.Decimal
	Consumed  decimal.Decimal

	// event is the captured TaxableEvent to retro-mark, nil when the loss
	// sale fell outside the filing year.
	event *TaxableEvent
}

// WashSaleTracker matches same-asset acquisitions against prior loss sales
// within the wash-sale window and transfers the disallowed loss into the
// replacement lot's basis.
type WashSaleTracker struct {
	records map[string][]*LossSaleRecord
}

func NewWashSaleTracker() *WashSaleTracker {
	return &WashSaleTracker{records: make(map[string][]*LossSaleRecord)}
}

func (t *WashSaleTracker) RecordLoss(asset, txID string, soldAt time.Time, loss decimal.Decimal, event *TaxableEvent) {
	if loss.LessThanOrEqual(decimal.Zero) {
		return
	}
	t.records[asset] = append(t.records[asset], &LossSaleRecord{
		TxID:      txID,
		Asset:     asset,
		SoldAt:    soldAt,
		Remaining: loss,
		Consumed:  decimal.Zero,
		event:     event,
	})
}

// MatchAcquisition draws disallowed-loss capacity from every open loss sale
// of the asset within the window. A single acquisition may consume capacity
// from several prior sales; the returned total is added to the new lot's
// cost basis. The acquisition's basis demand is capped at its own USD value.
func (t *WashSaleTracker) MatchAcquisition(asset string, acquiredAt time.Time, acquisitionValue decimal.Decimal) decimal.Decimal {
	disallowed := decimal.Zero
	capacity := acquisitionValue
	for _, rec := range t.records[asset] {
		if capacity.LessThanOrEqual(decimal.Zero) {
			break
		}
		if rec.Remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		delta := acquiredAt.Sub(rec.SoldAt)
		if delta < 0 {
			delta = -delta
		}
		if delta > washSaleWindow {
			continue
		}
		take := decimal.Min(rec.Remaining, capacity)
		rec.Remaining = rec.Remaining.Sub(take)
		rec.Consumed = rec.Consumed.Add(take)
		disallowed = disallowed.Add(take)
		capacity = capacity.Sub(take)
	}
	return disallowed
}

// Finalize retroactively marks every captured loss event whose capacity was
// drawn on. The gain/loss value itself is untouched: Form 8949 still shows
// the loss, flagged with adjustment code W.
func (t *WashSaleTracker) Finalize() {
	for _, recs := range t.records {
		for _, rec := range recs {
			if rec.event == nil || rec.Consumed.IsZero() {
				continue
			}
			rec.event.WashSale = true
			rec.event.DisallowedLoss = rec.Consumed
		}
	}
}
