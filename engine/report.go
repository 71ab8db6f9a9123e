package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// capitalLossCap is the maximum net capital loss deductible against ordinary
// income in one filing year under US rules; the remainder carries over.
var capitalLossCap = decimal.NewFromInt(3000)

const form8949DateLayout = "01/02/2006"

// buildReport enforces the per-event reconciliation invariant, aggregates the
// filing year's events and assembles the Form 8949 entries.
func (r *run) buildReport() *TaxReport {
	shortGains := decimal.Zero
	shortLosses := decimal.Zero
	longGains := decimal.Zero
	longLosses := decimal.Zero

	for _, e := range r.events {
		// gainLoss must equal proceeds minus cost basis, always. A mismatch
		// means an upstream step miscomputed; correct it and flag the defect.
		derived := e.Proceeds.Sub(e.CostBasis)
		if !e.GainLoss.Equal(derived) {
			r.defectf(e.TxID, "gain/loss %s did not reconcile with proceeds-basis %s, corrected", e.GainLoss, derived)
			e.GainLoss = derived
		}

		switch {
		case e.GainLoss.IsPositive():
			if e.HoldingPeriod == LongTerm {
				longGains = longGains.Add(e.GainLoss)
			} else {
				shortGains = shortGains.Add(e.GainLoss)
			}
		case e.GainLoss.IsNegative():
			// The wash-disallowed portion is excluded from the deductible
			// loss; the event still shows the full loss for Form 8949.
			loss := e.GainLoss.Neg()
			deductible := loss.Sub(decimal.Min(loss, e.DisallowedLoss))
			if e.HoldingPeriod == LongTerm {
				longLosses = longLosses.Add(deductible)
			} else {
				shortLosses = shortLosses.Add(deductible)
			}
		}
	}

	netShort := shortGains.Sub(shortLosses)
	netLong := longGains.Sub(longLosses)

	totalNetLoss := decimal.Max(decimal.Zero, netShort.Add(netLong).Neg())
	deductibleLosses := decimal.Min(totalNetLoss, capitalLossCap)
	lossCarryover := totalNetLoss.Sub(deductibleLosses)

	totalIncome := decimal.Zero
	for _, inc := range r.income {
		totalIncome = totalIncome.Add(inc.ValueUSD)
	}

	return &TaxReport{
		Year:             r.year,
		Method:           r.method,
		ShortTermGains:   shortGains,
		ShortTermLosses:  shortLosses,
		LongTermGains:    longGains,
		LongTermLosses:   longLosses,
		NetShortTerm:     netShort,
		NetLongTerm:      netLong,
		TotalIncome:      totalIncome,
		DeductibleLosses: deductibleLosses,
		LossCarryover:    lossCarryover,
		TotalTaxableGain: netShort.Add(netLong).Sub(deductibleLosses),
		TaxableEvents:    r.events,
		IncomeEvents:     r.income,
		Form8949:         form8949Entries(r.events),
		Diagnostics:      r.diags,
	}
}

// form8949Entries itemizes every disposal the way the form wants it: cent
// precision, US dates, adjustment code W on wash sales. The entry's gain is
// re-derived from the rounded columns so each row reconciles on paper.
func form8949Entries(events []*TaxableEvent) []Form8949Entry {
	entries := make([]Form8949Entry, 0, len(events))
	for _, e := range events {
		proceeds := e.Proceeds.Round(2)
		costBasis := e.CostBasis.Round(2)

		entry := Form8949Entry{
			Description:   fmt.Sprintf("%s %s", e.Amount, e.Asset),
			DateSold:      e.DisposedAt.Format(form8949DateLayout),
			Proceeds:      proceeds,
			CostBasis:     costBasis,
			GainLoss:      proceeds.Sub(costBasis),
			HoldingPeriod: e.HoldingPeriod,
		}
		if !e.AcquiredAt.IsZero() {
			entry.DateAcquired = e.AcquiredAt.Format(form8949DateLayout)
		}
		if e.WashSale {
			entry.AdjustmentCode = "W"
			entry.AdjustmentAmount = e.DisallowedLoss.Round(2)
		}
		entries = append(entries, entry)
	}
	return entries
}
