package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/BasisLabs/crypto-tax-engine/engine"
)

var form8949Headers = []string{
	"description", "dateAcquired", "dateSold", "proceeds", "costBasis",
	"adjustmentCode", "adjustmentAmount", "gainLoss", "holdingPeriod",
}

var taxableEventHeaders = []string{
	"txId", "asset", "amount", "disposedAt", "acquiredAt", "proceeds",
	"costBasis", "gainLoss", "holdingPeriod", "washSale", "disallowedLoss",
}

var incomeEventHeaders = []string{
	"txId", "date", "asset", "amount", "valueUsd", "category",
}

const dateLayout = "2006-01-02 15:04:05"

// Form8949ToCsv writes the Form-8949-ready entries to a CSV byte buffer for
// the PDF-rendering collaborator.
func Form8949ToCsv(entries []engine.Form8949Entry) (bytes.Buffer, error) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.Description,
			e.DateAcquired,
			e.DateSold,
			e.Proceeds.StringFixed(2),
			e.CostBasis.StringFixed(2),
			e.AdjustmentCode,
			e.AdjustmentAmount.StringFixed(2),
			e.GainLoss.StringFixed(2),
			e.HoldingPeriod,
		}
	}
	return toCsv(form8949Headers, rows)
}

// TaxableEventsToCsv serializes the year's disposal events.
func TaxableEventsToCsv(events []*engine.TaxableEvent) (bytes.Buffer, error) {
	rows := make([][]string, len(events))
	for i, e := range events {
		acquired := ""
		if !e.AcquiredAt.IsZero() {
			acquired = e.AcquiredAt.Format(dateLayout)
		}
		rows[i] = []string{
			e.TxID,
			e.Asset,
			e.Amount.String(),
			e.DisposedAt.Format(dateLayout),
			acquired,
			e.Proceeds.String(),
			e.CostBasis.String(),
			e.GainLoss.String(),
			e.HoldingPeriod,
			fmt.Sprintf("%t", e.WashSale),
			e.DisallowedLoss.String(),
		}
	}
	return toCsv(taxableEventHeaders, rows)
}

// IncomeEventsToCsv serializes the year's ordinary-income events.
func IncomeEventsToCsv(events []*engine.IncomeEvent) (bytes.Buffer, error) {
	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{
			e.TxID,
			e.Date.Format(dateLayout),
			e.Asset,
			e.Amount.String(),
			e.ValueUSD.String(),
			e.Category,
		}
	}
	return toCsv(incomeEventHeaders, rows)
}

func toCsv(headers []string, rows [][]string) (bytes.Buffer, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	if err := w.Write(headers); err != nil {
		return b, fmt.Errorf("error writing header to csv: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return b, fmt.Errorf("error writing record to csv: %w", err)
		}
	}

	w.Flush()
	return b, w.Error()
}
