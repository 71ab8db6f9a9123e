package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
	"github.com/BasisLabs/crypto-tax-engine/engine"
	"github.com/BasisLabs/crypto-tax-engine/util"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTransactionsFile reads a generic transaction export into db rows for
// the given account. Columns are matched by lowercased header name; rows
// missing an id, timestamp or asset are rejected.
func ParseTransactionsFile(path string, account string) ([]dbTypes.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseTransactions(f, account)
}

func ParseTransactions(reader io.Reader, account string) ([]dbTypes.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	headerRow, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}
	headerIdx := map[string]int{}
	for i, h := range headerRow {
		headerIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var txs []dbTypes.Transaction
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		record := make(map[string]string, len(headerIdx))
		for k, i := range headerIdx {
			if i < len(row) {
				record[k] = strings.TrimSpace(row[i])
			}
		}

		tx, err := parseRecord(record, account)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func parseRecord(record map[string]string, account string) (dbTypes.Transaction, error) {
	id := firstNonEmpty(record, "id", "txid", "tx_id", "hash")
	if id == "" {
		return dbTypes.Transaction{}, fmt.Errorf("missing transaction id")
	}

	timeStr := firstNonEmpty(record, "timestamp", "time", "date")
	if timeStr == "" {
		return dbTypes.Transaction{}, fmt.Errorf("missing timestamp")
	}
	ts, err := parseTime(timeStr)
	if err != nil {
		return dbTypes.Transaction{}, err
	}

	asset := firstNonEmpty(record, "asset", "symbol", "currency")
	if asset == "" {
		return dbTypes.Transaction{}, fmt.Errorf("missing asset symbol")
	}

	source := firstNonEmpty(record, "source")
	if source == "" {
		source = engine.SourceCSVImport
	}

	return dbTypes.Transaction{
		Account:      account,
		TxID:         id,
		Timestamp:    ts,
		Type:         strings.ToLower(firstNonEmpty(record, "type", "tx_type")),
		Asset:        strings.ToUpper(asset),
		Amount:       util.ParseDecimal(firstNonEmpty(record, "amount", "qty", "vol")).Abs(),
		ValueUSD:     util.ParseDecimal(firstNonEmpty(record, "value_usd", "value", "cost")),
		FeeUSD:       util.ParseDecimal(firstNonEmpty(record, "fee_usd", "fee")),
		PricePerUnit: util.ParseDecimal(firstNonEmpty(record, "price_per_unit", "price")),
		Chain:        firstNonEmpty(record, "chain"),
		Source:       source,
		Notes:        firstNonEmpty(record, "notes", "description", "comment"),
		InAsset:      strings.ToUpper(firstNonEmpty(record, "in_asset")),
		InAmount:     util.ParseDecimal(firstNonEmpty(record, "in_amount")),
		InValueUSD:   util.ParseDecimal(firstNonEmpty(record, "in_value_usd")),
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time %q", s)
}

func firstNonEmpty(record map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := record[k]; v != "" {
			return v
		}
	}
	return ""
}
