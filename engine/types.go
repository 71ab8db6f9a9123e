package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Method selects the lot-consumption ordering for disposals.
type Method string

const (
	FIFO Method = "FIFO"
	LIFO Method = "LIFO"
	HIFO Method = "HIFO"
)

func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case FIFO:
		return FIFO, nil
	case LIFO:
		return LIFO, nil
	case HIFO:
		return HIFO, nil
	}
	return "", fmt.Errorf("invalid lot selection method %q, must be one of FIFO, LIFO, HIFO", s)
}

// Transaction source types. CSV-imported values are already net of fees,
// on-chain values are not; proceeds math depends on the distinction.
const (
	SourceCSVImport = "csv_import"
	SourceOnChain   = "on_chain"
)

// Transaction is one immutable ledger entry. Amount is always a positive
// magnitude; the type decides whether it entered or left the account.
type Transaction struct {
	ID           string
	Timestamp    time.Time
	Type         string
	Asset        string
	Amount       decimal.Decimal
	ValueUSD     decimal.Decimal
	FeeUSD       decimal.Decimal
	PricePerUnit decimal.Decimal // derived from ValueUSD/Amount when zero
	Chain        string
	Source       string
	Notes        string

	// Incoming leg of a swap, when the ingestion layer resolved it. Absent
	// fields fall back to notes parsing.
	InAsset    string
	InAmount   decimal.Decimal
	InValueUSD decimal.Decimal
}

// Kind is the economic classification of a transaction, decoupled from the
// literal type string ingestion produced.
type Kind int

const (
	NoOp Kind = iota
	Acquisition
	Disposal
	SwapPair
	Transfer
	IncomeRecognition
)

func (k Kind) String() string {
	switch k {
	case Acquisition:
		return "acquisition"
	case Disposal:
		return "disposal"
	case SwapPair:
		return "swap"
	case Transfer:
		return "transfer"
	case IncomeRecognition:
		return "income"
	}
	return "noop"
}

// Holding period buckets. Long-term iff the asset was held 366 days or more.
const (
	ShortTerm = "short"
	LongTerm  = "long"
)

type TaxableEvent struct {
	TxID           string          `json:"tx_id"`
	Asset          string          `json:"asset"`
	Amount         decimal.Decimal `json:"amount"`
	DisposedAt     time.Time       `json:"disposed_at"`
	AcquiredAt     time.Time       `json:"acquired_at"` // earliest contributing lot
	Proceeds       decimal.Decimal `json:"proceeds"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	GainLoss       decimal.Decimal `json:"gain_loss"`
	HoldingPeriod  string          `json:"holding_period"`
	WashSale       bool            `json:"wash_sale"`
	DisallowedLoss decimal.Decimal `json:"disallowed_loss"`
}

type IncomeEvent struct {
	TxID     string          `json:"tx_id"`
	Date     time.Time       `json:"date"`
	Asset    string          `json:"asset"`
	Amount   decimal.Decimal `json:"amount"`
	ValueUSD decimal.Decimal `json:"value_usd"`
	Category string          `json:"category"` // staking, reward, airdrop, mining, other
}

// Form8949Entry is one itemized row for IRS Form 8949, values rounded to the
// cent. Wash sales carry adjustment code "W" with the disallowed amount.
type Form8949Entry struct {
	Description      string          `json:"description"`
	DateAcquired     string          `json:"date_acquired"`
	DateSold         string          `json:"date_sold"`
	Proceeds         decimal.Decimal `json:"proceeds"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	AdjustmentCode   string          `json:"adjustment_code"`
	AdjustmentAmount decimal.Decimal `json:"adjustment_amount"`
	GainLoss         decimal.Decimal `json:"gain_loss"`
	HoldingPeriod    string          `json:"holding_period"`
}

// Diagnostic levels. Warnings are data-quality fallbacks; defects mean an
// internal invariant had to be corrected.
const (
	DiagWarning = "warning"
	DiagDefect  = "defect"
)

type Diagnostic struct {
	Level   string `json:"level"`
	TxID    string `json:"tx_id,omitempty"`
	Message string `json:"message"`
}

type TaxReport struct {
	Year   int    `json:"year"`
	Method Method `json:"method"`

	ShortTermGains  decimal.Decimal `json:"short_term_gains"`
	ShortTermLosses decimal.Decimal `json:"short_term_losses"`
	LongTermGains   decimal.Decimal `json:"long_term_gains"`
	LongTermLosses  decimal.Decimal `json:"long_term_losses"`
	NetShortTerm    decimal.Decimal `json:"net_short_term"`
	NetLongTerm     decimal.Decimal `json:"net_long_term"`

	TotalIncome      decimal.Decimal `json:"total_income"`
	DeductibleLosses decimal.Decimal `json:"deductible_losses"`
	LossCarryover    decimal.Decimal `json:"loss_carryover"`
	TotalTaxableGain decimal.Decimal `json:"total_taxable_gain"`

	TaxableEvents []*TaxableEvent `json:"taxable_events"`
	IncomeEvents  []*IncomeEvent  `json:"income_events"`
	Form8949      []Form8949Entry `json:"form_8949"`
	Diagnostics   []Diagnostic    `json:"diagnostics,omitempty"`
}
