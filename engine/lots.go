package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// lotEpsilon is the dust threshold below which a lot's remainder is treated
// as fully consumed.
var lotEpsilon = decimal.New(1, -9)

// CostBasisLot is a discrete quantity of an asset acquired at one time and
// cost. CostBasis always covers OriginalAmount; the basis of a partial
// consumption scales linearly with the portion taken.
type CostBasisLot struct {
	TxID           string
	AcquiredAt     time.Time
	OriginalAmount decimal.Decimal
	Remaining      decimal.Decimal
	CostBasis      decimal.Decimal
	PricePerUnit   decimal.Decimal
}

func (l *CostBasisLot) basisFor(amount decimal.Decimal) decimal.Decimal {
	if l.OriginalAmount.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis.Mul(amount).Div(l.OriginalAmount)
}

// LotPortion is one lot's contribution to a disposal.
type LotPortion struct {
	Lot       *CostBasisLot
	Amount    decimal.Decimal
	CostBasis decimal.Decimal
}

// LotLedger holds the open cost-basis lots per normalized asset symbol. It is
// owned by one report computation and never shared.
type LotLedger struct {
	lots map[string][]*CostBasisLot
}

func NewLotLedger() *LotLedger {
	return &LotLedger{lots: make(map[string][]*CostBasisLot)}
}

func (ll *LotLedger) Append(asset string, lot *CostBasisLot) {
	ll.lots[asset] = append(ll.lots[asset], lot)
}

// Open returns the open lots for an asset in acquisition order.
func (ll *LotLedger) Open(asset string) []*CostBasisLot {
	return ll.lots[asset]
}

// Consume takes the required amount out of the asset's open lots under the
// given method and returns the consumed portions plus any uncovered
// shortfall. A disposal never fails for missing lots: the shortfall simply
// carries zero basis, and the caller surfaces it as a warning.
func (ll *LotLedger) Consume(asset string, required decimal.Decimal, method Method) ([]LotPortion, decimal.Decimal) {
	ordered := make([]*CostBasisLot, len(ll.lots[asset]))
	copy(ordered, ll.lots[asset])

	// Stable sorts keep append order for equal keys, so output is
	// deterministic run to run.
	switch method {
	case FIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].AcquiredAt.Before(ordered[j].AcquiredAt)
		})
	case LIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].AcquiredAt.After(ordered[j].AcquiredAt)
		})
	case HIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].PricePerUnit.GreaterThan(ordered[j].PricePerUnit)
		})
	}

	var portions []LotPortion
	remaining := required
	for _, lot := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.Remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(lot.Remaining, remaining)
		portions = append(portions, LotPortion{
			Lot:       lot,
			Amount:    take,
			CostBasis: lot.basisFor(take),
		})
		lot.Remaining = lot.Remaining.Sub(take)
		remaining = remaining.Sub(take)
	}

	ll.sweep(asset)

	if remaining.LessThan(lotEpsilon) {
		remaining = decimal.Zero
	}
	return portions, remaining
}

// sweep drops lots whose remainder fell below the dust threshold.
func (ll *LotLedger) sweep(asset string) {
	open := ll.lots[asset][:0]
	for _, lot := range ll.lots[asset] {
		if lot.Remaining.GreaterThan(lotEpsilon) {
			open = append(open, lot)
		}
	}
	if len(open) == 0 {
		delete(ll.lots, asset)
		return
	}
	ll.lots[asset] = open
}
