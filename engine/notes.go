package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ingestion pipelines stuff two kinds of structured data into free-text
// notes: swap legs ("0.5 ETH → 1200 USDC", "swapped 0.5 ETH for 1200 USDC")
// and pre-resolved cost basis for a matched sell ("cost basis $1,234.56;
// acquired 2023-01-02; held long"). Both grammars are strict: anything that
// does not match falls back to lot-based accounting.

var (
	swapArrowRe = regexp.MustCompile(`([0-9][0-9.,]*)\s*([A-Za-z][A-Za-z0-9]*)\s*(?:→|->)\s*([0-9][0-9.,]*)\s*([A-Za-z][A-Za-z0-9]*)`)
	swapWordRe  = regexp.MustCompile(`(?i)swapped\s+([0-9][0-9.,]*)\s*([A-Za-z][A-Za-z0-9]*)\s+for\s+([0-9][0-9.,]*)\s*([A-Za-z][A-Za-z0-9]*)`)

	basisRe    = regexp.MustCompile(`(?i)cost\s*basis:?\s*\$?([0-9][0-9.,]*)`)
	acquiredRe = regexp.MustCompile(`(?i)acquired:?\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	holdingRe  = regexp.MustCompile(`(?i)\b(short|long)(?:-term)?\b`)
)

// SwapLegs is the outgoing and incoming side of a swap parsed from notes.
type SwapLegs struct {
	OutAmount decimal.Decimal
	OutAsset  string
	InAmount  decimal.Decimal
	InAsset   string
}

// ParseSwapNotation extracts swap legs from free-text notes. The second
// return is false when neither grammar matches.
func ParseSwapNotation(notes string) (SwapLegs, bool) {
	m := swapArrowRe.FindStringSubmatch(notes)
	if m == nil {
		m = swapWordRe.FindStringSubmatch(notes)
	}
	if m == nil {
		return SwapLegs{}, false
	}

	outAmt, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return SwapLegs{}, false
	}
	inAmt, err := decimal.NewFromString(strings.ReplaceAll(m[3], ",", ""))
	if err != nil {
		return SwapLegs{}, false
	}

	return SwapLegs{
		OutAmount: outAmt,
		OutAsset:  strings.ToUpper(m[2]),
		InAmount:  inAmt,
		InAsset:   strings.ToUpper(m[4]),
	}, true
}

// EmbeddedBasis is a pre-resolved cost basis carried in a sell's notes. It
// overrides lot-based computation for that one disposal.
type EmbeddedBasis struct {
	CostBasis   decimal.Decimal
	AcquiredAt  time.Time
	HasAcquired bool
	Holding     string // empty when not stated
}

// ParseEmbeddedBasis extracts a precomputed cost basis from notes. The second
// return is false when no basis is present or it fails to parse; acquisition
// date and holding period are optional extras.
func ParseEmbeddedBasis(notes string) (EmbeddedBasis, bool) {
	m := basisRe.FindStringSubmatch(notes)
	if m == nil {
		return EmbeddedBasis{}, false
	}
	basis, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return EmbeddedBasis{}, false
	}

	eb := EmbeddedBasis{CostBasis: basis}

	if m := acquiredRe.FindStringSubmatch(notes); m != nil {
		if acquired, err := time.Parse("2006-01-02", m[1]); err == nil {
			eb.AcquiredAt = acquired
			eb.HasAcquired = true
		}
	}

	if m := holdingRe.FindStringSubmatch(notes); m != nil {
		eb.Holding = strings.ToLower(m[1])
	}

	return eb, true
}
