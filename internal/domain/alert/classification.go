package alert

import "github.com/shopspring/decimal"

// Severity is the coarse alert bucket used for sorting and counting
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
)

// Kind is the finer-grained reason for an alert, used for display labeling
type Kind string

const (
	KindOutOfStock    Kind = "out_of_stock"
	KindCriticalStock Kind = "critical_stock"
	KindLowStock      Kind = "low_stock"
)

// warningMultiplier bounds the warning band above the threshold. It is a fixed
// design constant, not configurable per product.
var warningMultiplier = decimal.RequireFromString("1.5")

// Classification is the result of classifying one product's stock state
type Classification struct {
	Severity Severity
	Kind     Kind
}

// Classify maps a stock level and a low-stock threshold to a classification.
// It is pure and total over non-negative inputs; rules are evaluated in order
// and the first match wins:
//
//  1. zero stock is always critical/out_of_stock, regardless of threshold
//  2. stock at or below the threshold is critical/critical_stock
//  3. stock at or below threshold*1.5 is warning/low_stock; the comparison is
//     against the exact product, so an odd threshold's .5 boundary rounds in
//     favor of inclusion
//  4. anything above that is normal and filtered out downstream
//
// A zero threshold therefore only ever alerts at zero stock.
func Classify(currentStock, threshold int) Classification {
	switch {
	case currentStock == 0:
		return Classification{Severity: SeverityCritical, Kind: KindOutOfStock}
	case currentStock <= threshold:
		return Classification{Severity: SeverityCritical, Kind: KindCriticalStock}
	case warningCeiling(threshold).GreaterThanOrEqual(decimal.NewFromInt(int64(currentStock))):
		return Classification{Severity: SeverityWarning, Kind: KindLowStock}
	default:
		return Classification{Severity: SeverityNormal, Kind: KindLowStock}
	}
}

// warningCeiling returns threshold*1.5 without truncation
func warningCeiling(threshold int) decimal.Decimal {
	return decimal.NewFromInt(int64(threshold)).Mul(warningMultiplier)
}

// severityRank orders severities for sorting: critical before warning before normal
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}
