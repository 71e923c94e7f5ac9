package models

import (
	"math"
	"strconv"
	"strings"
)

// Transaction kinds that take part in aggregation. Other non-empty kinds are
// stored as-is and ignored by reports.
const (
	KindSale     = "sale"
	KindPurchase = "purchase"
	KindExpense  = "expense"
)

// DefaultCategory is stored when a transaction is added without a category.
const DefaultCategory = "General"

// Transaction is one dated money movement in the ledger.
type Transaction struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Kind     string  `json:"kind"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Client   string  `json:"client"`
	Note     string  `json:"note"`
}

// ParseAmount coerces wire text to an amount. Quoted values are accepted;
// anything unparsable or non-finite becomes 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
