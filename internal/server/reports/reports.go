// Package reports folds ledger rows into accounting figures. Everything here
// is pure: no I/O, no clock.
package reports

import (
	"math"

	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied to positive net profit when no rate is configured.
const DefaultTaxRate = 0.25

type DailySummary struct {
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

type IncomeStatement struct {
	Sales        float64 `json:"sales"`
	Purchases    float64 `json:"purchases"`
	Expenses     float64 `json:"expenses"`
	GrossProfit  float64 `json:"gross_profit"`
	NetProfit    float64 `json:"net_profit"`
	EstimatedTax float64 `json:"estimated_tax"`
}

// totals holds exact decimal sums: 0.1 + 0.2 stays 0.3.
type totals struct {
	sales, purchases, expenses decimal.Decimal
}

// Rows with kinds other than sale, purchase and expense are skipped, as are
// non-finite amounts.
func fold(rows []models.Transaction) totals {
	var t totals
	for _, r := range rows {
		if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			continue
		}
		amount := decimal.NewFromFloat(r.Amount)
		switch r.Kind {
		case models.KindSale:
			t.sales = t.sales.Add(amount)
		case models.KindPurchase:
			t.purchases = t.purchases.Add(amount)
		case models.KindExpense:
			t.expenses = t.expenses.Add(amount)
		}
	}
	return t
}

// Summarize computes per-kind totals and profit = sales - (purchases + expenses).
func Summarize(rows []models.Transaction) DailySummary {
	t := fold(rows)
	return DailySummary{
		Sales:     t.sales.InexactFloat64(),
		Purchases: t.purchases.InexactFloat64(),
		Expenses:  t.expenses.InexactFloat64(),
		Profit:    t.sales.Sub(t.purchases.Add(t.expenses)).InexactFloat64(),
	}
}

// BuildIncomeStatement computes gross and net profit and the estimated tax.
// Tax is only charged on a positive net profit. Values are not rounded.
func BuildIncomeStatement(rows []models.Transaction, taxRate float64) IncomeStatement {
	t := fold(rows)
	gross := t.sales.Sub(t.purchases)
	net := gross.Sub(t.expenses)

	tax := decimal.Zero
	if net.IsPositive() {
		tax = net.Mul(decimal.NewFromFloat(taxRate))
	}

	return IncomeStatement{
		Sales:        t.sales.InexactFloat64(),
		Purchases:    t.purchases.InexactFloat64(),
		Expenses:     t.expenses.InexactFloat64(),
		GrossProfit:  gross.InexactFloat64(),
		NetProfit:    net.InexactFloat64(),
		EstimatedTax: tax.InexactFloat64(),
	}
}
