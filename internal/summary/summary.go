// Package summary derives the dashboard figures from a query cycle's
// transactions.
package summary

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// ErrEmptyResult is returned when there are no transactions to summarize.
var ErrEmptyResult = errors.New("empty result")

// Policy holds the business constants applied by Compute.
type Policy struct {
	SellType        model.TransactionType
	SuccessStatus   model.TransactionStatus
	TopUpThreshold  decimal.Decimal
	TopUpMultiplier int64
}

// DefaultPolicy counts successful sell orders; each one under 100 is worth
// two top-ups.
func DefaultPolicy() Policy {
	return Policy{
		SellType:        model.TransactionTypeSellOrder,
		SuccessStatus:   model.StatusSuccess,
		TopUpThreshold:  decimal.NewFromInt(100),
		TopUpMultiplier: 2,
	}
}

// Counts reports whether t contributes to sales, rebates and top-ups.
func (p Policy) Counts(t model.Transaction) bool {
	return t.Type == p.SellType && t.Status == p.SuccessStatus
}

// Compute summarizes txns, which must be in server order (newest first).
// Wallet is the running balance of the first transaction regardless of its
// type or status.
func Compute(txns []model.Transaction, p Policy) (model.Summary, error) {
	if len(txns) == 0 {
		return model.Summary{}, ErrEmptyResult
	}

	sales := decimal.Zero
	rebates := decimal.Zero
	var small int64
	for _, t := range txns {
		if !p.Counts(t) {
			continue
		}
		sales = sales.Add(t.Amount)
		if t.RewardAmount.Valid {
			rebates = rebates.Add(t.RewardAmount.Decimal)
		}
		if t.Amount.LessThan(p.TopUpThreshold) {
			small++
		}
	}

	wallet := decimal.Zero
	if rb := txns[0].RunningBalance; rb.Valid {
		wallet = rb.Decimal
	}

	return model.Summary{
		Wallet:  wallet,
		Sales:   sales,
		Rebates: rebates,
		TopUps:  decimal.NewFromInt(small * p.TopUpMultiplier),
	}, nil
}

// Result is the explicit outcome of summarizing a cycle: either a summary or
// an empty set, which presents as all zeros.
type Result struct {
	Summary model.Summary
	Count   int
	Empty   bool
}

// Evaluate is Compute without the error path.
func Evaluate(txns []model.Transaction, p Policy) Result {
	s, err := Compute(txns, p)
	if errors.Is(err, ErrEmptyResult) {
		return Result{Empty: true}
	}
	return Result{Summary: s, Count: len(txns)}
}
