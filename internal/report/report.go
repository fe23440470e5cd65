// Package report derives chart-ready views from a snapshot of a user's
// transactions. Every function is pure: no I/O, inputs are never mutated.
package report

import (
	"sort"

	"finny/internal/core"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

// Overview is the budget bar chart: income against budget and spending.
type Overview struct {
	NetIncome       core.Money `json:"net_income"`
	RemainingBudget core.Money `json:"remaining_budget"`
	Expenses        core.Money `json:"expenses"`
}

// CumulativePoint is one step of the cumulative spending line.
type CumulativePoint struct {
	Date         core.Date  `json:"date"`
	Amount       core.Money `json:"amount"`
	RunningTotal core.Money `json:"running_total"`
}

// TotalByType sums the amounts of transactions of the given type.
func TotalByType(txs []core.Transaction, t core.TransactionType) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// BudgetOverview computes the overview bars. RemainingBudget is not clamped
// and goes negative once spending exceeds the budget.
func BudgetOverview(totalIncome, budget, totalExpenses core.Money) Overview {
	return Overview{
		NetIncome:       totalIncome,
		RemainingBudget: budget.Sub(totalExpenses),
		Expenses:        totalExpenses,
	}
}

// GroupByCategory sums amounts per category for transactions of type t.
// Categories without matching rows are absent from the result.
func GroupByCategory(txs []core.Transaction, t core.TransactionType) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}
	return out
}

// CategoryShares returns GroupByCategory as a slice ordered by amount
// descending, then by name, so pie slices render deterministically.
func CategoryShares(txs []core.Transaction, t core.TransactionType) []CategoryAmount {
	groups := GroupByCategory(txs, t)
	out := make([]CategoryAmount, 0, len(groups))
	for name, amount := range groups {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CumulativeSpending filters to expenses, orders them by date and returns
// the running total. Rows sharing a date keep their input order.
func CumulativeSpending(txs []core.Transaction) []CumulativePoint {
	expenses := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == core.Expense {
			expenses = append(expenses, tx)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date.Time)
	})

	points := make([]CumulativePoint, len(expenses))
	var running core.Money
	for i, tx := range expenses {
		running = running.Add(tx.Amount)
		points[i] = CumulativePoint{Date: tx.Date, Amount: tx.Amount, RunningTotal: running}
	}
	return points
}

// OverBudgetAlert returns how far spending exceeds the budget, if it does.
func OverBudgetAlert(totalExpenses, budget core.Money) (core.Money, bool) {
	over := totalExpenses.Sub(budget)
	if over.Cents > 0 {
		return over, true
	}
	return core.Money{}, false
}
