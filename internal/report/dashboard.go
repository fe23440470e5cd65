package report

import "finny/internal/core"

// Dashboard bundles every derived view shown for a session.
type Dashboard struct {
	Budget             core.Money        `json:"budget"`
	TotalIncome        core.Money        `json:"total_income"`
	TotalExpenses      core.Money        `json:"total_expenses"`
	Overview           Overview          `json:"overview"`
	ExpenseByCategory  []CategoryAmount  `json:"expense_by_category"`
	IncomeByCategory   []CategoryAmount  `json:"income_by_category"`
	CumulativeSpending []CumulativePoint `json:"cumulative_spending"`
	OverBudget         *core.Money       `json:"over_budget,omitempty"`
}

// BuildDashboard computes the dashboard from a working set and budget.
func BuildDashboard(txs []core.Transaction, budget core.Money) Dashboard {
	income := TotalByType(txs, core.Income)
	expenses := TotalByType(txs, core.Expense)

	d := Dashboard{
		Budget:             budget,
		TotalIncome:        income,
		TotalExpenses:      expenses,
		Overview:           BudgetOverview(income, budget, expenses),
		ExpenseByCategory:  CategoryShares(txs, core.Expense),
		IncomeByCategory:   CategoryShares(txs, core.Income),
		CumulativeSpending: CumulativeSpending(txs),
	}
	if over, ok := OverBudgetAlert(expenses, budget); ok {
		d.OverBudget = &over
	}
	return d
}
