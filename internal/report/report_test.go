package report

import (
	"reflect"
	"testing"

	"finny/internal/core"
)

func tx(day int, category string, t core.TransactionType, cents int64) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2025, 3, day),
		Category: category,
		Type:     t,
		Amount:   core.Money{Cents: cents},
	}
}

func TestTotalByType(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Salary", core.Income, 10000),
		tx(2, "Food", core.Expense, 4000),
		tx(3, "Food", core.Expense, 1000),
	}
	if got := TotalByType(txs, core.Expense); got.Cents != 5000 {
		t.Fatalf("expense total = %v, want 50.00", got)
	}
	if got := TotalByType(txs, core.Income); got.Cents != 10000 {
		t.Fatalf("income total = %v, want 100.00", got)
	}
	if got := TotalByType(nil, core.Expense); !got.IsZero() {
		t.Fatalf("empty total = %v, want 0", got)
	}
}

func TestBudgetOverviewAndAlert(t *testing.T) {
	ov := BudgetOverview(core.Money{Cents: 50000}, core.Money{Cents: 30000}, core.Money{Cents: 35000})
	want := Overview{
		NetIncome:       core.Money{Cents: 50000},
		RemainingBudget: core.Money{Cents: -5000},
		Expenses:        core.Money{Cents: 35000},
	}
	if ov != want {
		t.Fatalf("overview = %+v, want %+v", ov, want)
	}

	over, ok := OverBudgetAlert(core.Money{Cents: 35000}, core.Money{Cents: 30000})
	if !ok || over.Cents != 5000 {
		t.Fatalf("alert = %v/%v, want 50.00/true", over, ok)
	}
	if _, ok := OverBudgetAlert(core.Money{Cents: 30000}, core.Money{Cents: 30000}); ok {
		t.Fatalf("spending equal to budget must not alert")
	}
	if _, ok := OverBudgetAlert(core.Money{}, core.Money{}); ok {
		t.Fatalf("no spending must not alert")
	}
}

func TestGroupByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Salary", core.Income, 10000),
		tx(2, "Food", core.Expense, 4000),
		tx(3, "Rent", core.Expense, 9000),
		tx(4, "Food", core.Expense, 1000),
	}
	got := GroupByCategory(txs, core.Expense)
	want := map[string]core.Money{"Food": {Cents: 5000}, "Rent": {Cents: 9000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	if _, ok := got["Salary"]; ok {
		t.Fatalf("income category leaked into expense groups")
	}
	if got := GroupByCategory(txs[:1], core.Expense); len(got) != 0 {
		t.Fatalf("expected no groups, got %v", got)
	}
}

func TestCategorySharesOrdering(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "B", core.Expense, 500),
		tx(2, "A", core.Expense, 500),
		tx(3, "C", core.Expense, 900),
	}
	got := CategoryShares(txs, core.Expense)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	if !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestCumulativeSpending(t *testing.T) {
	txs := []core.Transaction{
		tx(3, "x", core.Expense, 2000),
		tx(1, "x", core.Expense, 1000),
		tx(2, "salary", core.Income, 99900),
		tx(2, "x", core.Expense, 500),
	}
	got := CumulativeSpending(txs)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	wantDays := []int{1, 2, 3}
	wantRunning := []int64{1000, 1500, 3500}
	for i, p := range got {
		if p.Date.Day() != wantDays[i] || p.RunningTotal.Cents != wantRunning[i] {
			t.Fatalf("point %d = %+v, want day %d running %d", i, p, wantDays[i], wantRunning[i])
		}
	}
}

func TestCumulativeSpendingStableOnTies(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: core.NewDate(2025, 3, 2), Type: core.Expense, Amount: core.Money{Cents: 100}},
		{ID: 2, Date: core.NewDate(2025, 3, 1), Type: core.Expense, Amount: core.Money{Cents: 200}},
		{ID: 3, Date: core.NewDate(2025, 3, 2), Type: core.Expense, Amount: core.Money{Cents: 300}},
	}
	got := CumulativeSpending(txs)
	if got[1].Amount.Cents != 100 || got[2].Amount.Cents != 300 {
		t.Fatalf("tie order not preserved: %+v", got)
	}
	if txs[0].ID != 1 || txs[1].ID != 2 {
		t.Fatalf("input slice was reordered")
	}
}

func TestBuildDashboard(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "Salary", core.Income, 50000),
		tx(2, "Food", core.Expense, 20000),
		tx(3, "Rent", core.Expense, 15000),
	}
	d := BuildDashboard(txs, core.Money{Cents: 30000})
	if d.TotalIncome.Cents != 50000 || d.TotalExpenses.Cents != 35000 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if d.Overview.RemainingBudget.Cents != -5000 {
		t.Fatalf("unexpected remaining %v", d.Overview.RemainingBudget)
	}
	if d.OverBudget == nil || d.OverBudget.Cents != 5000 {
		t.Fatalf("expected over budget alert of 50.00, got %v", d.OverBudget)
	}
	if len(d.ExpenseByCategory) != 2 || len(d.IncomeByCategory) != 1 || len(d.CumulativeSpending) != 2 {
		t.Fatalf("unexpected series %+v", d)
	}

	empty := BuildDashboard(nil, core.Money{})
	if empty.OverBudget != nil || len(empty.CumulativeSpending) != 0 {
		t.Fatalf("unexpected empty dashboard %+v", empty)
	}
}
