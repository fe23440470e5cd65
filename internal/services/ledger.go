package services

import (
	"context"
	"fmt"
	"strings"

	"finny/internal/core"
	"finny/internal/log"
	"finny/internal/report"
)

// AddTransaction validates and stores a transaction, returning its id.
// When an expense pushes the user over a positive budget, an over-budget
// notice is sent; notifier failures are logged only.
func (f *Finance) AddTransaction(ctx context.Context, username string, date core.Date, category string, kind core.TransactionType, amount core.Money) (int64, error) {
	t := core.Transaction{
		Username: username,
		Date:     date,
		Category: strings.TrimSpace(category),
		Type:     kind,
		Amount:   amount,
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := f.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}

	f.component(log.ComponentLedger).Operation(ctx, log.OpCreate, nil,
		log.FieldUsername, username,
		log.FieldID, id,
		log.FieldType, string(kind),
		log.FieldCategory, t.Category,
		log.FieldAmount, amount.String(),
		log.FieldDate, date.String())

	if kind == core.Expense {
		f.checkBudget(ctx, username)
	}
	return id, nil
}

// DeleteTransaction removes one of username's transactions. Unknown ids
// succeed without effect.
func (f *Finance) DeleteTransaction(ctx context.Context, username string, id int64) error {
	if err := f.store.DeleteTransaction(ctx, username, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	f.component(log.ComponentLedger).Operation(ctx, log.OpDelete, nil,
		log.FieldUsername, username,
		log.FieldID, id)
	return nil
}

// ListTransactions returns username's transactions in insertion order.
func (f *Finance) ListTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	txs, err := f.store.ListTransactions(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (f *Finance) checkBudget(ctx context.Context, username string) {
	if f.notifier == nil {
		return
	}
	logger := f.component(log.ComponentBudget)

	budget, err := f.store.GetBudget(ctx, username)
	if err != nil {
		logger.WarnContext(ctx, "Budget check skipped", log.FieldUsername, username, log.FieldError, err)
		return
	}
	if budget.IsZero() {
		return
	}
	txs, err := f.store.ListTransactions(ctx, username)
	if err != nil {
		logger.WarnContext(ctx, "Budget check skipped", log.FieldUsername, username, log.FieldError, err)
		return
	}

	expenses := report.TotalByType(txs, core.Expense)
	overage, over := report.OverBudgetAlert(expenses, budget)
	if !over {
		return
	}

	err = f.notifier.NotifyOverBudget(ctx, username, expenses, budget, overage)
	logger.Operation(ctx, log.OpNotify, err,
		log.FieldUsername, username,
		"expenses", expenses.String(),
		"budget", budget.String(),
		"overage", overage.String())
}
