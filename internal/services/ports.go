package services

import (
	"context"

	"finny/internal/core"
)

// Ports for outbound adapters.
type (
	CredentialStore interface {
		CreateUser(ctx context.Context, username, passkey string) error
		GetUser(ctx context.Context, username string) (core.User, error)
		UserExists(ctx context.Context, username string) (bool, error)
	}

	BudgetStore interface {
		GetBudget(ctx context.Context, username string) (core.Money, error)
		UpsertBudget(ctx context.Context, username string, amount core.Money) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
		DeleteTransaction(ctx context.Context, username string, id int64) error
		ListTransactions(ctx context.Context, username string) ([]core.Transaction, error)
	}

	ReminderStore interface {
		CreateReminder(ctx context.Context, b core.BillReminder) (int64, error)
		DeleteReminder(ctx context.Context, username string, id int64) error
		ListReminders(ctx context.Context, username string) ([]core.BillReminder, error)
		ListAllReminders(ctx context.Context) ([]core.BillReminder, error)
	}

	// Store is everything the finance service persists.
	Store interface {
		CredentialStore
		BudgetStore
		TransactionStore
		ReminderStore
	}

	// Notifier delivers out-of-band notices. Implementations must not block
	// for long; failures are logged by callers and never fail an operation.
	Notifier interface {
		NotifyOverBudget(ctx context.Context, username string, expenses, budget, overage core.Money) error
		NotifyBillDue(ctx context.Context, reminder core.BillReminder, due core.Date) error
	}
)
