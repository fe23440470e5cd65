package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finny/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; every store operation is a single statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// CreateUser inserts a credential row. passkey is stored as given; hashing
// is the caller's concern.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passkey string) error {
	_, err := r.db.ExecContext(ctx, createUserSQL, username, passkey)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("create user %q: %w", username, core.ErrDuplicateUser)
		}
		return unavailable("create user", err)
	}
	slog.InfoContext(ctx, "User saved to SQLite", "username", username)
	return nil
}

// GetUser returns core.ErrNotFound for an unknown username.
func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (core.User, error) {
	u := core.User{}
	err := r.db.QueryRowContext(ctx, getUserSQL, username).Scan(&u.Username, &u.Passkey)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, unavailable("get user", err)
	}
	return u, nil
}

// UserExists reports whether username is registered.
func (r *SQLiteRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUserSQL, username).Scan(&n); err != nil {
		return false, unavailable("count user", err)
	}
	return n > 0, nil
}

// GetBudget returns zero when no budget row exists.
func (r *SQLiteRepository) GetBudget(ctx context.Context, username string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, getBudgetSQL, username).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, unavailable("get budget", err)
	}
	return core.Money{Cents: cents}, nil
}

// UpsertBudget replaces the user's single budget row in one statement.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, username string, amount core.Money) error {
	_, err := r.db.ExecContext(ctx, upsertBudgetSQL, username, amount.Cents)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("budget for unknown user %q: %w", username, core.ErrInvalidInput)
		}
		return unavailable("upsert budget", err)
	}
	slog.InfoContext(ctx, "Budget saved to SQLite", "username", username, "amount_cents", amount.Cents)
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, createTransactionSQL,
		t.Username, t.Date.String(), t.Category, string(t.Type), t.Amount.Cents,
	).Scan(&id)
	if err != nil {
		if isConstraint(err) {
			return 0, fmt.Errorf("transaction for unknown user %q: %w", t.Username, core.ErrInvalidInput)
		}
		return 0, unavailable("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"username", t.Username,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return id, nil
}

// DeleteTransaction removes the row if it belongs to username. A missing id
// is not an error.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, username string, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteTransactionSQL, id, username)
	if err != nil {
		return unavailable("delete transaction", err)
	}
	n, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id, "username", username, "rows", n)
	return nil
}

// GetTransaction returns core.ErrNotFound when the id does not exist for username.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, username string, id int64) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, getTransactionSQL, id, username))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, unavailable("get transaction", err)
	}
	return t, nil
}

// ListTransactions returns the user's rows in insertion order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, listTransactionsSQL, username)
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, unavailable("scan transaction", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate transactions", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) CreateReminder(ctx context.Context, b core.BillReminder) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, createReminderSQL,
		b.Username, b.BillName, b.Amount.Cents, b.DueDate.String(), string(b.Frequency),
	).Scan(&id)
	if err != nil {
		if isConstraint(err) {
			return 0, fmt.Errorf("reminder for unknown user %q: %w", b.Username, core.ErrInvalidInput)
		}
		return 0, unavailable("create reminder", err)
	}

	slog.InfoContext(ctx, "Bill reminder saved to SQLite",
		"id", id,
		"username", b.Username,
		"bill_name", b.BillName,
		"amount_cents", b.Amount.Cents,
		"due_date", b.DueDate.String(),
		"frequency", b.Frequency)

	return id, nil
}

// DeleteReminder has the same idempotent contract as DeleteTransaction.
func (r *SQLiteRepository) DeleteReminder(ctx context.Context, username string, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReminderSQL, id, username)
	if err != nil {
		return unavailable("delete reminder", err)
	}
	n, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Bill reminder deleted from SQLite", "id", id, "username", username, "rows", n)
	return nil
}

func (r *SQLiteRepository) ListReminders(ctx context.Context, username string) ([]core.BillReminder, error) {
	return r.queryReminders(ctx, listRemindersSQL, username)
}

// ListAllReminders returns every user's reminders, for the background scanner.
func (r *SQLiteRepository) ListAllReminders(ctx context.Context) ([]core.BillReminder, error) {
	return r.queryReminders(ctx, listAllRemindersSQL)
}

func (r *SQLiteRepository) queryReminders(ctx context.Context, query string, args ...any) ([]core.BillReminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list reminders", err)
	}
	defer rows.Close()

	out := []core.BillReminder{}
	for rows.Next() {
		var (
			b         core.BillReminder
			due, freq string
		)
		if err := rows.Scan(&b.ID, &b.Username, &b.BillName, &b.Amount.Cents, &due, &freq); err != nil {
			return nil, unavailable("scan reminder", err)
		}
		if b.DueDate, err = core.ParseDate(due); err != nil {
			return nil, fmt.Errorf("reminder %d: %w", b.ID, err)
		}
		b.Frequency = core.Frequency(freq)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate reminders", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		date, kind string
	)
	if err := row.Scan(&t.ID, &t.Username, &date, &t.Category, &kind, &t.Amount.Cents); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	t.Date = d
	t.Type = core.TransactionType(kind)
	return t, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}

// isConstraint matches any SQLITE_CONSTRAINT result, extended or primary.
func isConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
