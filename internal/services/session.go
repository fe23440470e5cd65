package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"finny/internal/core"
	"finny/internal/log"
	"finny/internal/report"
)

// Session is one user's logged-in working set: the transactions and budget
// as last loaded from storage. Every mutation made through the session
// reloads the whole set before returning. When that reload fails after the
// write committed, the write still succeeds and the session is marked stale
// until the next successful refresh.
type Session struct {
	finance  *Finance
	username string

	mu           sync.RWMutex
	transactions []core.Transaction
	budget       core.Money
	stale        bool
	closed       bool
}

func newSession(f *Finance, username string) *Session {
	return &Session{finance: f, username: username}
}

func (s *Session) Username() string {
	return s.username
}

// Transactions returns a copy of the cached working set.
func (s *Session) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

func (s *Session) Budget() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget
}

// Dashboard derives every report from the cached working set.
func (s *Session) Dashboard() report.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.BuildDashboard(s.transactions, s.budget)
}

// Refresh reloads transactions and budget from storage.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrAuthFailed
	}
	return s.reload(ctx)
}

func (s *Session) reload(ctx context.Context) error {
	txs, err := s.finance.ListTransactions(ctx, s.username)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	budget, err := s.finance.GetBudget(ctx, s.username)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	s.transactions = txs
	s.budget = budget
	s.stale = false

	s.finance.component(log.ComponentSession).DebugContext(ctx, "Session refreshed",
		log.FieldOperation, log.OpRefresh,
		log.FieldUsername, s.username,
		"transactions", len(txs))
	return nil
}

// mutate runs fn under the write lock and reloads the working set when fn
// succeeds. A failed reload does not fail the committed write.
func (s *Session) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrAuthFailed
	}
	if err := fn(); err != nil {
		return err
	}
	if err := s.reload(ctx); err != nil {
		s.stale = true
		s.finance.component(log.ComponentSession).WarnContext(ctx, "Working set left stale after write",
			log.FieldOperation, log.OpRefresh,
			log.FieldUsername, s.username,
			log.FieldError, err)
	}
	return nil
}

// Stale reports whether the cached working set missed a reload.
func (s *Session) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// RefreshIfStale reloads the working set only when a previous reload failed.
func (s *Session) RefreshIfStale(ctx context.Context) error {
	if !s.Stale() {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Session) AddTransaction(ctx context.Context, date core.Date, category string, kind core.TransactionType, amount core.Money) (int64, error) {
	var id int64
	err := s.mutate(ctx, func() error {
		var err error
		id, err = s.finance.AddTransaction(ctx, s.username, date, category, kind, amount)
		return err
	})
	return id, err
}

func (s *Session) DeleteTransaction(ctx context.Context, id int64) error {
	return s.mutate(ctx, func() error {
		return s.finance.DeleteTransaction(ctx, s.username, id)
	})
}

func (s *Session) SetBudget(ctx context.Context, amount core.Money) error {
	return s.mutate(ctx, func() error {
		return s.finance.SetBudget(ctx, s.username, amount)
	})
}

// Reminders are not cached; these calls go straight to storage.

func (s *Session) AddReminder(ctx context.Context, billName string, amount core.Money, dueDate core.Date, freq core.Frequency) (int64, error) {
	if s.isClosed() {
		return 0, core.ErrAuthFailed
	}
	return s.finance.AddReminder(ctx, s.username, billName, amount, dueDate, freq)
}

func (s *Session) DeleteReminder(ctx context.Context, id int64) error {
	if s.isClosed() {
		return core.ErrAuthFailed
	}
	return s.finance.DeleteReminder(ctx, s.username, id)
}

func (s *Session) ListReminders(ctx context.Context) ([]core.BillReminder, error) {
	if s.isClosed() {
		return nil, core.ErrAuthFailed
	}
	return s.finance.ListReminders(ctx, s.username)
}

func (s *Session) UpcomingReminders(ctx context.Context, now time.Time, horizon time.Duration) ([]UpcomingReminder, error) {
	if s.isClosed() {
		return nil, core.ErrAuthFailed
	}
	return s.finance.UpcomingReminders(ctx, s.username, now, horizon)
}

// Logout drops the working set. Later calls fail with ErrAuthFailed.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.transactions = nil
	s.budget = core.Money{}
	s.finance.component(log.ComponentAuth).Operation(ctx, log.OpLogout, nil, log.FieldUsername, s.username)
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
