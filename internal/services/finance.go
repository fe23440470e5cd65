// Package services implements the credential, budget and ledger operations
// on top of a Store, plus the per-login Session working set.
package services

import (
	"golang.org/x/crypto/bcrypt"

	"finny/internal/log"
)

// Finance orchestrates store operations and out-of-band notifications.
type Finance struct {
	store    Store
	notifier Notifier
	logger   *log.Logger
	hashCost int
}

// Option customizes a Finance service.
type Option func(*Finance)

// WithHashCost sets the bcrypt cost used for new passkeys.
func WithHashCost(cost int) Option {
	return func(f *Finance) {
		f.hashCost = cost
	}
}

// NewFinance wires a Finance service. notifier may be nil to disable
// notifications; logger may be nil to use the default text logger.
func NewFinance(store Store, notifier Notifier, logger *log.Logger, opts ...Option) *Finance {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	f := &Finance{
		store:    store,
		notifier: notifier,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Finance) component(name string) *log.Logger {
	return f.logger.WithComponent(name)
}
