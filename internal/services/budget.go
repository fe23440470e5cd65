package services

import (
	"context"
	"fmt"

	"finny/internal/core"
	"finny/internal/log"
)

// GetBudget returns the user's budget, zero when never set.
func (f *Finance) GetBudget(ctx context.Context, username string) (core.Money, error) {
	b, err := f.store.GetBudget(ctx, username)
	if err != nil {
		return core.Money{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// SetBudget overwrites the user's budget. Non-positive amounts are rejected
// with ErrInvalidAmount and leave the stored value untouched.
func (f *Finance) SetBudget(ctx context.Context, username string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := f.store.UpsertBudget(ctx, username, amount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	f.component(log.ComponentBudget).Operation(ctx, log.OpSetBudget, nil,
		log.FieldUsername, username,
		log.FieldAmount, amount.String())
	return nil
}
