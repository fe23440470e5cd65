package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finny/internal/core"
	"finny/internal/log"
)

// AddReminder validates and stores a bill reminder, returning its id.
func (f *Finance) AddReminder(ctx context.Context, username, billName string, amount core.Money, dueDate core.Date, freq core.Frequency) (int64, error) {
	b := core.BillReminder{
		Username:  username,
		BillName:  strings.TrimSpace(billName),
		Amount:    amount,
		DueDate:   dueDate,
		Frequency: freq,
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	id, err := f.store.CreateReminder(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("add reminder: %w", err)
	}

	f.component(log.ComponentReminders).Operation(ctx, log.OpCreate, nil,
		log.FieldUsername, username,
		log.FieldID, id,
		log.FieldBillName, b.BillName,
		log.FieldAmount, amount.String(),
		log.FieldDate, dueDate.String(),
		log.FieldFrequency, string(freq))
	return id, nil
}

// DeleteReminder removes one of username's reminders. Unknown ids succeed.
func (f *Finance) DeleteReminder(ctx context.Context, username string, id int64) error {
	if err := f.store.DeleteReminder(ctx, username, id); err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	f.component(log.ComponentReminders).Operation(ctx, log.OpDelete, nil,
		log.FieldUsername, username,
		log.FieldID, id)
	return nil
}

func (f *Finance) ListReminders(ctx context.Context, username string) ([]core.BillReminder, error) {
	rs, err := f.store.ListReminders(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return rs, nil
}

// UpcomingReminders lists username's reminders due within horizon of now.
func (f *Finance) UpcomingReminders(ctx context.Context, username string, now time.Time, horizon time.Duration) ([]UpcomingReminder, error) {
	rs, err := f.ListReminders(ctx, username)
	if err != nil {
		return nil, err
	}
	return UpcomingReminders(rs, now, horizon), nil
}
