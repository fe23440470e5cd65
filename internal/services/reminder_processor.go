package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"finny/internal/core"
	"finny/internal/log"
)

// ReminderLister is the store surface the reminder scan needs.
type ReminderLister interface {
	ListAllReminders(ctx context.Context) ([]core.BillReminder, error)
}

// ReminderProcessor sends bill-due notices for reminders coming up within
// the lookahead window. Each (reminder, due date) pair is announced once
// per process; entries for past due dates are forgotten on the next scan.
type ReminderProcessor struct {
	store     ReminderLister
	notifier  Notifier
	lookahead time.Duration
	logger    *log.Logger

	mu   sync.Mutex
	sent map[string]core.Date
}

func NewReminderProcessor(store ReminderLister, notifier Notifier, lookahead time.Duration, logger *log.Logger) *ReminderProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReminderProcessor{
		store:     store,
		notifier:  notifier,
		lookahead: lookahead,
		logger:    logger.WithComponent(log.ComponentWorker),
		sent:      make(map[string]core.Date),
	}
}

// ProcessDueReminders scans every reminder and notifies those due within the
// lookahead of now. It returns how many notices were sent.
func (p *ReminderProcessor) ProcessDueReminders(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.notifier == nil {
		return 0, errors.New("reminder processor not properly initialized")
	}

	reminders, err := p.store.ListAllReminders(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminders: %w", err)
	}

	p.forgetBefore(core.DateOf(now))

	upcoming := UpcomingReminders(reminders, now, p.lookahead)
	p.logger.InfoContext(ctx, "Scanning bill reminders",
		"total", len(reminders),
		"upcoming", len(upcoming),
		"scan_date", core.DateOf(now).String())

	sent := 0
	for _, u := range upcoming {
		key := noticeKey(u)
		if p.alreadySent(key) {
			continue
		}

		if err := p.notifier.NotifyBillDue(ctx, u.Reminder, u.NextDue); err != nil {
			p.logger.ErrorContext(ctx, "Failed to send bill due notice",
				log.FieldID, u.Reminder.ID,
				log.FieldUsername, u.Reminder.Username,
				log.FieldError, err)
			continue
		}

		p.markSent(key, u.NextDue)
		sent++
		p.logger.InfoContext(ctx, "Bill due notice sent",
			log.FieldID, u.Reminder.ID,
			log.FieldUsername, u.Reminder.Username,
			log.FieldBillName, u.Reminder.BillName,
			"next_due", u.NextDue.String())
	}

	p.logger.InfoContext(ctx, "Bill reminder scan complete", "sent", sent)
	return sent, nil
}

// Run scans once immediately and then every interval until ctx ends.
func (p *ReminderProcessor) Run(ctx context.Context, interval time.Duration) error {
	scan := func() {
		if _, err := p.ProcessDueReminders(ctx, time.Now()); err != nil {
			p.logger.ErrorContext(ctx, "Bill reminder scan failed", log.FieldError, err)
		}
	}

	scan()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			scan()
		}
	}
}

// noticeKey identifies one occurrence. Row ids can be reused after a delete,
// so the owner and bill name are part of the key.
func noticeKey(u UpcomingReminder) string {
	return fmt.Sprintf("%d/%s/%s@%s", u.Reminder.ID, u.Reminder.Username, u.Reminder.BillName, u.NextDue)
}

func (p *ReminderProcessor) alreadySent(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sent[key]
	return ok
}

func (p *ReminderProcessor) markSent(key string, due core.Date) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent[key] = due
}

func (p *ReminderProcessor) forgetBefore(today core.Date) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, due := range p.sent {
		if due.Before(today.Time) {
			delete(p.sent, key)
		}
	}
}
