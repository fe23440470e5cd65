// Package worker turns queued notifications into user-facing notices.
package worker

import (
	"context"
	"fmt"

	"finny/internal/amqp"
	"finny/internal/log"
)

// Notice is a rendered message for one user.
type Notice struct {
	Username string
	Subject  string
	Body     string
}

// Sink delivers rendered notices. Returning an error requeues the message.
type Sink interface {
	Deliver(ctx context.Context, n Notice) error
}

// LogSink writes notices to the log; it stands in for a mail or push
// integration.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Deliver(ctx context.Context, n Notice) error {
	s.Logger.InfoContext(ctx, "Notice delivered",
		log.FieldUsername, n.Username,
		"subject", n.Subject,
		"body", n.Body)
	return nil
}

// NotificationWorker renders queued budget alerts and bill-due messages.
type NotificationWorker struct {
	sink   Sink
	logger *log.Logger
}

func NewNotificationWorker(sink Sink, logger *log.Logger) *NotificationWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentWorker)
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	return &NotificationWorker{sink: sink, logger: logger}
}

// Handle processes one delivery. Messages that cannot be decoded or have an
// unknown kind are dropped, since retrying them can never succeed.
func (w *NotificationWorker) Handle(ctx context.Context, d amqp.Delivery) error {
	n, err := render(d)
	if err != nil {
		w.logger.ErrorContext(ctx, "Dropping undecodable message", log.FieldType, d.Kind, log.FieldError, err)
		return nil
	}
	if err := w.sink.Deliver(ctx, n); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", d.Kind, n.Username, err)
	}
	return nil
}

func render(d amqp.Delivery) (Notice, error) {
	switch d.Kind {
	case amqp.KindBudgetAlert:
		msg, err := d.BudgetAlert()
		if err != nil {
			return Notice{}, err
		}
		return Notice{
			Username: msg.Username,
			Subject:  "Budget exceeded",
			Body: fmt.Sprintf("Your expenses of %s exceed your budget of %s by %s.",
				msg.Expenses, msg.Budget, msg.Overage),
		}, nil

	case amqp.KindBillDue:
		msg, err := d.BillDue()
		if err != nil {
			return Notice{}, err
		}
		return Notice{
			Username: msg.Username,
			Subject:  fmt.Sprintf("%s is due %s", msg.BillName, msg.DueDate),
			Body: fmt.Sprintf("Your %s bill %q of %s is due on %s.",
				msg.Frequency, msg.BillName, msg.Amount, msg.DueDate),
		}, nil
	}
	return Notice{}, fmt.Errorf("unknown message kind %q", d.Kind)
}
