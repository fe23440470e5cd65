package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"finny/internal/amqp"
	"finny/internal/core"
	"finny/internal/log"
)

type recordingSink struct {
	notices []Notice
	err     error
}

func (s *recordingSink) Deliver(_ context.Context, n Notice) error {
	if s.err != nil {
		return s.err
	}
	s.notices = append(s.notices, n)
	return nil
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
}

func delivery(t *testing.T, kind string, msg any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return amqp.Delivery{Kind: kind, Body: body}
}

func TestNotificationWorker_Handle(t *testing.T) {
	reminder := core.BillReminder{ID: 3, Username: "bob", BillName: "Rent", Amount: core.Money{Cents: 90000}, Frequency: core.Monthly}

	tests := []struct {
		name        string
		delivery    amqp.Delivery
		wantUser    string
		wantSubject string
		wantBody    string
	}{
		{
			name: "budget alert",
			delivery: delivery(t, amqp.KindBudgetAlert,
				amqp.NewBudgetAlertMessage("alice", core.Money{Cents: 12050}, core.Money{Cents: 10000}, core.Money{Cents: 2050})),
			wantUser:    "alice",
			wantSubject: "Budget exceeded",
			wantBody:    "Your expenses of 120.50 exceed your budget of 100.00 by 20.50.",
		},
		{
			name:        "bill due",
			delivery:    delivery(t, amqp.KindBillDue, amqp.NewBillDueMessage(reminder, core.NewDate(2025, 2, 28))),
			wantUser:    "bob",
			wantSubject: "Rent is due 2025-02-28",
			wantBody:    `Your Monthly bill "Rent" of 900.00 is due on 2025-02-28.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			w := NewNotificationWorker(sink, quietLogger())

			if err := w.Handle(context.Background(), tt.delivery); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if len(sink.notices) != 1 {
				t.Fatalf("got %d notices, want 1", len(sink.notices))
			}
			n := sink.notices[0]
			if n.Username != tt.wantUser || n.Subject != tt.wantSubject || n.Body != tt.wantBody {
				t.Errorf("notice = %+v", n)
			}
		})
	}
}

func TestNotificationWorker_DropsPoisonMessages(t *testing.T) {
	sink := &recordingSink{}
	w := NewNotificationWorker(sink, quietLogger())

	for _, d := range []amqp.Delivery{
		{Kind: "expense.sync", Body: []byte(`{}`)},
		{Kind: amqp.KindBudgetAlert, Body: []byte(`{not json`)},
	} {
		if err := w.Handle(context.Background(), d); err != nil {
			t.Errorf("Handle(%s) error = %v, want nil", d.Kind, err)
		}
	}
	if len(sink.notices) != 0 {
		t.Errorf("got %d notices, want 0", len(sink.notices))
	}
}

func TestNotificationWorker_SinkFailureRequeues(t *testing.T) {
	sink := &recordingSink{err: errors.New("smtp down")}
	w := NewNotificationWorker(sink, quietLogger())

	d := delivery(t, amqp.KindBudgetAlert, amqp.NewBudgetAlertMessage("alice", core.Money{}, core.Money{}, core.Money{}))
	if err := w.Handle(context.Background(), d); err == nil {
		t.Fatal("expected error so the message is requeued")
	}
}

func TestNewNotificationWorker_DefaultsToLogSink(t *testing.T) {
	w := NewNotificationWorker(nil, quietLogger())
	if _, ok := w.sink.(LogSink); !ok {
		t.Fatalf("default sink is %T, want LogSink", w.sink)
	}
	d := delivery(t, amqp.KindBudgetAlert, amqp.NewBudgetAlertMessage("alice", core.Money{}, core.Money{}, core.Money{}))
	if err := w.Handle(context.Background(), d); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
}
