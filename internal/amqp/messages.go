package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finny/internal/core"
)

// Message kinds, carried in the AMQP Type property.
const (
	KindBudgetAlert = "budget.alert"
	KindBillDue     = "bill.due"
)

// BudgetAlertMessage is published when a user's expenses exceed their budget.
type BudgetAlertMessage struct {
	Username  string     `json:"username"`
	Expenses  core.Money `json:"expenses"`
	Budget    core.Money `json:"budget"`
	Overage   core.Money `json:"overage"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewBudgetAlertMessage(username string, expenses, budget, overage core.Money) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Username:  username,
		Expenses:  expenses,
		Budget:    budget,
		Overage:   overage,
		Timestamp: time.Now().UTC(),
	}
}

// BillDueMessage announces an upcoming occurrence of a bill reminder.
type BillDueMessage struct {
	ReminderID int64          `json:"reminder_id"`
	Username   string         `json:"username"`
	BillName   string         `json:"bill_name"`
	Amount     core.Money     `json:"amount"`
	DueDate    core.Date      `json:"due_date"`
	Frequency  core.Frequency `json:"frequency"`
	Timestamp  time.Time      `json:"timestamp"`
}

func NewBillDueMessage(r core.BillReminder, due core.Date) *BillDueMessage {
	return &BillDueMessage{
		ReminderID: r.ID,
		Username:   r.Username,
		BillName:   r.BillName,
		Amount:     r.Amount,
		DueDate:    due,
		Frequency:  r.Frequency,
		Timestamp:  time.Now().UTC(),
	}
}

// Delivery is a received message before decoding.
type Delivery struct {
	Kind string
	Body []byte
}

// BudgetAlert decodes d, which must be of KindBudgetAlert.
func (d Delivery) BudgetAlert() (*BudgetAlertMessage, error) {
	if d.Kind != KindBudgetAlert {
		return nil, fmt.Errorf("message kind %q is not %q", d.Kind, KindBudgetAlert)
	}
	var msg BudgetAlertMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return nil, fmt.Errorf("decode budget alert: %w", err)
	}
	return &msg, nil
}

// BillDue decodes d, which must be of KindBillDue.
func (d Delivery) BillDue() (*BillDueMessage, error) {
	if d.Kind != KindBillDue {
		return nil, fmt.Errorf("message kind %q is not %q", d.Kind, KindBillDue)
	}
	var msg BillDueMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return nil, fmt.Errorf("decode bill due: %w", err)
	}
	return &msg, nil
}
