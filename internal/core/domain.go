package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

const (
	Monthly Frequency = "Monthly"
	Weekly  Frequency = "Weekly"
	Yearly  Frequency = "Yearly"
)

// PasskeyLength is the exact number of digits a passkey must have.
const PasskeyLength = 4

type (
	TransactionType string

	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		Username string
		Passkey  string
	}

	Transaction struct {
		ID       int64
		Username string
		Date     Date
		Category string
		Type     TransactionType
		Amount   Money
	}

	BillReminder struct {
		ID        int64
		Username  string
		BillName  string
		Amount    Money
		DueDate   Date
		Frequency Frequency
	}
)

var (
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidPasskey     = errors.New("passkey must be a 4-digit number")
	ErrAuthFailed         = errors.New("invalid username or passkey")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DateLayout is the on-disk and wire representation of a Date.
const DateLayout = "2006-01-02"

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidInput)
	}
	return nil
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts the canonical names case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, s)
}

func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Weekly, Yearly:
		return true
	}
	return false
}

// ParseFrequency accepts the canonical names case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return Monthly, nil
	case "weekly":
		return Weekly, nil
	case "yearly":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, s)
}

// ValidatePasskey checks the passkey is exactly four ASCII digits.
func ValidatePasskey(passkey string) error {
	if len(passkey) != PasskeyLength {
		return ErrInvalidPasskey
	}
	for i := 0; i < len(passkey); i++ {
		if passkey[i] < '0' || passkey[i] > '9' {
			return ErrInvalidPasskey
		}
	}
	return nil
}

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty username", ErrInvalidInput)
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidInput)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, t.Type)
	}
	if t.Amount.Cents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if t.Amount.Cents > MaxCents {
		return fmt.Errorf("%w: amount out of range", ErrInvalidInput)
	}
	return nil
}

func (b BillReminder) Validate() error {
	if strings.TrimSpace(b.BillName) == "" {
		return fmt.Errorf("%w: empty bill name", ErrInvalidInput)
	}
	if b.Amount.Cents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if b.Amount.Cents > MaxCents {
		return fmt.Errorf("%w: amount out of range", ErrInvalidInput)
	}
	if err := b.DueDate.Validate(); err != nil {
		return err
	}
	if !b.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, b.Frequency)
	}
	return nil
}
