package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MarshalJSON encodes money as a decimal string ("12.34").
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number. Sign is not
// checked here; validation belongs to the operation consuming the amount.
// Magnitudes above MaxCents are rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	cents, err := centsOf(d)
	if err != nil {
		return fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	m.Cents = cents
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidInput)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
