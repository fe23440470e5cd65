package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"1234567.89", 123456789, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		{"1000000000000", 100000000000000, true},
		{"1000000000000.01", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestMoneyStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "0.10", "19.99", "100.00", "123456.78"} {
		m, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if m.String() != s {
			t.Fatalf("round trip %q -> %q", s, m.String())
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 30000}
	b := Money{Cents: 35000}
	if got := a.Sub(b); got.Cents != -5000 || got.String() != "-50.00" {
		t.Fatalf("unexpected difference %v", got)
	}
	if got := a.Add(b); got.Cents != 65000 {
		t.Fatalf("unexpected sum %v", got)
	}
	if f := (Money{Cents: 1050}).Float(); f != 10.5 {
		t.Fatalf("unexpected float %v", f)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := (Money{Cents: 1234}).MarshalJSON()
	if err != nil || string(b) != `"12.34"` {
		t.Fatalf("unexpected encoding %s (err=%v)", b, err)
	}

	for in, want := range map[string]int64{`"12.34"`: 1234, `7.5`: 750, `"-5"`: -500} {
		var m Money
		if err := m.UnmarshalJSON([]byte(in)); err != nil || m.Cents != want {
			t.Fatalf("%s: got %d (err=%v), want %d", in, m.Cents, err, want)
		}
	}

	if err := json.Unmarshal([]byte(`"1000000000000.00"`), new(Money)); err != nil {
		t.Fatalf("largest amount rejected: %v", err)
	}

	for _, in := range []string{
		`"abc"`,
		`"184467440737095516.17"`,
		`"-184467440737095516.17"`,
		`"1000000000000.01"`,
		`1e30`,
	} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v (cents=%d)", in, err, m.Cents)
		}
	}
}

func TestMoneyValidateRange(t *testing.T) {
	cases := []struct {
		cents int64
		ok    bool
	}{
		{1, true},
		{MaxCents, true},
		{MaxCents + 1, false},
		{0, false},
		{-1, false},
	}
	for _, tc := range cases {
		err := Money{Cents: tc.cents}.Validate()
		if tc.ok != (err == nil) {
			t.Fatalf("Validate(%d) = %v, want ok=%v", tc.cents, err, tc.ok)
		}
	}
}
