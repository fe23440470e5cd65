package services

import (
	"fmt"
	"sort"
	"time"

	"finny/internal/core"
)

// Scheduler computes the next occurrence of a recurring bill. Each
// frequency has its own implementation.
type Scheduler interface {
	// Next returns the first occurrence of a bill anchored at due that falls
	// on or after from. Callers guarantee due is before from.
	Next(due, from core.Date) core.Date
}

type WeeklyScheduler struct{}

func (WeeklyScheduler) Next(due, from core.Date) core.Date {
	days := int(from.Sub(due.Time).Hours() / 24)
	weeks := (days + 6) / 7
	return due.AddDays(weeks * 7)
}

// MonthlyScheduler keeps the day of month, clamped to the month's last day.
type MonthlyScheduler struct{}

func (MonthlyScheduler) Next(due, from core.Date) core.Date {
	year, month := from.Year(), from.Month()
	for {
		candidate := clampedDate(year, month, due.Day())
		if !candidate.Before(from.Time) {
			return candidate
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
}

// YearlyScheduler keeps month and day; Feb 29 falls on Feb 28 in common years.
type YearlyScheduler struct{}

func (YearlyScheduler) Next(due, from core.Date) core.Date {
	candidate := clampedDate(from.Year(), due.Month(), due.Day())
	if candidate.Before(from.Time) {
		candidate = clampedDate(from.Year()+1, due.Month(), due.Day())
	}
	return candidate
}

func clampedDate(year int, month time.Month, day int) core.Date {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return core.NewDate(year, int(month), day)
}

var schedulers = map[core.Frequency]Scheduler{
	core.Weekly:  WeeklyScheduler{},
	core.Monthly: MonthlyScheduler{},
	core.Yearly:  YearlyScheduler{},
}

// SchedulerFor returns the scheduler for a frequency.
func SchedulerFor(freq core.Frequency) (Scheduler, error) {
	s, ok := schedulers[freq]
	if !ok {
		return nil, fmt.Errorf("%w: unknown frequency %q", core.ErrInvalidInput, freq)
	}
	return s, nil
}

// NextDue returns the first occurrence of the reminder on or after the
// calendar day of now. A due date that has not passed yet is returned as is.
func NextDue(r core.BillReminder, now time.Time) (core.Date, error) {
	s, err := SchedulerFor(r.Frequency)
	if err != nil {
		return core.Date{}, err
	}
	today := core.DateOf(now)
	if !r.DueDate.Before(today.Time) {
		return r.DueDate, nil
	}
	return s.Next(r.DueDate, today), nil
}

// UpcomingReminder pairs a reminder with its next due date.
type UpcomingReminder struct {
	Reminder core.BillReminder `json:"reminder"`
	NextDue  core.Date         `json:"next_due"`
}

// UpcomingReminders returns the reminders whose next due date lies within
// [today, today+horizon], ordered by that date. Reminders due on the same
// day keep their input order. Reminders with an unknown frequency are skipped.
func UpcomingReminders(reminders []core.BillReminder, now time.Time, horizon time.Duration) []UpcomingReminder {
	today := core.DateOf(now)
	limit := core.DateOf(now.Add(horizon))

	out := []UpcomingReminder{}
	for _, r := range reminders {
		next, err := NextDue(r, now)
		if err != nil {
			continue
		}
		if next.After(limit.Time) || next.Before(today.Time) {
			continue
		}
		out = append(out, UpcomingReminder{Reminder: r, NextDue: next})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextDue.Before(out[j].NextDue.Time)
	})
	return out
}
