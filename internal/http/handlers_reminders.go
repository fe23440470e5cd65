package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finny/internal/core"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 366
)

type reminderRequest struct {
	BillName  string     `json:"bill_name"`
	Amount    core.Money `json:"amount"`
	DueDate   core.Date  `json:"due_date"`
	Frequency string     `json:"frequency"`
}

type reminderResponse struct {
	ID        int64          `json:"id"`
	BillName  string         `json:"bill_name"`
	Amount    core.Money     `json:"amount"`
	DueDate   core.Date      `json:"due_date"`
	Frequency core.Frequency `json:"frequency"`
	NextDue   *core.Date     `json:"next_due,omitempty"`
}

func toReminderResponse(b core.BillReminder) reminderResponse {
	return reminderResponse{
		ID:        b.ID,
		BillName:  b.BillName,
		Amount:    b.Amount,
		DueDate:   b.DueDate,
		Frequency: b.Frequency,
	}
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	rs, err := sessionFrom(r).ListReminders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reminderResponse, 0, len(rs))
	for _, b := range rs {
		out = append(out, toReminderResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	freq, err := core.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := sessionFrom(r).AddReminder(r.Context(), sanitizeInput(req.BillName), req.Amount, req.DueDate, freq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := sessionFrom(r).DeleteReminder(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpcomingReminders lists reminders due within ?days= days (default 7).
func (s *Server) handleUpcomingReminders(w http.ResponseWriter, r *http.Request) {
	days := s.upcomingDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxUpcomingDays {
			writeError(w, r, fmt.Errorf("%w: days must be between 0 and %d", core.ErrInvalidInput, maxUpcomingDays))
			return
		}
		days = n
	}

	upcoming, err := sessionFrom(r).UpcomingReminders(r.Context(), s.now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reminderResponse, 0, len(upcoming))
	for _, u := range upcoming {
		resp := toReminderResponse(u.Reminder)
		next := u.NextDue
		resp.NextDue = &next
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}
