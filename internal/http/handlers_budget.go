package http

import (
	"net/http"

	"finny/internal/core"
)

type budgetBody struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, budgetBody{Amount: sessionFrom(r).Budget()})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetBudget(r.Context(), req.Amount); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetBody{Amount: sess.Budget()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Dashboard())
}
