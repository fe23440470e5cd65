package http

import (
	"net/http"

	"finny/internal/core"
)

type transactionRequest struct {
	Date     core.Date  `json:"date"`
	Category string     `json:"category"`
	Type     string     `json:"type"`
	Amount   core.Money `json:"amount"`
}

type transactionResponse struct {
	ID       int64                `json:"id"`
	Date     core.Date            `json:"date"`
	Category string               `json:"category"`
	Type     core.TransactionType `json:"type"`
	Amount   core.Money           `json:"amount"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionResponse{
			ID:       t.ID,
			Date:     t.Date,
			Category: t.Category,
			Type:     t.Type,
			Amount:   t.Amount,
		})
	}
	return out
}

// handleListTransactions serves the session's cached working set.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransactionResponses(sessionFrom(r).Transactions()))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := sessionFrom(r).AddTransaction(r.Context(), req.Date, sanitizeInput(req.Category), kind, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := sessionFrom(r).DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
