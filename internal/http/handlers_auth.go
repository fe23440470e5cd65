package http

import (
	"context"
	"net/http"

	"finny/internal/core"
	"finny/internal/log"
	"finny/internal/services"
)

type ctxKey int

const sessionKey ctxKey = iota

type credentialsRequest struct {
	Username string `json:"username"`
	Passkey  string `json:"passkey"`
}

// requireSession resolves the session cookie, rejecting the request with
// 401 when it is missing or expired. A session whose last reload failed is
// refreshed first.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			writeError(w, r, core.ErrAuthFailed)
			return
		}
		sess, ok := s.sessions.Get(c.Value)
		if !ok {
			clearSessionCookie(w, r)
			writeError(w, r, core.ErrAuthFailed)
			return
		}
		if err := sess.RefreshIfStale(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Serving stale working set", log.FieldError, err)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *services.Session {
	return r.Context().Value(sessionKey).(*services.Session)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	username := sanitizeInput(req.Username)
	if err := s.finance.Register(r.Context(), username, req.Passkey); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := s.finance.Authenticate(r.Context(), sanitizeInput(req.Username), req.Passkey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token := s.sessions.Create(sess)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"username": sess.Username()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.Delete(r.Context(), c.Value)
	}
	clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
