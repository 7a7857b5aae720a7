package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"civicfund/internal/domain"
	"civicfund/internal/middleware"
	"civicfund/internal/service"
	"civicfund/internal/session"
)

const maxBodyBytes = 1 << 20

// IdentityVerifier confirms an identity-provider token.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (domain.Identity, error)
}

type App struct {
	Issues    *service.IssueService
	Ledger    *service.Ledger
	Board     *service.Leaderboard
	Community *service.Community
	Sessions  *session.Manager
	Verifier  IdentityVerifier
	Logger    zerolog.Logger
	Started   time.Time
}

type errorBody struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, errorBody{Error: errCode, Message: msg})
}

// fail maps a service error onto its HTTP status. Internal details are only
// logged.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	rid := middleware.RequestIDFromContext(r.Context())
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusBadRequest, errorBody{Error: "validation_failed", Message: "invalid input", Fields: verr.Fields, RequestID: rid})
	case errors.Is(err, domain.ErrValidation):
		a.json(w, http.StatusBadRequest, errorBody{Error: "validation_failed", Message: "invalid input", RequestID: rid})
	case errors.Is(err, domain.ErrUnauthenticated):
		a.json(w, http.StatusUnauthorized, errorBody{Error: "unauthenticated", Message: "sign in required", RequestID: rid})
	case errors.Is(err, domain.ErrForbidden):
		a.json(w, http.StatusForbidden, errorBody{Error: "forbidden", Message: "not allowed", RequestID: rid})
	case errors.Is(err, domain.ErrNotFound):
		a.json(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "not found", RequestID: rid})
	case errors.Is(err, domain.ErrTransport):
		a.Logger.Warn().Err(err).Str("request_id", rid).Msg("store unavailable")
		w.Header().Set("Retry-After", "1")
		a.json(w, http.StatusServiceUnavailable, errorBody{Error: "unavailable", Message: "storage temporarily unavailable", RequestID: rid})
	default:
		a.Logger.Error().Err(err).Str("request_id", rid).Msg("request failed")
		a.json(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error", RequestID: rid})
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// queryLimit reads an optional positive ?limit=. Zero means "use the default".
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &domain.ValidationError{Fields: map[string]string{"limit": "must be a non-negative integer"}}
	}
	return n, nil
}

func currentIdentity(r *http.Request) *domain.Identity {
	return session.IdentityFromContext(r.Context())
}
