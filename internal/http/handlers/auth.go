package handlers

import (
	"context"
	"net/http"
	"time"

	"civicfund/internal/domain"
	"civicfund/internal/session"
)

type googleSignInRequest struct {
	IDToken    string `json:"idToken"`
	IDTokenAlt string `json:"id_token"`
	Credential string `json:"credential"`
}

type signInResponse struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}

// AuthGoogle exchanges a Google ID token for a session token and records the
// user on the roster.
func (a *App) AuthGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if !a.decode(w, r, &req) {
		return
	}
	idToken := first(req.IDToken, req.IDTokenAlt, req.Credential)
	if idToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "idToken required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	identity, err := a.Verifier.Verify(ctx, idToken)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("google verify failed")
		a.error(w, http.StatusUnauthorized, "unauthenticated", "invalid google token")
		return
	}
	user, err := a.Community.RecordSignIn(r.Context(), identity)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	identity.ID = user.ID
	token, sc, err := a.Sessions.SignIn(r.Context(), identity)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, signInResponse{Token: token, User: sc.CurrentIdentity()})
}

// SignOut ends the caller's session. Anonymous callers get 204 too.
func (a *App) SignOut(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	if sc.CurrentIdentity() != nil {
		if err := a.Sessions.SignOut(r.Context(), sc.Token()); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	identity := currentIdentity(r)
	if identity == nil {
		a.fail(w, r, domain.ErrUnauthenticated)
		return
	}
	a.json(w, http.StatusOK, identity)
}
