package handlers

import "net/http"

func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Community.Users(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, users)
}

// RegisterUser puts the caller on the roster. The body is ignored: the roster
// entry always comes from the session identity.
func (a *App) RegisterUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.Community.Register(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, user)
}
