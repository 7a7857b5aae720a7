package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if !a.Started.IsZero() {
		resp.Uptime = time.Since(a.Started).Round(time.Second).String()
	}
	a.json(w, http.StatusOK, resp)
}
