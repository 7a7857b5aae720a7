package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicfund/internal/domain"
)

// contributionRequest accepts both the ledger field names and the shorter
// ones the donation forms post.
type contributionRequest struct {
	IssueID          *string    `json:"issueId"`
	ContributorName  string     `json:"contributorName"`
	Name             string     `json:"name"`
	ContributorEmail string     `json:"contributorEmail"`
	Email            string     `json:"email"`
	Amount           flexString `json:"amount"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	AdditionalInfo   string     `json:"additionalInfo"`
}

func (req contributionRequest) input() domain.ContributionInput {
	return domain.ContributionInput{
		IssueID:          req.IssueID,
		ContributorName:  first(req.ContributorName, req.Name),
		ContributorEmail: first(req.ContributorEmail, req.Email),
		Amount:           string(req.Amount),
		Phone:            req.Phone,
		Address:          req.Address,
		AdditionalInfo:   req.AdditionalInfo,
	}
}

func (a *App) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.Ledger.Record(r.Context(), req.input())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, c)
}

// IssueContributions returns an issue's ledger with its running total.
func (a *App) IssueContributions(w http.ResponseWriter, r *http.Request) {
	ledger, err := a.Ledger.ListForIssue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, ledger)
}

// ListContributions reads the ledger by ?issueId= or by ?email=.
func (a *App) ListContributions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("issueId") != "":
		ledger, err := a.Ledger.ListForIssue(r.Context(), q.Get("issueId"))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, ledger)
	case q.Get("email") != "":
		items, err := a.Ledger.ListForContributor(r.Context(), q.Get("email"))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, items)
	default:
		a.fail(w, r, &domain.ValidationError{Fields: map[string]string{"issueId": "issueId or email required"}})
	}
}

func (a *App) MyContributions(w http.ResponseWriter, r *http.Request) {
	items, err := a.Ledger.Mine(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, items)
}
