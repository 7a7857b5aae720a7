package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicfund/internal/domain"
)

// issueRequest is the create/update body. The web client sends the budget as
// "amount" and the picture as "image"; both spellings are accepted.
type issueRequest struct {
	Title           *string     `json:"title"`
	Category        *string     `json:"category"`
	Location        *string     `json:"location"`
	Description     *string     `json:"description"`
	ImageURL        *string     `json:"imageUrl"`
	Image           *string     `json:"image"`
	SuggestedBudget *flexString `json:"suggestedBudget"`
	Amount          *flexString `json:"amount"`
	Status          *string     `json:"status"`
}

func (req issueRequest) budget() *flexString {
	if req.SuggestedBudget != nil {
		return req.SuggestedBudget
	}
	return req.Amount
}

func (req issueRequest) draft() domain.IssueDraft {
	image := req.ImageURL
	if image == nil {
		image = req.Image
	}
	return domain.IssueDraft{
		Title:           deref(req.Title),
		Category:        deref(req.Category),
		Location:        deref(req.Location),
		Description:     deref(req.Description),
		ImageURL:        deref(image),
		SuggestedBudget: deref(req.budget().ptr()),
	}
}

func (req issueRequest) update() domain.IssueUpdate {
	return domain.IssueUpdate{
		Title:           req.Title,
		Category:        req.Category,
		Location:        req.Location,
		Description:     req.Description,
		SuggestedBudget: req.budget().ptr(),
		Status:          req.Status,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListIssues serves the public browse list, or the caller's own issues when
// ?email= is given.
func (a *App) ListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if email := q.Get("email"); email != "" {
		issues, err := a.Issues.ListByReporter(r.Context(), email)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, issues)
		return
	}
	issues, err := a.Issues.Browse(r.Context(), q.Get("category"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, issues)
}

func (a *App) LatestIssues(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	issues, err := a.Issues.Latest(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, issues)
}

func (a *App) MyIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := a.Issues.Mine(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, issues)
}

func (a *App) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !a.decode(w, r, &req) {
		return
	}
	issue, err := a.Issues.Create(r.Context(), req.draft())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, issue)
}

func (a *App) GetIssue(w http.ResponseWriter, r *http.Request) {
	issue, err := a.Issues.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, issue)
}

func (a *App) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !a.decode(w, r, &req) {
		return
	}
	issue, err := a.Issues.Update(r.Context(), chi.URLParam(r, "id"), req.update())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, issue)
}

func (a *App) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	if err := a.Issues.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
