package restapi

import (
	"time"

	"github.com/shopspring/decimal"

	"civicfund/internal/domain"
)

type wireIssue struct {
	ID          string          `json:"_id,omitempty"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Date        time.Time       `json:"date"`
	Email       string          `json:"email"`
}

func toWireIssue(i domain.Issue) wireIssue {
	return wireIssue{
		Title:       i.Title,
		Category:    string(i.Category),
		Location:    i.Location,
		Description: i.Description,
		Image:       i.ImageURL,
		Amount:      i.SuggestedBudget,
		Status:      string(i.Status),
		Date:        i.CreatedAt,
		Email:       i.ReporterEmail,
	}
}

func (w wireIssue) domain() domain.Issue {
	category, ok := domain.ParseCategory(w.Category)
	if !ok {
		category = domain.Category(w.Category)
	}
	status, ok := domain.ParseIssueStatus(w.Status)
	if !ok {
		status = domain.IssueStatusOngoing
	}
	return domain.Issue{
		ID:              w.ID,
		Title:           w.Title,
		Category:        category,
		Location:        w.Location,
		Description:     w.Description,
		ImageURL:        w.Image,
		SuggestedBudget: w.Amount,
		Status:          status,
		ReporterEmail:   domain.NormalizeEmail(w.Email),
		CreatedAt:       w.Date,
	}
}

type wireContribution struct {
	ID             string          `json:"_id,omitempty"`
	IssueID        *string         `json:"issueId"`
	Amount         decimal.Decimal `json:"amount"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	AdditionalInfo string          `json:"additionalInfo"`
	Date           time.Time       `json:"date"`
}

func toWireContribution(c domain.Contribution) wireContribution {
	return wireContribution{
		IssueID:        c.IssueID,
		Amount:         c.Amount,
		Name:           c.ContributorName,
		Email:          c.ContributorEmail,
		Phone:          c.Phone,
		Address:        c.Address,
		AdditionalInfo: c.AdditionalInfo,
		Date:           c.CreatedAt,
	}
}

func (w wireContribution) domain() domain.Contribution {
	issueID := w.IssueID
	if issueID != nil && *issueID == "" {
		issueID = nil
	}
	return domain.Contribution{
		ID:               w.ID,
		IssueID:          issueID,
		ContributorName:  w.Name,
		ContributorEmail: domain.NormalizeEmail(w.Email),
		Amount:           w.Amount,
		Phone:            w.Phone,
		Address:          w.Address,
		AdditionalInfo:   w.AdditionalInfo,
		CreatedAt:        w.Date,
	}
}

type wireUser struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireUser) domain() domain.User {
	return domain.User{
		ID:        w.ID,
		Email:     domain.NormalizeEmail(w.Email),
		Name:      w.Name,
		PhotoURL:  w.Photo,
		CreatedAt: w.CreatedAt,
	}
}
