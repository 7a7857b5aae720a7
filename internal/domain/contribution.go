package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AnonymousContributor is the name recorded when an issue-tied contribution
// arrives from a caller without a display name.
const AnonymousContributor = "Anonymous"

// Contribution is a funding pledge. A nil IssueID marks a general-drive
// signup that is not tied to any single issue. Records are never edited.
type Contribution struct {
	ID               string          `json:"id"`
	IssueID          *string         `json:"issueId"`
	ContributorName  string          `json:"contributorName"`
	ContributorEmail string          `json:"contributorEmail"`
	Amount           decimal.Decimal `json:"amount"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	AdditionalInfo   string          `json:"additionalInfo"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// IsGeneralDrive reports whether the record is a general-drive signup.
func (c Contribution) IsGeneralDrive() bool {
	return c.IssueID == nil
}

// ContributionInput is the raw input for Record. Amount stays a string so a
// non-numeric value surfaces as a validation problem.
type ContributionInput struct {
	IssueID          *string
	ContributorName  string
	ContributorEmail string
	Amount           string
	Phone            string
	Address          string
	AdditionalInfo   string
}

// Build validates the input and returns the record to append. Issue-tied
// contributions are always recorded under the caller's email; a different
// email in the input is rejected, and a missing name falls back to the
// caller's. The general-drive form has to carry all contact fields itself.
func (in ContributionInput) Build(caller Identity, now time.Time) (Contribution, error) {
	var v validator

	var issueID *string
	if in.IssueID != nil {
		id := strings.TrimSpace(*in.IssueID)
		if id != "" {
			issueID = &id
		}
	}

	name := strings.TrimSpace(in.ContributorName)
	email := NormalizeEmail(in.ContributorEmail)
	if issueID != nil {
		if name == "" {
			name = strings.TrimSpace(caller.DisplayName)
		}
		if name == "" {
			name = AnonymousContributor
		}
		own := NormalizeEmail(caller.Email)
		if email != "" && email != own {
			v.add("contributorEmail", "must match the signed-in account")
		}
		email = own
		v.required("contributorEmail", email)
	} else {
		v.required("contributorName", name)
		v.required("contributorEmail", email)
		v.required("phone", in.Phone)
		v.required("address", in.Address)
	}

	amount := decimal.Zero
	raw := strings.TrimSpace(in.Amount)
	switch d, err := decimal.NewFromString(raw); {
	case raw == "":
		v.add("amount", "required")
	case err != nil:
		v.add("amount", "must be numeric")
	case !d.IsPositive():
		v.add("amount", "must be greater than zero")
	default:
		checkMoney(&v, "amount", d)
		amount = d
	}

	if err := v.err(); err != nil {
		return Contribution{}, err
	}
	return Contribution{
		IssueID:          issueID,
		ContributorName:  name,
		ContributorEmail: email,
		Amount:           amount,
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		AdditionalInfo:   strings.TrimSpace(in.AdditionalInfo),
		CreatedAt:        now.UTC(),
	}, nil
}

// TotalCollected sums the amounts of the given contributions.
func TotalCollected(items []Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range items {
		total = total.Add(c.Amount)
	}
	return total
}

// NotAvailable is shown in place of issue fields that cannot be resolved.
const NotAvailable = "N/A"

// EnrichedContribution is a contribution joined with display fields from its
// parent issue.
type EnrichedContribution struct {
	Contribution
	IssueTitle  string `json:"issueTitle"`
	IssueStatus string `json:"issueStatus"`
}

// Enrich joins c with issue, or with the N/A sentinel when issue is nil.
func Enrich(c Contribution, issue *Issue) EnrichedContribution {
	out := EnrichedContribution{
		Contribution: c,
		IssueTitle:   NotAvailable,
		IssueStatus:  NotAvailable,
	}
	if issue != nil {
		out.IssueTitle = issue.Title
		out.IssueStatus = string(issue.Status)
	}
	return out
}
