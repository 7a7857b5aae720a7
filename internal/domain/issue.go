package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

func init() {
	// Amounts travel as JSON numbers, matching what the client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category enumerates the kinds of issue a reporter can file.
type Category string

const (
	CategoryGarbage              Category = "Garbage"
	CategoryIllegalConstruction  Category = "Illegal Construction"
	CategoryBrokenPublicProperty Category = "Broken Public Property"
	CategoryRoadDamage           Category = "Road Damage"
)

// Categories lists the supported categories in display order.
var Categories = []Category{
	CategoryGarbage,
	CategoryIllegalConstruction,
	CategoryBrokenPublicProperty,
	CategoryRoadDamage,
}

var categoryFolder = cases.Fold()

func categoryKey(s string) string {
	s = categoryFolder.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, s)
}

var categoryByKey = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[categoryKey(string(c))] = c
	}
	return m
}()

// ParseCategory accepts the display name in any case or spacing
// ("road damage", "RoadDamage", "ROAD_DAMAGE").
func ParseCategory(raw string) (Category, bool) {
	c, ok := categoryByKey[categoryKey(strings.TrimSpace(raw))]
	return c, ok
}

// IssueStatus is the lifecycle state of an issue.
type IssueStatus string

const (
	IssueStatusOngoing IssueStatus = "ongoing"
	IssueStatusEnded   IssueStatus = "ended"
)

// ParseIssueStatus validates a status string.
func ParseIssueStatus(raw string) (IssueStatus, bool) {
	switch IssueStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case IssueStatusOngoing:
		return IssueStatusOngoing, true
	case IssueStatusEnded:
		return IssueStatusEnded, true
	}
	return "", false
}

// CanTransition reports whether status may move from s to next. An ended
// issue is never reopened.
func (s IssueStatus) CanTransition(next IssueStatus) bool {
	if s == next {
		return true
	}
	return s == IssueStatusOngoing && next == IssueStatusEnded
}

// Issue is a reported cleanliness or infrastructure problem.
type Issue struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Category        Category        `json:"category"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"imageUrl"`
	SuggestedBudget decimal.Decimal `json:"suggestedBudget"`
	Status          IssueStatus     `json:"status"`
	ReporterEmail   string          `json:"reporterEmail"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// PublicIssue is the subset of an issue shown to anonymous visitors. Budget
// and reporter stay hidden.
type PublicIssue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (i Issue) Public() PublicIssue {
	return PublicIssue{
		ID:          i.ID,
		Title:       i.Title,
		Category:    i.Category,
		Location:    i.Location,
		Description: i.Description,
		ImageURL:    i.ImageURL,
		CreatedAt:   i.CreatedAt,
	}
}

// IssueFilter narrows List results. Zero value means everything.
type IssueFilter struct {
	ReporterEmail string
	Category      Category
}

// IssueDraft is the raw input for a new issue. The budget stays a string so a
// non-numeric value is reported as a validation problem.
type IssueDraft struct {
	Title           string
	Category        string
	Location        string
	Description     string
	ImageURL        string
	SuggestedBudget string
}

// Build validates the draft and returns the issue it describes, owned by
// reporterEmail and stamped with now.
func (d IssueDraft) Build(reporterEmail string, now time.Time) (Issue, error) {
	var v validator
	v.required("title", d.Title)
	v.required("location", d.Location)
	v.required("description", d.Description)
	v.required("imageUrl", d.ImageURL)
	category := parseCategoryField(&v, d.Category)
	budget := parseBudgetField(&v, d.SuggestedBudget)
	if err := v.err(); err != nil {
		return Issue{}, err
	}
	return Issue{
		Title:           strings.TrimSpace(d.Title),
		Category:        category,
		Location:        strings.TrimSpace(d.Location),
		Description:     strings.TrimSpace(d.Description),
		ImageURL:        strings.TrimSpace(d.ImageURL),
		SuggestedBudget: budget,
		Status:          IssueStatusOngoing,
		ReporterEmail:   NormalizeEmail(reporterEmail),
		CreatedAt:       now.UTC(),
	}, nil
}

// IssueUpdate carries the full editable field set. A nil field means the
// caller left it out, which is rejected rather than treated as "unchanged".
type IssueUpdate struct {
	Title           *string
	Category        *string
	Location        *string
	Description     *string
	SuggestedBudget *string
	Status          *string
}

// Apply validates the update against current and returns the edited issue.
// Identity fields (id, reporter, createdAt) and the image are carried over.
func (u IssueUpdate) Apply(current Issue) (Issue, error) {
	var v validator
	for name, field := range map[string]*string{
		"title":           u.Title,
		"category":        u.Category,
		"location":        u.Location,
		"description":     u.Description,
		"suggestedBudget": u.SuggestedBudget,
		"status":          u.Status,
	} {
		if field == nil {
			v.add(name, "missing from update")
		}
	}
	if err := v.err(); err != nil {
		return Issue{}, err
	}

	v.required("title", *u.Title)
	v.required("location", *u.Location)
	v.required("description", *u.Description)
	category := parseCategoryField(&v, *u.Category)
	budget := parseBudgetField(&v, *u.SuggestedBudget)
	status, ok := ParseIssueStatus(*u.Status)
	switch {
	case !ok:
		v.add("status", "must be ongoing or ended")
	case !current.Status.CanTransition(status):
		v.add("status", "an ended issue cannot be reopened")
	}
	if err := v.err(); err != nil {
		return Issue{}, err
	}

	next := current
	next.Title = strings.TrimSpace(*u.Title)
	next.Category = category
	next.Location = strings.TrimSpace(*u.Location)
	next.Description = strings.TrimSpace(*u.Description)
	next.SuggestedBudget = budget
	next.Status = status
	return next, nil
}

func parseCategoryField(v *validator, raw string) Category {
	if strings.TrimSpace(raw) == "" {
		v.add("category", "required")
		return ""
	}
	c, ok := ParseCategory(raw)
	if !ok {
		v.add("category", "unknown category")
	}
	return c
}

func parseBudgetField(v *validator, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.add("suggestedBudget", "required")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.add("suggestedBudget", "must be numeric")
		return decimal.Zero
	}
	if d.IsNegative() {
		v.add("suggestedBudget", "must not be negative")
		return d
	}
	checkMoney(v, "suggestedBudget", d)
	return d
}
