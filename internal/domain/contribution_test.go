package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var caller = Identity{ID: "u1", Email: "Helper@Example.com", DisplayName: "Helper"}

func TestContributionBuildIssueTiedDefaults(t *testing.T) {
	c, err := ContributionInput{IssueID: strPtr("issue-1"), Amount: "30"}.Build(caller, time.Now())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if c.ContributorName != "Helper" || c.ContributorEmail != "helper@example.com" {
		t.Fatalf("identity defaults not applied: %+v", c)
	}
	if c.IsGeneralDrive() {
		t.Fatalf("issue-tied contribution reported as general drive")
	}

	anon, err := ContributionInput{IssueID: strPtr("issue-1"), Amount: "5"}.Build(Identity{Email: "x@example.com"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if anon.ContributorName != AnonymousContributor {
		t.Fatalf("name = %q, want %q", anon.ContributorName, AnonymousContributor)
	}
}

func TestContributionBuildIssueTiedUsesCallerEmail(t *testing.T) {
	c, err := ContributionInput{IssueID: strPtr("issue-1"), ContributorEmail: " HELPER@example.com", Amount: "5"}.Build(caller, time.Now())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if c.ContributorEmail != "helper@example.com" {
		t.Fatalf("email = %q, want helper@example.com", c.ContributorEmail)
	}

	_, err = ContributionInput{IssueID: strPtr("issue-1"), ContributorEmail: "victim@example.com", Amount: "5"}.Build(caller, time.Now())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Build() error = %v, want *ValidationError", err)
	}
	if _, ok := ve.Fields["contributorEmail"]; !ok {
		t.Fatalf("missing contributorEmail in %v", ve.Fields)
	}
}

func TestContributionBuildGeneralDriveRequiresContact(t *testing.T) {
	_, err := ContributionInput{Amount: "10", ContributorName: "Vol"}.Build(caller, time.Now())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Build() error = %v, want *ValidationError", err)
	}
	for _, field := range []string{"contributorEmail", "phone", "address"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("missing %q in %v", field, ve.Fields)
		}
	}

	blank := ""
	c, err := ContributionInput{
		IssueID:          &blank,
		ContributorName:  "Vol",
		ContributorEmail: "vol@example.com",
		Phone:            "555-0100",
		Address:          "1 Main St",
		Amount:           "10",
	}.Build(caller, time.Now())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if !c.IsGeneralDrive() {
		t.Fatalf("blank issue id should be a general drive signup")
	}
}

func TestContributionBuildRejectsAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5", "", "ten", "0.001", "30.333", "1000000000000", "1e12"} {
		t.Run(amount, func(t *testing.T) {
			_, err := ContributionInput{IssueID: strPtr("i"), Amount: amount}.Build(caller, time.Now())
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("amount %q: error = %v, want validation error", amount, err)
			}
		})
	}
}

func TestContributionBuildAcceptsCents(t *testing.T) {
	for _, amount := range []string{"0.01", "30.30", "20.0", "999999999999.99"} {
		t.Run(amount, func(t *testing.T) {
			c, err := ContributionInput{IssueID: strPtr("i"), Amount: amount}.Build(caller, time.Now())
			if err != nil {
				t.Fatalf("amount %q: unexpected error %v", amount, err)
			}
			if !c.Amount.Equal(decimal.RequireFromString(amount)) {
				t.Fatalf("amount = %s, want %s", c.Amount, amount)
			}
		})
	}
}

func TestTotalCollected(t *testing.T) {
	items := []Contribution{
		{Amount: decimal.RequireFromString("30")},
		{Amount: decimal.RequireFromString("40")},
		{Amount: decimal.RequireFromString("20")},
	}
	if got := TotalCollected(items); !got.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("TotalCollected() = %s, want 90", got)
	}
	if got := TotalCollected(nil); !got.IsZero() {
		t.Fatalf("TotalCollected(nil) = %s, want 0", got)
	}
}

func TestEnrichSentinel(t *testing.T) {
	out := Enrich(Contribution{ID: "c1"}, nil)
	if out.IssueTitle != NotAvailable || out.IssueStatus != NotAvailable {
		t.Fatalf("Enrich(nil) = %+v", out)
	}
	out = Enrich(Contribution{ID: "c1"}, &Issue{Title: "Pothole", Status: IssueStatusEnded})
	if out.IssueTitle != "Pothole" || out.IssueStatus != "ended" {
		t.Fatalf("Enrich(issue) = %+v", out)
	}
}
