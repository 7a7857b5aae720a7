package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"civicfund/internal/domain"
)

func TestFailStatusMapping(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		hasField string
	}{
		{name: "validation", err: &domain.ValidationError{Fields: map[string]string{"amount": "required"}}, status: http.StatusBadRequest, code: "validation_failed", hasField: "amount"},
		{name: "wrapped validation", err: fmt.Errorf("record: %w", &domain.ValidationError{Fields: map[string]string{"title": "required"}}), status: http.StatusBadRequest, code: "validation_failed", hasField: "title"},
		{name: "unauthenticated", err: fmt.Errorf("create issue: %w", domain.ErrUnauthenticated), status: http.StatusUnauthorized, code: "unauthenticated"},
		{name: "forbidden", err: domain.ErrForbidden, status: http.StatusForbidden, code: "forbidden"},
		{name: "not found", err: domain.ErrNotFound, status: http.StatusNotFound, code: "not_found"},
		{name: "transport", err: domain.Transport("list issues", errors.New("dial tcp: refused")), status: http.StatusServiceUnavailable, code: "unavailable"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.fail(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.code {
				t.Fatalf("code = %q, want %q", body.Error, tc.code)
			}
			if tc.hasField != "" {
				if _, ok := body.Fields[tc.hasField]; !ok {
					t.Fatalf("fields = %v, want %q", body.Fields, tc.hasField)
				}
			}
			if tc.status == http.StatusServiceUnavailable && rr.Header().Get("Retry-After") == "" {
				t.Fatal("missing Retry-After")
			}
		})
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `"12.50"`, want: "12.50"},
		{in: `12.50`, want: "12.50"},
		{in: `100`, want: "100"},
		{in: `null`, want: ""},
		{in: `"abc"`, want: "abc"},
		{in: `true`, wantErr: true},
		{in: `{}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var v struct {
				Amount flexString `json:"amount"`
			}
			err := json.Unmarshal([]byte(`{"amount":`+tc.in+`}`), &v)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", v.Amount)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(v.Amount) != tc.want {
				t.Fatalf("got %q, want %q", v.Amount, tc.want)
			}
		})
	}
}

func TestIssueRequestAliases(t *testing.T) {
	var req issueRequest
	body := `{"title":"t","category":"garbage","location":"l","description":"d","image":"https://x/y.png","amount":250}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	draft := req.draft()
	if draft.ImageURL != "https://x/y.png" || draft.SuggestedBudget != "250" {
		t.Fatalf("draft = %+v", draft)
	}

	req = issueRequest{}
	if err := json.Unmarshal([]byte(`{"title":"t","suggestedBudget":"9","amount":"1"}`), &req); err != nil {
		t.Fatal(err)
	}
	upd := req.update()
	if upd.SuggestedBudget == nil || *upd.SuggestedBudget != "9" {
		t.Fatalf("suggestedBudget should win over amount: %+v", upd.SuggestedBudget)
	}
	if upd.Status != nil || upd.Category != nil {
		t.Fatal("absent fields must stay nil")
	}
}

func TestQueryLimit(t *testing.T) {
	for raw, want := range map[string]int{"": 0, "?limit=5": 5, "?limit=0": 0} {
		got, err := queryLimit(httptest.NewRequest(http.MethodGet, "/x"+raw, nil))
		if err != nil || got != want {
			t.Fatalf("%q: got %d, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"?limit=-1", "?limit=ten"} {
		if _, err := queryLimit(httptest.NewRequest(http.MethodGet, "/x"+raw, nil)); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: err = %v", raw, err)
		}
	}
}
