//go:build unit

package handler

import (
	"carlton/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestValidationSummary(t *testing.T) {
	ve := &service.ValidationError{Fields: map[string]string{
		"guests":    "must be between 1 and 2",
		"check_out": "must be after check-in",
	}}
	want := "check out must be after check-in; guests must be between 1 and 2."
	if got := validationSummary(ve); got != want {
		t.Errorf("validationSummary() = %q, want %q", got, want)
	}
}

func TestShortRef(t *testing.T) {
	if got := shortRef("3f2a9c1e-8b7d-4c1a-9e2f-0a1b2c3d4e5f"); got != "3F2A9C1E" {
		t.Errorf("shortRef() = %q", got)
	}
	if got := shortRef("abc"); got != "ABC" {
		t.Errorf("shortRef() = %q", got)
	}
}

func TestSameHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://carlton.test/contact", nil)
	tests := []struct {
		ref  string
		want bool
	}{
		{"http://carlton.test/contact", true},
		{"https://carlton.test/rooms/superior", true},
		{"https://carlton.test.evil.example/", false},
		{"https://evil.example/", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := sameHost(req, tt.ref); got != tt.want {
			t.Errorf("sameHost(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestGuestRange(t *testing.T) {
	got := guestRange(3)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("guestRange(3) = %v", got)
	}
	if len(guestRange(0)) != 0 {
		t.Error("guestRange(0) should be empty")
	}
}

func TestIDParam(t *testing.T) {
	tests := []struct {
		id   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", tt.id)
		req := httptest.NewRequest(http.MethodGet, "/api/pages/"+tt.id, nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()

		got, ok := idParam(rr, req)
		if ok != tt.ok || got != tt.want {
			t.Errorf("idParam(%q) = %d, %v; want %d, %v", tt.id, got, ok, tt.want, tt.ok)
		}
		if !ok && rr.Code != http.StatusBadRequest {
			t.Errorf("idParam(%q) should answer 400, got %d", tt.id, rr.Code)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var in service.PageInput
	req := httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"title":"Spa","published":true}`))
	if !decodeJSON(httptest.NewRecorder(), req, &in) {
		t.Fatal("expected a valid body to decode")
	}
	if in.Title != "Spa" || !in.Published {
		t.Errorf("decoded %+v", in)
	}

	rr := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"title":"Spa","extra":1}`))
	if decodeJSON(rr, req, &in) {
		t.Error("unknown fields should be rejected")
	}
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Header().Get("Content-Type"), "problem+json") {
		t.Errorf("expected a 400 problem response, got %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
}
