package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carelink/booking/internal/platform/fhir"
)

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Error("expected generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != rid {
		t.Error("expected request id echoed in response header")
	}
}

func TestRequestID_Reused(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rid, _ := c.Get("request_id").(string); rid != "caller-id" {
		t.Errorf("expected caller id reused, got %q", rid)
	}
}

func TestBearerPassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer upstream-cred")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotToken string
	h := BearerPassthrough()(func(c echo.Context) error {
		gotToken = fhir.TokenFrom(c.Request().Context())
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "upstream-cred" {
		t.Errorf("expected token lifted into context, got %q", gotToken)
	}
}

func TestBearerPassthrough_NoHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotToken string
	h := BearerPassthrough()(func(c echo.Context) error {
		gotToken = fhir.TokenFrom(c.Request().Context())
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "" {
		t.Errorf("expected no token, got %q", gotToken)
	}
}
