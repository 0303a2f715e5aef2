package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestAudit_LogsEvent(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-123")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := Audit(logger)
	h := mw(handler)
	err := h(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAudit_SkipsNonAPIRoutes(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	recorded := false
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = true
		return nil
	})

	mw := Audit(logger, recorder)
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorded {
		t.Error("expected /health to be skipped by audit middleware")
	}
}

func TestAudit_RecorderReceivesEntry(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/8a1d7f36-1c2a-4f7e-9d2b-0a3c5e7f9b1d", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-456")

	var got AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		got = entry
		return nil
	})

	mw := Audit(logger, recorder)
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Action != "delete" {
		t.Errorf("expected action delete, got %s", got.Action)
	}
	if got.ResourceType != "patients" {
		t.Errorf("expected resource type patients, got %s", got.ResourceType)
	}
	if got.PatientID != "8a1d7f36-1c2a-4f7e-9d2b-0a3c5e7f9b1d" {
		t.Errorf("unexpected patient id: %s", got.PatientID)
	}
	if got.RequestID != "req-456" {
		t.Errorf("expected request id req-456, got %s", got.RequestID)
	}
}

func TestHTTPMethodToAction(t *testing.T) {
	tests := []struct {
		method string
		action string
	}{
		{http.MethodGet, "read"},
		{http.MethodHead, "read"},
		{http.MethodPost, "create"},
		{http.MethodPut, "update"},
		{http.MethodPatch, "update"},
		{http.MethodDelete, "delete"},
		{"OPTIONS", "read"},
	}

	for _, tt := range tests {
		if got := httpMethodToAction(tt.method); got != tt.action {
			t.Errorf("httpMethodToAction(%s) = %s, want %s", tt.method, got, tt.action)
		}
	}
}

func TestExtractResourceType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/patients", "patients"},
		{"/api/v1/patients/123", "patients"},
		{"/api/v1/clinics/abc/catalog", "clinics"},
		{"/api/v1/templates", "templates"},
		{"/api/v1/", "unknown"},
	}

	for _, tt := range tests {
		if got := extractResourceType(tt.path); got != tt.want {
			t.Errorf("extractResourceType(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestExtractPatientID_FromQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/adjustments?patient=pat-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if got := extractPatientID(c); got != "pat-1" {
		t.Errorf("expected pat-1, got %s", got)
	}
}

func TestExtractPatientID_NonUUIDPathSegment(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if got := extractPatientID(c); got != "" {
		t.Errorf("expected empty patient id for non-UUID segment, got %s", got)
	}
}
