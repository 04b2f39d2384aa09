package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/crmhealth/importer/internal/config"
	"github.com/crmhealth/importer/internal/core"
	_ "github.com/crmhealth/importer/internal/core/shapes"
	"github.com/crmhealth/importer/internal/csv"
	"github.com/crmhealth/importer/internal/schema"
)

// ============================================================================
// Test Helpers
// ============================================================================

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Rate.Enabled = false

	return NewServer(cfg)
}

// multipartCSV builds a multipart body with one "file" field carrying CSV
// content.
func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "text/csv")

	fw, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing part failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer failed: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func sentimentContent(rows ...string) string {
	lines := append([]string{csv.Serialize(schema.SentimentHeaders)}, rows...)
	return strings.Join(lines, "\n")
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Handler Tests
// ============================================================================

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestHandleListShapes(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/shapes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Shapes []shapeInfo `json:"shapes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	keys := make(map[string]bool)
	for _, sh := range body.Shapes {
		keys[sh.Key] = true
		if len(sh.Headers) == 0 {
			t.Errorf("shape %q has no headers", sh.Key)
		}
	}
	if !keys["customer"] || !keys["sentiment"] {
		t.Errorf("expected customer and sentiment shapes, got %v", keys)
	}
}

func TestHandleDownloadTemplate(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/template/sentiment", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}

	want := csv.Serialize(schema.SentimentHeaders) + "\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestHandleDownloadTemplate_UnknownShape(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/template/invoices", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Code != "REQ001" {
		t.Errorf("error code = %q, want REQ001", resp.Code)
	}
}

func TestHandleImport(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartCSV(t, "sentiment.csv", sentimentContent(
		"4,14/03/2024,00123456,SRV-10001",
		"2,15/03/2024,00123457,SRV-10002",
	))

	req := httptest.NewRequest(http.MethodPost, "/api/import/sentiment", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var report core.ImportReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.BatchID == "" {
		t.Error("BatchID is empty")
	}
	if report.ShapeKey != "sentiment" {
		t.Errorf("ShapeKey = %q, want sentiment", report.ShapeKey)
	}
	if report.Mode != core.ModeStrict {
		t.Errorf("Mode = %q, want strict default", report.Mode)
	}
	if report.TotalRows != 2 || report.SuccessfulRows != 2 {
		t.Errorf("rows = %d/%d, want 2/2", report.SuccessfulRows, report.TotalRows)
	}
}

func TestHandleImport_ModeParameter(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartCSV(t, "sentiment.csv",
		sentimentContent("4,14/03/2024,00123456,SRV-10001"))

	req := httptest.NewRequest(http.MethodPost, "/api/import/sentiment?mode=lenient", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var report core.ImportReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Mode != core.ModeLenient {
		t.Errorf("Mode = %q, want lenient", report.Mode)
	}
}

func TestHandleImport_InvalidMode(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartCSV(t, "sentiment.csv",
		sentimentContent("4,14/03/2024,00123456,SRV-10001"))

	req := httptest.NewRequest(http.MethodPost, "/api/import/sentiment?mode=permissive", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Code != "REQ002" {
		t.Errorf("error code = %q, want REQ002", resp.Code)
	}
}

func TestHandleImport_MissingHeaders(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartCSV(t, "sentiment.csv", "Case,Score\n1,2")

	req := httptest.NewRequest(http.MethodPost, "/api/import/sentiment", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Code != "CSV001" {
		t.Errorf("error code = %q, want CSV001", resp.Code)
	}
}

func TestHandleImport_NoFile(t *testing.T) {
	s := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("mode", "strict")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import/sentiment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := doRequest(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePreview_AlwaysLenient(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartCSV(t, "sentiment.csv",
		sentimentContent("4,14/03/2024,00123456,SRV-10001"))

	// Request strict; preview must override to lenient.
	req := httptest.NewRequest(http.MethodPost, "/api/preview/sentiment?mode=strict", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var report core.ImportReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Mode != core.ModeLenient {
		t.Errorf("Mode = %q, want lenient", report.Mode)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}
