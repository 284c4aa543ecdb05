package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/submit"
	"github.com/goliatone/go-spidrform/pkg/testsupport"
)

type fixture struct {
	server      *Server
	handler     *submit.Handler
	diagnostics *bytes.Buffer
	access      *bytes.Buffer
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()

	diagLogger, diagnostics := testsupport.NewLogger()
	accessLogger, access := testsupport.NewLogger()
	handler := submit.New(submit.WithLogger(diagLogger))

	base := []Option{WithSubmitter(handler), WithLogger(accessLogger)}
	srv, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return fixture{server: srv, handler: handler, diagnostics: diagnostics, access: access}
}

func (f fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func formValues() url.Values {
	return url.Values{
		"firstName":     {"Ada"},
		"lastName":      {"Lovelace"},
		"phone":         {"5551234567"},
		"email":         {"ada@gmail.com"},
		"airFryerCost":  {"$120"},
		"spidrPin":      {"1234-5678-1234-5678"},
		"pinVisibility": {"hidden"},
	}
}

func TestGetPage(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	doc := testsupport.MustParseHTML(t, rec.Body.Bytes())
	if got := testsupport.MustAttr(t, doc, "form", "action"); got != "/" {
		t.Fatalf("form action = %q", got)
	}
	if got := testsupport.MustAttr(t, doc, "form", "data-sf-endpoint"); got != "/submissions" {
		t.Fatalf("endpoint = %q", got)
	}
	if doc.Find("input[data-sf-pin-mask]").Length() != 1 {
		t.Fatalf("expected pin hidden on first load")
	}
	if doc.Find(".sf-ack").Length() != 0 {
		t.Fatalf("expected no acknowledgment on first load")
	}
}

func TestPostToggleKeepsValuesWithoutSubmitting(t *testing.T) {
	f := newFixture(t)
	values := formValues()
	values.Set("action", "toggle")
	rec := f.do(t, postForm(values))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := testsupport.MustParseHTML(t, rec.Body.Bytes())
	if got := testsupport.MustAttr(t, doc, "input#spidrPin", "value"); got != "1234-5678-1234-5678" {
		t.Fatalf("pin value = %q", got)
	}
	if doc.Find("input[data-sf-pin-mask]").Length() != 0 {
		t.Fatalf("expected pin revealed after toggle")
	}
	if got := testsupport.MustAttr(t, doc, "input[name=pinVisibility]", "value"); got != "visible" {
		t.Fatalf("visibility = %q", got)
	}
	if got := testsupport.MustAttr(t, doc, "input#firstName", "value"); got != "Ada" {
		t.Fatalf("firstName = %q", got)
	}
	if f.handler.Count() != 0 || f.diagnostics.Len() != 0 {
		t.Fatalf("toggle must not submit")
	}

	values.Set("pinVisibility", "visible")
	doc = testsupport.MustParseHTML(t, f.do(t, postForm(values)).Body.Bytes())
	if got := testsupport.MustAttr(t, doc, "input[data-sf-pin-mask]", "value"); got != "####-####-####-####" {
		t.Fatalf("masked = %q", got)
	}
}

func TestPostSubmitRendersAcknowledgment(t *testing.T) {
	f := newFixture(t)
	values := formValues()
	values.Set("action", "submit")
	values.Set("pinVisibility", "visible")
	rec := f.do(t, postForm(values))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := testsupport.MustParseHTML(t, rec.Body.Bytes())
	if got := strings.TrimSpace(doc.Find(".sf-ack").Text()); got != submit.DefaultAcknowledgment {
		t.Fatalf("acknowledgment = %q", got)
	}
	if got := testsupport.MustAttr(t, doc, "input#spidrPin", "value"); got != "1234-5678-1234-5678" {
		t.Fatalf("expected values kept and pin still visible, got %q", got)
	}

	want := []string{`Form submitted: {"firstName":"Ada","lastName":"Lovelace","phone":"5551234567","email":"ada@gmail.com","airFryerCost":"$120","spidrPin":"1234567812345678"}`}
	if diff := cmp.Diff(want, testsupport.Lines(f.diagnostics)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestPostUnknownAction(t *testing.T) {
	f := newFixture(t)
	values := formValues()
	values.Set("action", "explode")
	if rec := f.do(t, postForm(values)); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSubmissionJSON(t *testing.T) {
	f := newFixture(t)
	body := `{"firstName":"Ada","spidrPin":"12ab34","extra":"ignored"}`
	req := httptest.NewRequest(http.MethodPost, "/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for i := 1; i <= 2; i++ {
		req := req.Clone(context.Background())
		req.Body = io.NopCloser(strings.NewReader(body))
		rec := f.do(t, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
		}
		var receipt submit.Receipt
		if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
			t.Fatalf("decode receipt: %v", err)
		}
		if receipt.Message != submit.DefaultAcknowledgment || receipt.Sequence != uint64(i) {
			t.Fatalf("unexpected receipt %+v", receipt)
		}
	}

	lines := testsupport.Lines(f.diagnostics)
	if len(lines) != 2 {
		t.Fatalf("expected two diagnostics, got %v", lines)
	}
	if !strings.Contains(lines[0], `"firstName":"Ada"`) || !strings.Contains(lines[0], `"spidrPin":"1234"`) {
		t.Fatalf("unexpected diagnostic %q", lines[0])
	}
	if !strings.Contains(lines[0], `"lastName":""`) {
		t.Fatalf("expected every key present, got %q", lines[0])
	}
}

func TestSubmissionFormEncoded(t *testing.T) {
	f := newFixture(t)
	req := postForm(formValues())
	req.URL.Path = "/submissions"
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.handler.Count() != 1 {
		t.Fatalf("expected one submission")
	}
}

func TestSubmissionRejectsBadBodies(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{name: "malformed json", contentType: "application/json", body: `{"firstName":`, status: http.StatusBadRequest},
		{name: "non string value", contentType: "application/json", body: `{"phone":5551234567}`, status: http.StatusBadRequest},
		{name: "unsupported type", contentType: "text/plain", body: "hello", status: http.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/submissions", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := f.do(t, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var payload errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil || payload.Error == "" {
				t.Fatalf("expected json error body, got %q", rec.Body)
			}
		})
	}
	if f.handler.Count() != 0 {
		t.Fatalf("rejected bodies must not submit")
	}
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, WithRateLimit(1, 1))

	first := f.do(t, postForm(formValues()))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := f.do(t, postForm(formValues()))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d", second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Fatalf("Retry-After = %q", second.Header().Get("Retry-After"))
	}

	other := postForm(formValues())
	other.RemoteAddr = "203.0.113.9:4000"
	if rec := f.do(t, other); rec.Code != http.StatusOK {
		t.Fatalf("other client status = %d", rec.Code)
	}

	if rec := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusOK {
		t.Fatalf("GET must not be limited, status = %d", rec.Code)
	}
}

func TestRateLimitSkipsToggles(t *testing.T) {
	f := newFixture(t, WithRateLimit(1, 1))

	values := formValues()
	values.Set("action", "toggle")
	for i := 0; i < 50; i++ {
		rec := f.do(t, postForm(values))
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle %d status = %d", i, rec.Code)
		}
	}
	if f.handler.Count() != 0 {
		t.Fatalf("toggles must not submit")
	}

	if rec := f.do(t, postForm(formValues())); rec.Code != http.StatusOK {
		t.Fatalf("submit after toggles status = %d", rec.Code)
	}
	if rec := f.do(t, postForm(formValues())); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second submit status = %d", rec.Code)
	}
}

func TestPostWithoutActionSubmits(t *testing.T) {
	f := newFixture(t)

	values := formValues()
	values.Del("action")
	rec := f.do(t, postForm(values))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.handler.Count() != 1 {
		t.Fatalf("submit count = %d, want 1", f.handler.Count())
	}
	doc := testsupport.MustParseHTML(t, rec.Body.Bytes())
	if doc.Find(".sf-ack[role=alert]").Length() != 1 {
		t.Fatalf("expected acknowledgment")
	}
	if got := testsupport.MustAttr(t, doc, "input[data-sf-visibility]", "value"); got != "hidden" {
		t.Fatalf("pin visibility = %q, want hidden", got)
	}
}

func TestClientLimiterPrunesIdleClients(t *testing.T) {
	l := newClientLimiter(1, 1)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < limiterPruneSize; i++ {
		l.Allow(string(rune('a' + i%26)) + strings.Repeat("x", i))
	}
	now = now.Add(limiterIdleTTL + time.Second)
	l.Allow("fresh")
	if len(l.clients) != 1 {
		t.Fatalf("expected idle clients pruned, got %d", len(l.clients))
	}
}

func TestAssetsAndHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/assets/spidrform.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "data-sf-form") {
		t.Fatalf("asset status = %d", rec.Code)
	}
	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body)
	}
	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
}

func TestAccessLog(t *testing.T) {
	f := newFixture(t)
	f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	lines := testsupport.Lines(f.access)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "GET /healthz 200 ") {
		t.Fatalf("unexpected access log %v", lines)
	}
}

func TestNewRejectsEmptyForm(t *testing.T) {
	if _, err := New(WithForm(model.FormModel{ID: "empty"})); err == nil {
		t.Fatalf("expected error for form without fields")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, err := New(WithAddr("127.0.0.1:0"), WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
