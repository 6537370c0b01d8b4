package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubService struct {
	answer  string
	context string
	err     error
	calls   int
}

func (s *stubService) AnswerWithContext(ctx context.Context, question string) (string, string, error) {
	s.calls++
	return s.answer, s.context, s.err
}

type stubFacts struct {
	answers map[string]string
}

func (s *stubFacts) Answer(question string) (string, bool) {
	a, ok := s.answers[strings.ToLower(question)]
	return a, ok
}

func askBody(t *testing.T, question string, includeContext bool) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(askRequest{Question: question, IncludeContext: includeContext})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return bytes.NewBuffer(body)
}

func decodeAsk(t *testing.T, rec *httptest.ResponseRecorder) askResponse {
	t.Helper()
	var resp askResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHandleAsk_Answer(t *testing.T) {
	svc := &stubService{answer: "The library is open until 8 PM.", context: "library hours"}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "library hours?", false)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeAsk(t, rec)
	if resp.Answer != svc.answer {
		t.Errorf("expected %q, got %q", svc.answer, resp.Answer)
	}
	if resp.Source != "rag" {
		t.Errorf("expected source rag, got %q", resp.Source)
	}
	if resp.Context != "" {
		t.Errorf("context should be omitted unless requested, got %q", resp.Context)
	}
}

func TestHandleAsk_IncludeContext(t *testing.T) {
	svc := &stubService{answer: "answer", context: "chunk one\n\n---\n\nchunk two"}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "q", true)))

	resp := decodeAsk(t, rec)
	if resp.Context != svc.context {
		t.Errorf("expected context %q, got %q", svc.context, resp.Context)
	}
}

func TestHandleAsk_FactsShortCircuit(t *testing.T) {
	svc := &stubService{answer: "should not be used"}
	facts := &stubFacts{answers: map[string]string{
		"where is the campus located?": "The campus is in Bengaluru.",
	}}
	server := NewServer(svc, facts, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "Where is the campus located?", false)))

	resp := decodeAsk(t, rec)
	if resp.Source != "facts" {
		t.Errorf("expected source facts, got %q", resp.Source)
	}
	if resp.Answer != "The campus is in Bengaluru." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if svc.calls != 0 {
		t.Errorf("pipeline should not run when a fact matches, got %d calls", svc.calls)
	}
}

func TestHandleAsk_CacheHit(t *testing.T) {
	svc := &stubService{answer: "cached answer"}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "Same Question", false)))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if svc.calls != 1 {
		t.Errorf("expected one pipeline call, got %d", svc.calls)
	}

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "same question", false)))
	resp := decodeAsk(t, rec)
	if resp.Source != "cache" {
		t.Errorf("expected source cache, got %q", resp.Source)
	}
}

func TestHandleAsk_IncludeContextBypassesCache(t *testing.T) {
	svc := &stubService{answer: "a", context: "c"}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "q", true)))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if svc.calls != 2 {
		t.Errorf("include_context requests must not be served from cache, got %d calls", svc.calls)
	}
}

func TestHandleAsk_DegradesOnGeneratorFailure(t *testing.T) {
	svc := &stubService{
		context: "The admissions office is in Block A.",
		err:     errors.New("model unavailable"),
	}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "where is admissions?", false)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	resp := decodeAsk(t, rec)
	if !resp.Degraded {
		t.Error("expected degraded flag")
	}
	if !strings.Contains(resp.Answer, svc.context) {
		t.Errorf("degraded answer should contain the retrieved content, got %q", resp.Answer)
	}
}

func TestHandleAsk_FailsWithoutContext(t *testing.T) {
	svc := &stubService{err: errors.New("embedding service down")}
	server := NewServer(svc, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "q", false)))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandleAsk_BadRequests(t *testing.T) {
	server := NewServer(&stubService{}, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("GET", "/api/ask", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", strings.NewReader("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "   ", false)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank question: expected 400, got %d", rec.Code)
	}
}

func TestRebuild_SwapsServiceAndFlushesCache(t *testing.T) {
	old := &stubService{answer: "old"}
	replacement := &stubService{answer: "new"}
	server := NewServer(old, nil, func(ctx context.Context) (AskService, error) {
		return replacement, nil
	}, ":0", time.Minute)

	// Prime the cache with the old answer.
	rec := httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "q", false)))

	rec = httptest.NewRecorder()
	server.handleRebuild(rec, httptest.NewRequest("POST", "/api/rebuild", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	server.handleAsk(rec, httptest.NewRequest("POST", "/api/ask", askBody(t, "q", false)))
	resp := decodeAsk(t, rec)
	if resp.Answer != "new" {
		t.Errorf("expected answer from rebuilt pipeline, got %q", resp.Answer)
	}
	if old.calls != 1 || replacement.calls != 1 {
		t.Errorf("unexpected call counts: old=%d new=%d", old.calls, replacement.calls)
	}
}

func TestRebuild_Failure(t *testing.T) {
	server := NewServer(&stubService{}, nil, func(ctx context.Context) (AskService, error) {
		return nil, errors.New("corpus missing")
	}, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleRebuild(rec, httptest.NewRequest("POST", "/api/rebuild", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestRebuild_NotConfigured(t *testing.T) {
	server := NewServer(&stubService{}, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleRebuild(rec, httptest.NewRequest("POST", "/api/rebuild", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server := NewServer(&stubService{}, nil, nil, ":0", time.Minute)

	rec := httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest("GET", "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected ok, got %q", resp["status"])
	}
}
