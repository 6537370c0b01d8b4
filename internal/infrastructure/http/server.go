// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle. This is
// the integration boundary: curated facts short-circuit retrieval here,
// and generator failures degrade to a context-only answer here rather
// than surfacing as request failures.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/campusrag/campusrag-go/internal/domain/ports"
)

// AskService is what the server needs from the answer pipeline.
type AskService interface {
	// AnswerWithContext returns the answer and the context block it was
	// grounded in. On generator failure the context is still returned.
	AnswerWithContext(ctx context.Context, question string) (string, string, error)
}

// RebuildFunc regenerates the index and returns a pipeline over the new
// artifacts.
type RebuildFunc func(ctx context.Context) (AskService, error)

// Server is the HTTP server for the campus assistant API.
type Server struct {
	mu      sync.RWMutex
	svc     AskService
	facts   ports.FactSource
	rebuild RebuildFunc
	answers *gocache.Cache
	addr    string
}

// NewServer creates a new HTTP server. facts and rebuild may be nil.
func NewServer(svc AskService, facts ports.FactSource, rebuild RebuildFunc, addr string, answerTTL time.Duration) *Server {
	if answerTTL <= 0 {
		answerTTL = 5 * time.Minute
	}
	return &Server{
		svc:     svc,
		facts:   facts,
		rebuild: rebuild,
		answers: gocache.New(answerTTL, 2*answerTTL),
		addr:    addr,
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/rebuild", s.handleRebuild)
	mux.HandleFunc("/api/health", s.handleHealth)

	server := &http.Server{
		Addr:         s.addr,
		Handler:      corsMiddleware(loggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	log.Printf("[INFO] campus assistant server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

// Rebuild regenerates the index, swaps the pipeline and clears the
// answer cache. Concurrent asks keep using the previous pipeline until
// the swap.
func (s *Server) Rebuild(ctx context.Context) error {
	if s.rebuild == nil {
		return nil
	}
	svc, err := s.rebuild(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.svc = svc
	s.mu.Unlock()
	s.answers.Flush()
	return nil
}

type askRequest struct {
	Question       string `json:"question"`
	IncludeContext bool   `json:"include_context"`
}

type askResponse struct {
	Answer   string `json:"answer"`
	Context  string `json:"context,omitempty"`
	Source   string `json:"source"`
	Degraded bool   `json:"degraded,omitempty"`
}

// handleAsk answers one question.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "Question required", http.StatusBadRequest)
		return
	}

	// Curated facts answer the critical intents without retrieval.
	if s.facts != nil {
		if answer, ok := s.facts.Answer(question); ok {
			writeJSON(w, askResponse{Answer: answer, Source: "facts"})
			return
		}
	}

	cacheKey := strings.ToLower(question)
	if !req.IncludeContext {
		if cached, found := s.answers.Get(cacheKey); found {
			writeJSON(w, askResponse{Answer: cached.(string), Source: "cache"})
			return
		}
	}

	s.mu.RLock()
	svc := s.svc
	s.mu.RUnlock()

	answer, contextBlock, err := svc.AnswerWithContext(r.Context(), question)
	if err != nil {
		if contextBlock == "" {
			log.Printf("[ERROR] answering %q: %v", question, err)
			http.Error(w, "Failed to answer question", http.StatusBadGateway)
			return
		}
		// The generator failed after retrieval succeeded: degrade to a
		// context-only answer instead of failing the request.
		log.Printf("[ERROR] generator failed, degrading to context-only: %v", err)
		resp := askResponse{
			Answer:   degradedAnswer(contextBlock),
			Source:   "rag",
			Degraded: true,
		}
		if req.IncludeContext {
			resp.Context = contextBlock
		}
		writeJSON(w, resp)
		return
	}

	if !req.IncludeContext {
		s.answers.SetDefault(cacheKey, answer)
	}

	resp := askResponse{Answer: answer, Source: "rag"}
	if req.IncludeContext {
		resp.Context = contextBlock
	}
	writeJSON(w, resp)
}

// degradedAnswer shows the retrieved content when generation is down.
func degradedAnswer(contextBlock string) string {
	snippet := contextBlock
	if len(snippet) > 600 {
		snippet = snippet[:600] + "..."
	}
	return "The answer generator is currently unavailable. " +
		"Here is the most relevant content from the official website:\n\n" + snippet
}

// handleRebuild regenerates the index from the current corpus file.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.rebuild == nil {
		http.Error(w, "Rebuild not configured", http.StatusNotImplemented)
		return
	}
	if err := s.Rebuild(r.Context()); err != nil {
		log.Printf("[ERROR] rebuild: %v", err)
		http.Error(w, "Rebuild failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s %v", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
