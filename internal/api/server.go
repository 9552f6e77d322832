package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/oracle/internal/answerer"
)

type Server struct {
	router   *chi.Mux
	port     int
	answerer *answerer.Answerer
	corpus   int
}

// NewServer wires the question-answering routes. corpusSize is reported on
// the status endpoint so operators can tell an empty index from a healthy one.
func NewServer(port int, ans *answerer.Answerer, corpusSize int) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		answerer: ans,
		corpus:   corpusSize,
	}

	router.Get("/", s.root)
	router.Get("/ask", s.ask)
	router.Get("/health", s.health)
	router.Get("/api/v1/oracle/status", s.status)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":   "oracle",
		"purpose": "question answering over the chat corpus",
	})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("q")
	if question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing q parameter"})
		return
	}

	resp, err := s.answerer.Answer(r.Context(), question)
	if err != nil {
		slog.Error("Answer failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "retrieval failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"answer": resp.Value})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":           "oracle",
		"status":          "serving",
		"corpus_messages": s.corpus,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
