package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	votingservice "pollhub/contexts/polling/voting-service"
	pollerrors "pollhub/contexts/polling/voting-service/domain/errors"
	pollhttp "pollhub/contexts/polling/voting-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "pollhub/internal/platform/httpserver/docs"
)

const maxVoteBodyBytes = 1 << 16

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	polls    votingservice.Module
	identity IdentityResolver
	http     *http.Server
}

func New(
	polls votingservice.Module,
	identity IdentityResolver,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		polls:    polls,
		identity: identity,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /polls", s.handleIndex)
	s.mux.HandleFunc("GET /polls/{question_id}", s.handleDetail)
	s.mux.HandleFunc("GET /polls/{question_id}/results", s.handleResults)
	s.mux.HandleFunc("POST /polls/{question_id}/vote", s.handleVote)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.IndexHandler(r.Context())
	if err != nil {
		s.writePollsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	identity, err := s.identity.Resolve(r)
	if err != nil {
		writePollsError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}
	resp, err := s.polls.Handler.DetailHandler(r.Context(), identity, r.PathValue("question_id"))
	if err != nil {
		s.writePollsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.polls.Handler.ResultsHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		s.writePollsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	identity, err := s.identity.Resolve(r)
	if err != nil {
		writePollsError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}

	var req pollhttp.CastVoteRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxVoteBodyBytes))
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writePollsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.ChoiceID = strings.TrimSpace(req.ChoiceID)

	resp, err := s.polls.Handler.CastVoteHandler(r.Context(), identity, r.PathValue("question_id"), req)
	if err != nil {
		s.writePollsDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) writePollsDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pollerrors.ErrQuestionNotFound),
		errors.Is(err, pollerrors.ErrChoiceNotFound):
		writePollsError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pollerrors.ErrNotPublished):
		writePollsError(w, http.StatusForbidden, "not_published", err.Error())
	case errors.Is(err, pollerrors.ErrVotingClosed):
		writePollsError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, pollerrors.ErrInvalidChoice):
		writePollsError(w, http.StatusUnprocessableEntity, "invalid_choice", err.Error())
	case errors.Is(err, pollerrors.ErrUnauthenticated):
		writePollsError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, pollerrors.ErrReferenceTimeRequired),
		errors.Is(err, pollerrors.ErrInvalidQuestionInput),
		errors.Is(err, pollerrors.ErrInvalidChoiceInput),
		errors.Is(err, pollerrors.ErrInvalidQuestionWindow),
		errors.Is(err, pollerrors.ErrInvalidUserID):
		writePollsError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, pollerrors.ErrConflict):
		writePollsError(w, http.StatusConflict, "conflict", err.Error())
	default:
		s.logger.Error("polls request failed",
			"event", "http_polls_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writePollsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePollsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
