package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/careerflow/pkg/batcher"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/orchestrator"
	"github.com/aretw0/careerflow/pkg/session"
	"github.com/go-playground/validator/v10"
)

var (
	errNoSession   = errors.New("no active session")
	errStageLocked = errors.New("previous stages are not complete")
	errBadRequest  = errors.New("invalid request body")
)

// upstreamError marks a failed collaborator call the client may repeat.
type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.op, e.err)
}

func (e *upstreamError) Unwrap() error {
	return e.err
}

func (e *upstreamError) Retryable() bool {
	return true
}

type retryable interface {
	Retryable() bool
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var r retryable
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &r) && r.Retryable():
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, errNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrEmptyQuestionSet):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAssessmentComplete),
		errors.Is(err, domain.ErrWalkFinished),
		errors.Is(err, domain.ErrNothingToRetry),
		errors.Is(err, batcher.ErrRetryPending),
		errors.Is(err, batcher.ErrNotLoaded),
		errors.Is(err, orchestrator.ErrRetryPending),
		errors.Is(err, orchestrator.ErrNotStarted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	s.writeProblem(w, status, err, nil)
}

// writeProblem writes {"error": ..., "retryable": ...} plus any extra fields.
func (s *Server) writeProblem(w http.ResponseWriter, status int, err error, extra map[string]any) {
	body := map[string]any{"error": err.Error()}
	if status == http.StatusServiceUnavailable {
		body["retryable"] = true
	}
	for k, v := range extra {
		body[k] = v
	}
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
