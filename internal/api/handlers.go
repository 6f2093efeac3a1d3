package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cpacc-prep/studybank/internal/bank"
	"github.com/cpacc-prep/studybank/internal/feedback"
	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

const maxFeedbackBytes = 64 << 10

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, c := range s.deps.Checks {
		if err := c.HealthCheck(ctx); err != nil {
			s.log.Warn("readiness check failed", "dependency", name, "error", err)
			respondError(w, http.StatusServiceUnavailable, "not_ready", name+" is unavailable", nil)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

type questionsResponse struct {
	Questions []question.Presented `json:"questions"`
	Topic     string               `json:"topic,omitempty"`
	Fallback  bool                 `json:"fallback"`
	Count     int                  `json:"count"`
}

// handleQuestions shuffles each record once for this response.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	res, err := s.deps.Selector.Select(r.Context(), bank.Request{Topic: q.Get("topic"), Limit: limit})
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	presented, err := question.PresentAll(res.Questions, s.deps.Shuffler)
	if err != nil {
		s.log.Error("failed to present questions", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to prepare questions", nil)
		return
	}
	if presented == nil {
		presented = []question.Presented{}
	}

	respondJSON(w, http.StatusOK, questionsResponse{
		Questions: presented,
		Topic:     res.Topic,
		Fallback:  res.Fallback,
		Count:     len(presented),
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Topics.All()
	if list == nil {
		list = []topics.Topic{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedback.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "too_large", "feedback body is too large", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object", nil)
		return
	}

	req = req.Normalize()
	if fields := s.validator.Struct(req); fields != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", "feedback is invalid", fields)
		return
	}

	id, err := s.deps.Feedback.Save(r.Context(), feedback.NewSubmission(req))
	if err != nil {
		s.log.Error("failed to save feedback", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save feedback", nil)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}
