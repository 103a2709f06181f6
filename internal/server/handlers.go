package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/grading"
	"github.com/jeeace/jeeace/internal/questiongen"
	"github.com/jeeace/jeeace/internal/store"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// defaultGenerateCount applies when a generate request omits count.
const defaultGenerateCount = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"subjects": questiongen.DefaultSubjects})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluator.EvaluateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	res, err := grading.Evaluate(req.Questions, req.UserAnswers, s.deps.Scheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type generateRequest struct {
	Subject string   `json:"subject" validate:"required"`
	Count   int      `json:"count"`
	Topics  []string `json:"topics"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Generator == nil {
		writeError(w, http.StatusServiceUnavailable, "question generation is not configured")
		return
	}
	var req generateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	count := req.Count
	if count <= 0 {
		count = defaultGenerateCount
	}
	count = min(count, questiongen.MaxRemoteBatch)

	qs, err := s.deps.Generator.Generate(r.Context(), questiongen.GenerateInput{
		Subject: req.Subject,
		Count:   count,
		Topics:  req.Topics,
	})
	if err != nil && len(qs) == 0 {
		s.log.Error().Err(err).Str("subject", req.Subject).Msg("generate questions")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if qs == nil {
		qs = []testconfig.Question{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": qs,
		"subject":   req.Subject,
		"count":     len(qs),
	})
}

type saveTestRequest struct {
	UserID     string                        `json:"userId" validate:"required"`
	TestConfig *testconfig.TestConfiguration `json:"testConfig" validate:"required"`
}

func (s *Server) handleSaveTest(w http.ResponseWriter, r *http.Request) {
	var req saveTestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing userId or testConfig")
		return
	}
	if !s.authorized(w, r, req.UserID) {
		return
	}

	cfg := req.TestConfig
	if err := testconfig.CheckTotal(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.deps.Tests.Create(r.Context(), &evaluator.SavedTest{
		UserID:         req.UserID,
		TestName:       cfg.TestName,
		TestType:       string(cfg.TestType),
		Subjects:       cfg.SubjectList(),
		TotalQuestions: len(cfg.Questions),
		TimeLimit:      cfg.TimeLimit,
		Questions:      cfg.Questions,
	})
	if err != nil {
		s.serverError(w, "save test", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"testId": id})
}

func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var rec evaluator.ResultRecord
	if err := decode(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.authorized(w, r, rec.UserID) {
		return
	}
	if rec.TestName == "" {
		rec.TestName = "Unnamed Test"
	}
	rec.ID = ""

	id, err := s.deps.Results.Create(r.Context(), &rec)
	if err != nil {
		s.serverError(w, "save test result", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Test result saved successfully",
		"resultId": id,
	})
}

type historyRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (s *Server) handleTestHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing userId")
		return
	}
	if !s.authorized(w, r, req.UserID) {
		return
	}
	tests, err := s.deps.Tests.ListByUser(r.Context(), req.UserID)
	if err != nil {
		s.serverError(w, "test history", err)
		return
	}
	if tests == nil {
		tests = []evaluator.SavedTest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tests": tests})
}

func (s *Server) handleUserResults(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !s.authorized(w, r, userID) {
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	res, err := s.deps.Results.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		s.serverError(w, "user test results", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !s.authorized(w, r, userID) {
		return
	}
	stats, err := s.deps.Results.Stats(r.Context(), userID)
	if err != nil {
		s.serverError(w, "user stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Test result not found")
		return
	}
	if err != nil {
		s.serverError(w, "test result", err)
		return
	}
	if !s.authorized(w, r, rec.UserID) {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// authorized enforces that a token-authenticated caller only touches its
// own data. Without auth configured every caller is trusted.
func (s *Server) authorized(w http.ResponseWriter, r *http.Request, userID string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok || claims.Subject == userID {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return false
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
