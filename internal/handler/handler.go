// Package handler exposes the grading pipeline over HTTP as a JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/extract"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/grade"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/score"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	embedder score.Embedder
	config   model.GradingConfig
}

// New creates a new Handler.
func New(s *store.Store, e score.Embedder, cfg model.GradingConfig) *Handler {
	return &Handler{store: s, embedder: e, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/grade", h.handleGrade)
	r.Get("/api/sessions", h.handleListSessions)
	r.Get("/api/sessions/{sessionID}", h.handleGetSession)
}

// gradeRequest carries either inline document text or server-side file paths
// for each side, plus optional overrides of the grading knobs.
type gradeRequest struct {
	StudentText    string   `json:"student_text,omitempty"`
	TeacherText    string   `json:"teacher_text,omitempty"`
	StudentPath    string   `json:"student_path,omitempty"`
	TeacherPath    string   `json:"teacher_path,omitempty"`
	SemanticWeight *float64 `json:"semantic_weight,omitempty"`
	KeywordWeight  *float64 `json:"keyword_weight,omitempty"`
	MaxMarks       *float64 `json:"max_marks,omitempty"`
	Clamp          *bool    `json:"clamp,omitempty"`
}

type gradeResponse struct {
	SessionID      int64              `json:"session_id"`
	StudentAnswers model.AnswerMap    `json:"student_answers"`
	TeacherAnswers model.AnswerMap    `json:"teacher_answers"`
	Report         *model.GradeReport `json:"report"`
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	studentText, err := resolveText(req.StudentText, req.StudentPath)
	if err != nil {
		http.Error(w, "student document: "+err.Error(), http.StatusBadRequest)
		return
	}
	teacherText, err := resolveText(req.TeacherText, req.TeacherPath)
	if err != nil {
		http.Error(w, "teacher document: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := h.config
	if req.SemanticWeight != nil {
		cfg.SemanticWeight = *req.SemanticWeight
	}
	if req.KeywordWeight != nil {
		cfg.KeywordWeight = *req.KeywordWeight
	}
	if req.MaxMarks != nil {
		cfg.MaxMarks = *req.MaxMarks
	}
	if req.Clamp != nil {
		cfg.Clamp = *req.Clamp
	}

	grader := grade.New(h.embedder, cfg)
	report, studentMap, teacherMap, err := grade.GradeTexts(r.Context(), grader, studentText, teacherText)
	if err != nil {
		switch {
		case errors.Is(err, grade.ErrEmptyQuestionSet), errors.Is(err, grade.ErrNoDocumentText):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, score.ErrEmbeddingUnavailable):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	sessionID, err := h.persist(req, studentText, teacherText, studentMap, teacherMap, cfg, report)
	if err != nil {
		slog.Error("persist grading session", "error", err)
		http.Error(w, "persist session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, gradeResponse{
		SessionID:      sessionID,
		StudentAnswers: studentMap,
		TeacherAnswers: teacherMap,
		Report:         report,
	})
}

func (h *Handler) persist(req gradeRequest, studentText, teacherText string,
	studentMap, teacherMap model.AnswerMap, cfg model.GradingConfig, report *model.GradeReport) (int64, error) {

	studentDocID, err := h.store.InsertDocument(model.Document{
		Role: model.RoleStudent, SourcePath: req.StudentPath, Text: studentText,
	})
	if err != nil {
		return 0, err
	}
	teacherDocID, err := h.store.InsertDocument(model.Document{
		Role: model.RoleTeacher, SourcePath: req.TeacherPath, Text: teacherText,
	})
	if err != nil {
		return 0, err
	}
	if err := h.store.SaveAnswers(studentDocID, studentMap); err != nil {
		return 0, err
	}
	if err := h.store.SaveAnswers(teacherDocID, teacherMap); err != nil {
		return 0, err
	}

	sessionID, err := h.store.CreateSession(model.GradingSession{
		StudentDocID:   studentDocID,
		TeacherDocID:   teacherDocID,
		SemanticWeight: cfg.SemanticWeight,
		KeywordWeight:  cfg.KeywordWeight,
		MaxMarks:       cfg.MaxMarks,
		Status:         model.StatusGraded,
	})
	if err != nil {
		return 0, err
	}
	return sessionID, h.store.SaveReport(sessionID, report)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []model.GradingSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}

	sess, err := h.store.GetSession(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	report, err := h.store.GetReport(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Session model.GradingSession `json:"session"`
		Report  *model.GradeReport   `json:"report"`
	}{sess, report})
}

// resolveText picks inline text when given, otherwise extracts from a
// server-side file path. One of the two must be present.
func resolveText(text, path string) (string, error) {
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", errors.New("either text or path is required")
	}
	return extract.File(path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
