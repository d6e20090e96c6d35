package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/report"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/store"
)

// RecommendationRequest carries everything the engine needs. Courses
// defaults to the loaded catalog when omitted.
type RecommendationRequest struct {
	Student  adaptive.Student        `json:"student"`
	Courses  curriculum.Catalog      `json:"courses,omitempty"`
	Progress adaptive.CurrentProgress `json:"progress"`
}

// AnalysisRequest asks for diagnostics over a raw history.
type AnalysisRequest struct {
	History []adaptive.AssessmentRecord `json:"history"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := validateRecommendationRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle := s.engine.GenerateRecommendations(r.Context(), req.Student, s.catalogFor(req.Courses), req.Progress)
	writeJSON(w, http.StatusOK, bundle)
}

// catalogFor returns courses from the request, or the loaded catalog.
func (s *Server) catalogFor(courses curriculum.Catalog) curriculum.Catalog {
	if len(courses) > 0 {
		return courses
	}
	return s.catalog.Courses()
}

func validateRecommendationRequest(req RecommendationRequest) error {
	for i, c := range req.Courses {
		if c.ID == "" {
			return fmt.Errorf("courses[%d]: id is required", i)
		}
	}
	for i, rec := range req.Student.History {
		if rec.Score < 0 || rec.Score > 100 {
			return fmt.Errorf("student.assessmentHistory[%d]: score %v out of range 0-100", i, rec.Score)
		}
	}
	return nil
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.AnalyzePerformance(req.History))
}

func (s *Server) handleStudentRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	student, err := s.store.Student(r.Context(), id)
	if errors.Is(err, store.ErrStudentNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to load student", "student_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load student")
		return
	}

	progress, err := s.store.Progress(r.Context(), id, r.URL.Query().Get("course"))
	if err != nil {
		slog.Error("failed to load progress", "student_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	bundle := s.engine.GenerateRecommendations(r.Context(), student, s.catalog.Courses(), progress)

	if wantsWorkbook(r) {
		w.Header().Set("Content-Type", report.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "recommendations-"+id+".xlsx"))
		if err := report.WriteWorkbook(w, id, bundle); err != nil {
			slog.Error("failed to write workbook", "student_id", id, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func wantsWorkbook(r *http.Request) bool {
	if r.URL.Query().Get("format") == "xlsx" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), report.ContentType)
}

func (s *Server) handleRecordAssessment(w http.ResponseWriter, r *http.Request) {
	var rec adaptive.AssessmentRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	stored, err := s.store.RecordAssessment(r.Context(), r.PathValue("id"), rec)
	if errors.Is(err, adaptive.ErrInvalidScore) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to record assessment", "student_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record assessment")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var progress adaptive.CurrentProgress
	if err := decodeJSON(w, r, &progress); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if progress.CourseID == "" {
		writeError(w, http.StatusBadRequest, "courseId is required")
		return
	}

	err := s.store.SaveProgress(r.Context(), r.PathValue("id"), progress)
	if errors.Is(err, adaptive.ErrUnknownDifficulty) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to save progress", "student_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
