package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"

	"github.com/learnanything/server/internal/core"
	"github.com/learnanything/server/internal/llm"
	"github.com/learnanything/server/internal/logger"
	"github.com/learnanything/server/internal/store"
)

type APIHandler struct {
	store   *store.Store
	gen     llm.Generator
	cascade *core.CascadeService
	videos  *core.VideoService
	log     *logger.Logger
}

func NewAPIHandler(st *store.Store, gen llm.Generator, cascade *core.CascadeService, videos *core.VideoService, log *logger.Logger) *APIHandler {
	return &APIHandler{store: st, gen: gen, cascade: cascade, videos: videos, log: log}
}

// clientAddress is best-effort request metadata recorded on course
// creation. It is spoofable and never used for access control.
func clientAddress(r *http.Request) string {
	return r.Header.Get("X-Forwarded-For")
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateHandler is the generation gateway: it forwards the prompt to
// the language-model service and returns the parsed JSON verbatim.
func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	raw, err := h.gen.GenerateJSON(r.Context(), req.Prompt)
	if err != nil {
		h.log.Error("generation request failed", "error", err)
		status := statusForError(err)
		writeError(w, status, messageForStatus(status, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// GetCoursesHandler serves both lookup modes: ?prompt= fetches one
// course by topic, otherwise ?limit= lists recent courses.
func (h *APIHandler) GetCoursesHandler(w http.ResponseWriter, r *http.Request) {
	if prompt := r.URL.Query().Get("prompt"); prompt != "" {
		course, err := h.store.GetCourseByPrompt(r.Context(), strings.TrimSpace(prompt))
		if err != nil {
			h.log.Error("failed to get course by prompt", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if course == nil {
			writeError(w, http.StatusNotFound, "course not found")
			return
		}
		writeJSON(w, http.StatusOK, course)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	courses, err := h.store.ListRecentCourses(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list courses", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if courses == nil {
		courses = []store.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *APIHandler) GetCourseByIDHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.store.GetCourseByID(r.Context(), courseID)
	if err != nil {
		h.log.Error("failed to get course", "courseId", courseID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

type UpsertCourseRequest struct {
	Prompt       string          `json:"prompt"`
	LearningPlan json.RawMessage `json:"learningPlan"`
}

func (h *APIHandler) UpsertCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || len(req.LearningPlan) == 0 {
		writeError(w, http.StatusBadRequest, "prompt and learningPlan are required")
		return
	}

	course, err := h.store.UpsertCourse(r.Context(), strings.TrimSpace(req.Prompt), datatypes.JSON(req.LearningPlan), clientAddress(r))
	if err != nil {
		h.log.Error("failed to upsert course", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *APIHandler) GetLessonHandler(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	lessonTitle := r.URL.Query().Get("lessonTitle")
	if courseID == "" || lessonTitle == "" {
		writeError(w, http.StatusBadRequest, "courseId and lessonTitle are required")
		return
	}

	lesson, err := h.store.GetLesson(r.Context(), courseID, lessonTitle)
	if err != nil {
		h.log.Error("failed to get lesson", "courseId", courseID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if lesson == nil {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

type UpsertLessonRequest struct {
	CourseID    string          `json:"courseId"`
	LessonTitle string          `json:"lessonTitle"`
	Sections    json.RawMessage `json:"sections,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

func (h *APIHandler) UpsertLessonHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CourseID == "" || req.LessonTitle == "" {
		writeError(w, http.StatusBadRequest, "courseId and lessonTitle are required")
		return
	}

	lesson, err := h.store.UpsertLesson(r.Context(), req.CourseID, req.LessonTitle, datatypes.JSON(req.Sections), datatypes.JSON(req.Content))
	if err != nil {
		h.log.Error("failed to upsert lesson", "courseId", req.CourseID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (h *APIHandler) GetSectionHandler(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lessonId")
	sectionTitle := r.URL.Query().Get("sectionTitle")
	if lessonID == "" || sectionTitle == "" {
		writeError(w, http.StatusBadRequest, "lessonId and sectionTitle are required")
		return
	}

	section, err := h.store.GetSection(r.Context(), lessonID, sectionTitle)
	if err != nil {
		h.log.Error("failed to get section", "lessonId", lessonID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if section == nil {
		writeError(w, http.StatusNotFound, "section not found")
		return
	}
	writeJSON(w, http.StatusOK, section)
}

type UpsertSectionRequest struct {
	LessonID     string          `json:"lessonId"`
	SectionTitle string          `json:"sectionTitle"`
	Content      json.RawMessage `json:"content"`
}

func (h *APIHandler) UpsertSectionHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.LessonID == "" || req.SectionTitle == "" {
		writeError(w, http.StatusBadRequest, "lessonId and sectionTitle are required")
		return
	}

	section, err := h.store.UpsertSection(r.Context(), req.LessonID, req.SectionTitle, datatypes.JSON(req.Content))
	if err != nil {
		h.log.Error("failed to upsert section", "lessonId", req.LessonID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, section)
}

type VideoSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"maxResults"`
}

// VideoSearchHandler degrades to an empty list on any upstream
// problem; only a missing query is rejected.
func (h *APIHandler) VideoSearchHandler(w http.ResponseWriter, r *http.Request) {
	var req VideoSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	videos := h.videos.Search(r.Context(), req.Query, req.MaxResults)
	writeJSON(w, http.StatusOK, map[string][]core.Video{"videos": videos})
}

type ProgressRequest struct {
	CourseID     string `json:"courseId"`
	LessonTitle  string `json:"lessonTitle"`
	SectionIndex *int   `json:"sectionIndex"`
	Completed    bool   `json:"completed"`
}

func (h *APIHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CourseID == "" || req.LessonTitle == "" || req.SectionIndex == nil {
		writeError(w, http.StatusBadRequest, "courseId, lessonTitle, and sectionIndex are required")
		return
	}

	progress, err := h.store.UpsertProgress(r.Context(), req.CourseID, req.LessonTitle, *req.SectionIndex, req.Completed)
	if err != nil {
		h.log.Error("failed to upsert progress", "courseId", req.CourseID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
