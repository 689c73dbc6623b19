package api

import (
	"encoding/json"
	"net/http"
)

// The cascade handlers run the whole get-or-generate-and-persist
// sequence server side so clients only ever issue one request per
// drill-down step.

type ResolveCourseRequest struct {
	Prompt string `json:"prompt"`
}

func (h *APIHandler) ResolveCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req ResolveCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	course, err := h.cascade.ResolveCourse(r.Context(), req.Prompt, clientAddress(r))
	if err != nil {
		h.log.Error("course cascade failed", "prompt", req.Prompt, "error", err)
		status := statusForError(err)
		writeError(w, status, messageForStatus(status, err))
		return
	}
	writeJSON(w, http.StatusOK, course)
}

type ExpandLessonRequest struct {
	CourseID    string `json:"courseId"`
	LessonTitle string `json:"lessonTitle"`
}

func (h *APIHandler) ExpandLessonHandler(w http.ResponseWriter, r *http.Request) {
	var req ExpandLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CourseID == "" || req.LessonTitle == "" {
		writeError(w, http.StatusBadRequest, "courseId and lessonTitle are required")
		return
	}

	sections, err := h.cascade.ExpandLesson(r.Context(), req.CourseID, req.LessonTitle)
	if err != nil {
		h.log.Error("lesson cascade failed", "courseId", req.CourseID, "lessonTitle", req.LessonTitle, "error", err)
		status := statusForError(err)
		writeError(w, status, messageForStatus(status, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sections": sections})
}

type ExpandSectionRequest struct {
	CourseID     string `json:"courseId"`
	LessonTitle  string `json:"lessonTitle"`
	SectionTitle string `json:"sectionTitle"`
}

func (h *APIHandler) ExpandSectionHandler(w http.ResponseWriter, r *http.Request) {
	var req ExpandSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CourseID == "" || req.LessonTitle == "" || req.SectionTitle == "" {
		writeError(w, http.StatusBadRequest, "courseId, lessonTitle, and sectionTitle are required")
		return
	}

	content, err := h.cascade.ExpandSection(r.Context(), req.CourseID, req.LessonTitle, req.SectionTitle)
	if err != nil {
		h.log.Error("section cascade failed", "courseId", req.CourseID, "sectionTitle", req.SectionTitle, "error", err)
		status := statusForError(err)
		writeError(w, status, messageForStatus(status, err))
		return
	}
	writeJSON(w, http.StatusOK, content)
}
