package store

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// LearningPlan is the document stored in Course.LearningPlan.
type LearningPlan struct {
	Title   string       `json:"title"`
	Lessons []PlanLesson `json:"lessons"`
}

// PlanLesson is one entry of the plan. The ID is assigned at creation
// time so later partial updates can target a lesson even when two
// lessons share a title. Sections is the denormalized copy of the
// standalone Lesson row's section list; the Lesson row is authoritative.
type PlanLesson struct {
	ID       string   `json:"id"`
	Lesson   string   `json:"lesson"`
	Sections []string `json:"sections,omitempty"`
}

// SectionList is the document stored in Lesson.Sections.
type SectionList struct {
	Sections []string `json:"sections"`
}

// SectionContent is the document stored in Section.Content.
type SectionContent struct {
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints,omitempty"`
	Examples  []string `json:"examples,omitempty"`
	Exercises []string `json:"exercises,omitempty"`
}

// LessonContent is the optional whole-lesson content document stored in
// Lesson.Content.
type LessonContent struct {
	Title    string                 `json:"title"`
	Sections []LessonContentSection `json:"sections"`
}

type LessonContentSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints,omitempty"`
	Examples  []string `json:"examples,omitempty"`
	Exercises []string `json:"exercises,omitempty"`
}

// DecodeSectionList reads a lesson's section list. New rows store the
// wrapped {"sections": [...]} object; historical rows stored the bare
// array, so both shapes are accepted.
func DecodeSectionList(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wrapped SectionList
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Sections, nil
	}
	var bare []string
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// DecodeLearningPlan reads a course's plan document.
func DecodeLearningPlan(raw datatypes.JSON) (*LearningPlan, error) {
	if len(raw) == 0 {
		return &LearningPlan{}, nil
	}
	var plan LearningPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
