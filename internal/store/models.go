package store

import (
	"time"

	"gorm.io/datatypes"
)

// Course is the aggregate root: one row per generated topic. The
// learning plan document embeds a denormalized copy of each lesson's
// section list so the sidebar can render from the course alone.
type Course struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Prompt         string         `gorm:"uniqueIndex;not null" json:"prompt"`
	LearningPlan   datatypes.JSON `json:"learningPlan"`
	CreatorAddress string         `json:"creatorAddress"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Lessons        []Lesson       `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

// Lesson rows are created lazily on first expansion. The composite
// (course_id, lesson_title) key is unique; upserts keep it that way.
type Lesson struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	CourseID    string         `gorm:"not null;uniqueIndex:idx_course_lesson" json:"courseId"`
	LessonTitle string         `gorm:"not null;uniqueIndex:idx_course_lesson" json:"lessonTitle"`
	Sections    datatypes.JSON `json:"sections,omitempty"`
	Content     datatypes.JSON `json:"content,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Section holds the generated content for one (lesson, section title)
// pair, created lazily on first request.
type Section struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	LessonID     string         `gorm:"not null;uniqueIndex:idx_lesson_section" json:"lessonId"`
	SectionTitle string         `gorm:"not null;uniqueIndex:idx_lesson_section" json:"sectionTitle"`
	Content      datatypes.JSON `json:"content,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Progress marks a section as completed or not for a course. There is
// no per-user scoping: the service has no authentication.
type Progress struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	CourseID     string    `gorm:"not null;uniqueIndex:idx_progress_key" json:"courseId"`
	LessonTitle  string    `gorm:"not null;uniqueIndex:idx_progress_key" json:"lessonTitle"`
	SectionIndex int       `gorm:"not null;uniqueIndex:idx_progress_key" json:"sectionIndex"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
