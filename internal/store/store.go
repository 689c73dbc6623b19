package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the ORM-backed persistence layer. Get methods return
// (nil, nil) when the row is absent so callers can branch into the
// generate-and-cache path without treating a miss as a failure.
// Upserts are the sole mutation: create the row, or merge the provided
// fields into it, leaving unspecified fields untouched.
type Store struct {
	db *gorm.DB
}

func Open(dataSourceName string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Course{}, &Lesson{}, &Section{}, &Progress{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Course methods

func (s *Store) GetCourseByPrompt(ctx context.Context, prompt string) (*Course, error) {
	var course Course
	err := s.db.WithContext(ctx).Where("prompt = ?", prompt).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query course by prompt: %w", err)
	}
	return &course, nil
}

func (s *Store) GetCourseByID(ctx context.Context, id string) (*Course, error) {
	var course Course
	err := s.db.WithContext(ctx).Preload("Lessons").Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query course by id: %w", err)
	}
	return &course, nil
}

func (s *Store) ListRecentCourses(ctx context.Context, limit int) ([]Course, error) {
	var courses []Course
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// UpsertCourse creates the course for prompt if absent, otherwise
// replaces its learning plan. The creator address is recorded only on
// creation; it is best-effort request metadata, never identity.
func (s *Store) UpsertCourse(ctx context.Context, prompt string, learningPlan datatypes.JSON, creatorAddress string) (*Course, error) {
	existing, err := s.GetCourseByPrompt(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		course := &Course{
			ID:             uuid.NewString(),
			Prompt:         prompt,
			LearningPlan:   learningPlan,
			CreatorAddress: creatorAddress,
		}
		if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
			return nil, fmt.Errorf("failed to insert course: %w", err)
		}
		return course, nil
	}

	if len(learningPlan) > 0 {
		if err := s.db.WithContext(ctx).Model(existing).Update("learning_plan", learningPlan).Error; err != nil {
			return nil, fmt.Errorf("failed to update course: %w", err)
		}
		existing.LearningPlan = learningPlan
	}
	return existing, nil
}

// Lesson methods

func (s *Store) GetLesson(ctx context.Context, courseID, lessonTitle string) (*Lesson, error) {
	var lesson Lesson
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND lesson_title = ?", courseID, lessonTitle).
		First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}
	return &lesson, nil
}

// UpsertLesson creates or merges the lesson row for the composite key.
// Nil sections/content leave the stored fields untouched.
func (s *Store) UpsertLesson(ctx context.Context, courseID, lessonTitle string, sections, content datatypes.JSON) (*Lesson, error) {
	existing, err := s.GetLesson(ctx, courseID, lessonTitle)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		lesson := &Lesson{
			ID:          uuid.NewString(),
			CourseID:    courseID,
			LessonTitle: lessonTitle,
			Sections:    sections,
			Content:     content,
		}
		if err := s.db.WithContext(ctx).Create(lesson).Error; err != nil {
			return nil, fmt.Errorf("failed to insert lesson: %w", err)
		}
		return lesson, nil
	}

	updates := map[string]interface{}{}
	if sections != nil {
		updates["sections"] = sections
		existing.Sections = sections
	}
	if content != nil {
		updates["content"] = content
		existing.Content = content
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update lesson: %w", err)
		}
	}
	return existing, nil
}

// Section methods

func (s *Store) GetSection(ctx context.Context, lessonID, sectionTitle string) (*Section, error) {
	var section Section
	err := s.db.WithContext(ctx).
		Where("lesson_id = ? AND section_title = ?", lessonID, sectionTitle).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query section: %w", err)
	}
	return &section, nil
}

func (s *Store) UpsertSection(ctx context.Context, lessonID, sectionTitle string, content datatypes.JSON) (*Section, error) {
	existing, err := s.GetSection(ctx, lessonID, sectionTitle)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		section := &Section{
			ID:           uuid.NewString(),
			LessonID:     lessonID,
			SectionTitle: sectionTitle,
			Content:      content,
		}
		if err := s.db.WithContext(ctx).Create(section).Error; err != nil {
			return nil, fmt.Errorf("failed to insert section: %w", err)
		}
		return section, nil
	}

	if content != nil {
		if err := s.db.WithContext(ctx).Model(existing).Update("content", content).Error; err != nil {
			return nil, fmt.Errorf("failed to update section: %w", err)
		}
		existing.Content = content
	}
	return existing, nil
}

// Progress methods

func (s *Store) GetProgress(ctx context.Context, courseID, lessonTitle string, sectionIndex int) (*Progress, error) {
	var progress Progress
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND lesson_title = ? AND section_index = ?", courseID, lessonTitle, sectionIndex).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	return &progress, nil
}

func (s *Store) UpsertProgress(ctx context.Context, courseID, lessonTitle string, sectionIndex int, completed bool) (*Progress, error) {
	existing, err := s.GetProgress(ctx, courseID, lessonTitle, sectionIndex)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		progress := &Progress{
			ID:           uuid.NewString(),
			CourseID:     courseID,
			LessonTitle:  lessonTitle,
			SectionIndex: sectionIndex,
			Completed:    completed,
		}
		if err := s.db.WithContext(ctx).Create(progress).Error; err != nil {
			return nil, fmt.Errorf("failed to insert progress: %w", err)
		}
		return progress, nil
	}

	if err := s.db.WithContext(ctx).Model(existing).Update("completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	existing.Completed = completed
	return existing, nil
}
