package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/learnanything/server/internal/llm"
	"github.com/learnanything/server/internal/logger"
	"github.com/learnanything/server/internal/store"
)

var (
	ErrEmptyTopic = errors.New("topic must not be empty")
	ErrNotFound   = errors.New("not found")
)

// CascadeService implements the get-or-generate-and-persist sequence at
// course, lesson, and section granularity. Every call takes all the
// keys it needs; there is no ambient per-request state and no locking —
// two concurrent misses on the same key both generate and the second
// upsert wins.
type CascadeService struct {
	store *store.Store
	gen   llm.Generator
	log   *logger.Logger
}

func NewCascadeService(st *store.Store, gen llm.Generator, log *logger.Logger) *CascadeService {
	return &CascadeService{store: st, gen: gen, log: log}
}

// ResolveCourse returns the course for topic, generating and persisting
// a learning plan on first request. Each plan lesson gets a stable uuid
// at creation time so later partial updates can target it even when two
// lessons share a title.
func (s *CascadeService) ResolveCourse(ctx context.Context, topic, creatorAddress string) (*store.Course, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	cached, err := s.store.GetCourseByPrompt(ctx, topic)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	raw, err := s.gen.GenerateJSON(ctx, LearningPlanPrompt(topic))
	if err != nil {
		return nil, fmt.Errorf("failed to generate learning plan: %w", err)
	}

	var generated struct {
		Title   string   `json:"title"`
		Lessons []string `json:"lessons"`
	}
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: err}
	}
	if generated.Title == "" || len(generated.Lessons) == 0 {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: fmt.Errorf("learning plan is missing title or lessons")}
	}

	plan := store.LearningPlan{Title: generated.Title}
	for _, title := range generated.Lessons {
		plan.Lessons = append(plan.Lessons, store.PlanLesson{ID: uuid.NewString(), Lesson: title})
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode learning plan: %w", err)
	}

	course, err := s.store.UpsertCourse(ctx, topic, planJSON, creatorAddress)
	if err != nil {
		return nil, err
	}
	s.log.Info("created course", "courseId", course.ID, "prompt", topic, "lessons", len(plan.Lessons))
	return course, nil
}

// ExpandLesson returns the section titles for a lesson, generating and
// persisting them on first expansion. After a successful generation the
// denormalized copy inside the course plan is rewritten as well; if
// that second write fails the lesson row still wins on the next read,
// so the staleness self-heals.
func (s *CascadeService) ExpandLesson(ctx context.Context, courseID, lessonTitle string) ([]string, error) {
	lesson, err := s.store.GetLesson(ctx, courseID, lessonTitle)
	if err != nil {
		return nil, err
	}
	if lesson != nil && len(lesson.Sections) > 0 {
		sections, err := store.DecodeSectionList(lesson.Sections)
		if err != nil {
			s.log.Warn("stored section list is malformed, regenerating", "lessonId", lesson.ID, "error", err)
		} else if len(sections) > 0 {
			return sections, nil
		}
	}

	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	plan, err := store.DecodeLearningPlan(course.LearningPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to decode course plan: %w", err)
	}

	var planEntry *store.PlanLesson
	allLessons := make([]string, 0, len(plan.Lessons))
	for i := range plan.Lessons {
		allLessons = append(allLessons, plan.Lessons[i].Lesson)
		if planEntry == nil && plan.Lessons[i].Lesson == lessonTitle {
			planEntry = &plan.Lessons[i]
		}
	}
	if planEntry == nil {
		return nil, fmt.Errorf("lesson %q in course %s: %w", lessonTitle, courseID, ErrNotFound)
	}

	raw, err := s.gen.GenerateJSON(ctx, LessonSectionsPrompt(lessonTitle, allLessons))
	if err != nil {
		return nil, fmt.Errorf("failed to generate lesson sections: %w", err)
	}

	var sectionList store.SectionList
	if err := json.Unmarshal(raw, &sectionList); err != nil {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: err}
	}
	if len(sectionList.Sections) == 0 {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: fmt.Errorf("section list is empty")}
	}

	sectionsJSON, err := json.Marshal(sectionList)
	if err != nil {
		return nil, fmt.Errorf("failed to encode section list: %w", err)
	}
	if _, err := s.store.UpsertLesson(ctx, courseID, lessonTitle, sectionsJSON, nil); err != nil {
		return nil, err
	}

	if err := s.syncLessonIntoCourse(ctx, course, plan, planEntry.ID, sectionList.Sections); err != nil {
		s.log.Warn("failed to sync lesson sections into course plan", "courseId", courseID, "lessonId", planEntry.ID, "error", err)
	}

	s.log.Info("expanded lesson", "courseId", courseID, "lessonTitle", lessonTitle, "sections", len(sectionList.Sections))
	return sectionList.Sections, nil
}

// syncLessonIntoCourse rewrites one plan entry's embedded section list
// and saves the course. The standalone lesson row is authoritative;
// this copy exists so the course document alone can render the sidebar.
func (s *CascadeService) syncLessonIntoCourse(ctx context.Context, course *store.Course, plan *store.LearningPlan, lessonID string, sections []string) error {
	for i := range plan.Lessons {
		if plan.Lessons[i].ID != lessonID {
			continue
		}
		plan.Lessons[i].Sections = sections
		planJSON, err := json.Marshal(plan)
		if err != nil {
			return fmt.Errorf("failed to encode course plan: %w", err)
		}
		_, err = s.store.UpsertCourse(ctx, course.Prompt, planJSON, "")
		return err
	}
	return fmt.Errorf("lesson %s is not present in the course plan", lessonID)
}

// ExpandSection returns the full content for a section, generating and
// persisting it on first request. The lesson id is resolved from
// (courseID, lessonTitle) since callers navigate by titles, not
// surrogate ids. Section content is never denormalized upward.
func (s *CascadeService) ExpandSection(ctx context.Context, courseID, lessonTitle, sectionTitle string) (*store.SectionContent, error) {
	lesson, err := s.store.GetLesson(ctx, courseID, lessonTitle)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %q in course %s: %w", lessonTitle, courseID, ErrNotFound)
	}

	cached, err := s.store.GetSection(ctx, lesson.ID, sectionTitle)
	if err != nil {
		return nil, err
	}
	if cached != nil && len(cached.Content) > 0 {
		var content store.SectionContent
		if err := json.Unmarshal(cached.Content, &content); err != nil {
			s.log.Warn("stored section content is malformed, regenerating", "sectionId", cached.ID, "error", err)
		} else {
			return &content, nil
		}
	}

	raw, err := s.gen.GenerateJSON(ctx, SectionContentPrompt(lessonTitle, sectionTitle))
	if err != nil {
		return nil, fmt.Errorf("failed to generate section content: %w", err)
	}

	var content store.SectionContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: err}
	}
	if content.Content == "" {
		return nil, &llm.ErrBadJSON{Raw: string(raw), Err: fmt.Errorf("section content is empty")}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode section content: %w", err)
	}
	if _, err := s.store.UpsertSection(ctx, lesson.ID, sectionTitle, contentJSON); err != nil {
		return nil, err
	}

	s.log.Info("expanded section", "lessonId", lesson.ID, "sectionTitle", sectionTitle)
	return &content, nil
}
