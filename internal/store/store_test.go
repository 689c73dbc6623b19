package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestGetCourseByPromptMiss(t *testing.T) {
	st := newTestStore(t)

	course, err := st.GetCourseByPrompt(context.Background(), "quantum computing")
	require.NoError(t, err)
	assert.Nil(t, course)
}

func TestUpsertCourseCreatesThenMerges(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan := datatypes.JSON(`{"title":"Go","lessons":[{"id":"a","lesson":"Basics"}]}`)
	created, err := st.UpsertCourse(ctx, "golang", plan, "203.0.113.9")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "golang", created.Prompt)
	assert.Equal(t, "203.0.113.9", created.CreatorAddress)

	// Same prompt resolves to the same row; a new creator address does
	// not overwrite the recorded one.
	updatedPlan := datatypes.JSON(`{"title":"Go","lessons":[{"id":"a","lesson":"Basics","sections":["Syntax"]}]}`)
	updated, err := st.UpsertCourse(ctx, "golang", updatedPlan, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.JSONEq(t, string(updatedPlan), string(updated.LearningPlan))

	stored, err := st.GetCourseByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "203.0.113.9", stored.CreatorAddress)
	assert.JSONEq(t, string(updatedPlan), string(stored.LearningPlan))
}

func TestUpsertCourseEmptyPlanKeepsExisting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan := datatypes.JSON(`{"title":"Chess","lessons":[]}`)
	_, err := st.UpsertCourse(ctx, "chess", plan, "")
	require.NoError(t, err)

	course, err := st.UpsertCourse(ctx, "chess", nil, "")
	require.NoError(t, err)
	assert.JSONEq(t, string(plan), string(course.LearningPlan))
}

func TestListRecentCoursesOrdering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, prompt := range []string{"first", "second", "third"} {
		_, err := st.UpsertCourse(ctx, prompt, datatypes.JSON(`{}`), "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	courses, err := st.ListRecentCourses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "third", courses[0].Prompt)
	assert.Equal(t, "second", courses[1].Prompt)
}

func TestUpsertLessonMergesNilFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sections := datatypes.JSON(`{"sections":["CPU","Memory"]}`)
	created, err := st.UpsertLesson(ctx, "course-1", "Hardware", sections, nil)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// Writing content must not clobber the stored section list.
	content := datatypes.JSON(`{"title":"Hardware","sections":[]}`)
	updated, err := st.UpsertLesson(ctx, "course-1", "Hardware", nil, content)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := st.GetLesson(ctx, "course-1", "Hardware")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.JSONEq(t, string(sections), string(stored.Sections))
	assert.JSONEq(t, string(content), string(stored.Content))
}

func TestLessonsKeyedPerCourse(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.UpsertLesson(ctx, "course-a", "History", datatypes.JSON(`{"sections":["Origins"]}`), nil)
	require.NoError(t, err)
	b, err := st.UpsertLesson(ctx, "course-b", "History", datatypes.JSON(`{"sections":["Timeline"]}`), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUpsertSectionRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	missing, err := st.GetSection(ctx, "lesson-1", "CPU")
	require.NoError(t, err)
	assert.Nil(t, missing)

	content := datatypes.JSON(`{"content":"The 6502 at 1 MHz."}`)
	created, err := st.UpsertSection(ctx, "lesson-1", "CPU", content)
	require.NoError(t, err)

	replacement := datatypes.JSON(`{"content":"The 6502 at 1 MHz.","keyPoints":["8-bit"]}`)
	updated, err := st.UpsertSection(ctx, "lesson-1", "CPU", replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := st.GetSection(ctx, "lesson-1", "CPU")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.JSONEq(t, string(replacement), string(stored.Content))
}

func TestUpsertProgressTogglesCompletion(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.UpsertProgress(ctx, "course-1", "Hardware", 0, true)
	require.NoError(t, err)
	assert.True(t, created.Completed)

	toggled, err := st.UpsertProgress(ctx, "course-1", "Hardware", 0, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, toggled.ID)
	assert.False(t, toggled.Completed)

	other, err := st.UpsertProgress(ctx, "course-1", "Hardware", 1, true)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestGetCourseByIDPreloadsLessons(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	course, err := st.UpsertCourse(ctx, "baking", datatypes.JSON(`{}`), "")
	require.NoError(t, err)
	_, err = st.UpsertLesson(ctx, course.ID, "Sourdough", datatypes.JSON(`{"sections":["Starter"]}`), nil)
	require.NoError(t, err)

	loaded, err := st.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Lessons, 1)
	assert.Equal(t, "Sourdough", loaded.Lessons[0].LessonTitle)
}
