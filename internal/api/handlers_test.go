package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnanything/server/internal/core"
	"github.com/learnanything/server/internal/llm"
	"github.com/learnanything/server/internal/logger"
	"github.com/learnanything/server/internal/store"
)

type stubSearcher struct {
	videos []core.Video
	err    error
}

func (s *stubSearcher) Search(context.Context, string, int64) ([]core.Video, error) {
	return s.videos, s.err
}

type testEnv struct {
	server *httptest.Server
	store  *store.Store
	gen    *llm.MockGenerator
}

func newTestEnv(t *testing.T, searcher core.VideoSearcher, responses ...llm.MockResponse) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := logger.NewNop()
	gen := llm.NewMockGenerator(responses...)
	cascade := core.NewCascadeService(st, gen, log)
	videos := core.NewVideoService(searcher, log)
	handler := NewAPIHandler(st, gen, cascade, videos, log)

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, store: st, gen: gen}
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.get(t, "/api/health")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/generate", `{"prompt":"  "}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, env.gen.Calls())
}

func TestGeneratePassthrough(t *testing.T) {
	env := newTestEnv(t, nil, llm.MockResponse{Content: json.RawMessage(`{"answer":42}`)})

	resp := env.post(t, "/api/generate", `{"prompt":"anything"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]int
	decodeBody(t, resp, &body)
	assert.Equal(t, 42, body["answer"])
}

func TestGenerateUpstreamFailure(t *testing.T) {
	env := newTestEnv(t, nil, llm.MockResponse{Err: &llm.ErrUnavailable{Err: errors.New("down")}})

	resp := env.post(t, "/api/generate", `{"prompt":"anything"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestResolveCourseEndToEnd(t *testing.T) {
	env := newTestEnv(t, nil, llm.MockResponse{
		Content: json.RawMessage(`{"title":"Apple I: A Retrocomputing Primer","lessons":["History","Hardware","Software"]}`),
	})

	resp := env.post(t, "/api/courses/resolve", `{"prompt":"Apple 1"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var course store.Course
	decodeBody(t, resp, &course)
	assert.Equal(t, "Apple 1", course.Prompt)
	require.NotEmpty(t, course.ID)

	// The same course is now retrievable by prompt and by id.
	resp = env.get(t, "/api/courses?prompt=Apple+1")
	var byPrompt store.Course
	decodeBody(t, resp, &byPrompt)
	assert.Equal(t, course.ID, byPrompt.ID)

	resp = env.get(t, "/api/courses/"+course.ID)
	var byID store.Course
	decodeBody(t, resp, &byID)
	assert.Equal(t, course.ID, byID.ID)

	assert.Equal(t, 1, env.gen.Calls())
}

func TestResolveCourseEmptyPrompt(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/courses/resolve", `{"prompt":""}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCourseNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.get(t, "/api/courses/no-such-id")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.get(t, "/api/courses?prompt=unseen")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCoursesEmpty(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.get(t, "/api/courses")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var courses []store.Course
	decodeBody(t, resp, &courses)
	assert.Empty(t, courses)
}

func TestExpandLessonValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/lessons/expand", `{"courseId":"","lessonTitle":"Hardware"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpandLessonUnknownCourse(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/lessons/expand", `{"courseId":"missing","lessonTitle":"Hardware"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpandSectionEndToEnd(t *testing.T) {
	env := newTestEnv(t, nil,
		llm.MockResponse{Content: json.RawMessage(`{"title":"Apple I","lessons":["Hardware"]}`)},
		llm.MockResponse{Content: json.RawMessage(`{"sections":["CPU"]}`)},
		llm.MockResponse{Content: json.RawMessage(`{"content":"The 6502 at 1 MHz."}`)},
	)

	resp := env.post(t, "/api/courses/resolve", `{"prompt":"Apple 1"}`)
	var course store.Course
	decodeBody(t, resp, &course)

	resp = env.post(t, "/api/lessons/expand", `{"courseId":"`+course.ID+`","lessonTitle":"Hardware"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var lessonBody map[string][]string
	decodeBody(t, resp, &lessonBody)
	assert.Equal(t, []string{"CPU"}, lessonBody["sections"])

	resp = env.post(t, "/api/sections/expand", `{"courseId":"`+course.ID+`","lessonTitle":"Hardware","sectionTitle":"CPU"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var content store.SectionContent
	decodeBody(t, resp, &content)
	assert.Equal(t, "The 6502 at 1 MHz.", content.Content)

	assert.Equal(t, 3, env.gen.Calls())
}

func TestUpsertAndGetLesson(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/lessons", `{"courseId":"c1","lessonTitle":"Hardware","sections":{"sections":["CPU"]}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.get(t, "/api/lessons?courseId=c1&lessonTitle=Hardware")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var lesson store.Lesson
	decodeBody(t, resp, &lesson)
	assert.Equal(t, "Hardware", lesson.LessonTitle)

	resp = env.get(t, "/api/lessons?courseId=c1")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVideoSearchValidationAndDegradation(t *testing.T) {
	env := newTestEnv(t, &stubSearcher{err: errors.New("quota exceeded")})

	resp := env.post(t, "/api/videos/search", `{"query":""}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Upstream failure still yields 200 with an empty list.
	resp = env.post(t, "/api/videos/search", `{"query":"apple 1 hardware"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string][]core.Video
	decodeBody(t, resp, &body)
	assert.Empty(t, body["videos"])
}

func TestVideoSearchSuccess(t *testing.T) {
	env := newTestEnv(t, &stubSearcher{videos: []core.Video{{ID: "abc", Title: "Apple I restoration"}}})

	resp := env.post(t, "/api/videos/search", `{"query":"apple 1 hardware","maxResults":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string][]core.Video
	decodeBody(t, resp, &body)
	require.Len(t, body["videos"], 1)
	assert.Equal(t, "abc", body["videos"][0].ID)
}

func TestProgressValidationAndUpsert(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.post(t, "/api/progress", `{"courseId":"c1","lessonTitle":"Hardware"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, "/api/progress", `{"courseId":"c1","lessonTitle":"Hardware","sectionIndex":0,"completed":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var progress store.Progress
	decodeBody(t, resp, &progress)
	assert.True(t, progress.Completed)
}
