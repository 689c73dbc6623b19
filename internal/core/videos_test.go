package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnanything/server/internal/logger"
)

type stubSearcher struct {
	videos     []Video
	err        error
	gotQuery   string
	gotMaxRes  int64
	callCount  int
}

func (s *stubSearcher) Search(_ context.Context, query string, maxResults int64) ([]Video, error) {
	s.callCount++
	s.gotQuery = query
	s.gotMaxRes = maxResults
	return s.videos, s.err
}

func TestVideoServiceNoProvider(t *testing.T) {
	svc := NewVideoService(nil, logger.NewNop())
	videos := svc.Search(context.Background(), "apple 1 hardware", 5)
	assert.Empty(t, videos)
	assert.NotNil(t, videos)
}

func TestVideoServiceUpstreamFailureYieldsEmptyList(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("quota exceeded")}
	svc := NewVideoService(searcher, logger.NewNop())

	videos := svc.Search(context.Background(), "apple 1 hardware", 5)
	assert.Empty(t, videos)
	assert.NotNil(t, videos)
	assert.Equal(t, 1, searcher.callCount)
}

func TestVideoServiceDefaultsMaxResults(t *testing.T) {
	searcher := &stubSearcher{videos: []Video{{ID: "abc", Title: "Apple I restoration"}}}
	svc := NewVideoService(searcher, logger.NewNop())

	videos := svc.Search(context.Background(), "apple 1 hardware", 0)
	assert.Len(t, videos, 1)
	assert.Equal(t, int64(defaultMaxVideoResults), searcher.gotMaxRes)
}

func TestVideoServiceNormalizesNilResult(t *testing.T) {
	searcher := &stubSearcher{videos: nil}
	svc := NewVideoService(searcher, logger.NewNop())

	videos := svc.Search(context.Background(), "apple 1 hardware", 3)
	assert.Empty(t, videos)
	assert.NotNil(t, videos)
}
