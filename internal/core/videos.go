package core

import (
	"context"
	"fmt"

	"github.com/learnanything/server/internal/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultMaxVideoResults = 3

type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ChannelTitle string `json:"channelTitle"`
}

// VideoSearcher is the upstream provider boundary, separated so tests
// can exercise the degradation policy without a network.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]Video, error)
}

// VideoService wraps a searcher with the degrade-to-empty policy:
// video suggestions are a non-critical enhancement, so a missing
// provider or an upstream failure yields an empty list, never an error.
type VideoService struct {
	searcher VideoSearcher
	log      *logger.Logger
}

func NewVideoService(searcher VideoSearcher, log *logger.Logger) *VideoService {
	return &VideoService{searcher: searcher, log: log}
}

func (s *VideoService) Search(ctx context.Context, query string, maxResults int64) []Video {
	if maxResults <= 0 {
		maxResults = defaultMaxVideoResults
	}
	if s.searcher == nil {
		s.log.Debug("video search skipped, no provider configured")
		return []Video{}
	}

	videos, err := s.searcher.Search(ctx, query, maxResults)
	if err != nil {
		s.log.Error("video search failed", "query", query, "error", err)
		return []Video{}
	}
	if videos == nil {
		videos = []Video{}
	}
	return videos
}

// YouTubeSearcher queries the YouTube Data API v3.
type YouTubeSearcher struct {
	svc *youtube.Service
}

func NewYouTubeSearcher(ctx context.Context, apiKey string) (*YouTubeSearcher, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeSearcher{svc: svc}, nil
}

func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]Video, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query + " tutorial lesson").
		Type("video").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		thumbnail := ""
		if item.Snippet.Thumbnails != nil {
			if item.Snippet.Thumbnails.Medium != nil {
				thumbnail = item.Snippet.Thumbnails.Medium.Url
			} else if item.Snippet.Thumbnails.Default != nil {
				thumbnail = item.Snippet.Thumbnails.Default.Url
			}
		}
		videos = append(videos, Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: thumbnail,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return videos, nil
}
