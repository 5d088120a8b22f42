package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const videoDescriptionLimit = 150

// Video is the first search hit used for mentor-persona suggestions.
type Video struct {
	ID          string `json:"video_id"`
	URL         string `json:"url"`
	EmbedURL    string `json:"embed_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// SuggestionBlock renders the video as the block appended to a mentor reply.
func (v *Video) SuggestionBlock() string {
	return fmt.Sprintf("\n\n🎥 **Relevant Video Suggestion:**\n%s\n%s\n\n[YOUTUBE_VIDEO]%s[/YOUTUBE_VIDEO]",
		v.Title, v.Description, v.ID)
}

// VideoSearcher finds the most relevant video for a query, or nil for none.
type VideoSearcher interface {
	Search(ctx context.Context, query string) (*Video, error)
}

// YouTubeSearcher implements VideoSearcher over the YouTube Data API.
type YouTubeSearcher struct {
	svc *youtube.Service
}

// NewYouTubeSearcher builds the API-key-authenticated client.
func NewYouTubeSearcher(ctx context.Context, apiKey string) (*YouTubeSearcher, error) {
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeSearcher{svc: svc}, nil
}

// Search returns the first relevance-ordered video hit.
func (y *YouTubeSearcher) Search(ctx context.Context, query string) (*Video, error) {
	resp, err := y.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		MaxResults(1).
		Type("video").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Snippet == nil {
		return nil, nil
	}
	item := resp.Items[0]
	description := clipDescription(item.Snippet.Description)
	thumbnail := ""
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
		thumbnail = item.Snippet.Thumbnails.Medium.Url
	}
	return &Video{
		ID:          item.Id.VideoId,
		URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
		EmbedURL:    fmt.Sprintf("https://www.youtube.com/embed/%s", item.Id.VideoId),
		Title:       item.Snippet.Title,
		Description: description,
		Thumbnail:   thumbnail,
	}, nil
}

func clipDescription(description string) string {
	if runes := []rune(description); len(runes) > videoDescriptionLimit {
		return string(runes[:videoDescriptionLimit]) + "..."
	}
	return description
}

// SearchVideo is the best-effort lookup used after mentor replies: any
// failure or absent searcher just yields nil.
func (s *Service) SearchVideo(ctx context.Context, query string) *Video {
	if s.videos == nil {
		return nil
	}
	video, err := s.videos.Search(ctx, query)
	if err != nil {
		return nil
	}
	return video
}
