package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"companiongo/internal/models"
)

const (
	defaultDiaryTitle   = "Günlük Konuşma"
	summaryFallbackSize = 200
	titleFallbackSize   = 30
)

// GenerateTitle names a new chat after its first message. Model failures
// fall back to truncating the message itself.
func (s *Service) GenerateTitle(ctx context.Context, userMessage string) string {
	title, err := s.llm.Complete(ctx, titlePrompt, userMessage, titleMaxTokens, chatTemperature)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if runes := []rune(userMessage); len(runes) > titleFallbackSize {
		return string(runes[:titleFallbackSize]) + "..."
	}
	return userMessage
}

// SummarizeChat condenses a chat's user-authored messages into a diary
// summary. A chat with no user messages yields (nil, nil); a service failure
// yields (nil, err) and callers treat it as "cannot summarize now".
func (s *Service) SummarizeChat(ctx context.Context, messages []*models.Message, chatCreatedAt time.Time) (*models.DiarySummary, error) {
	var userTexts []string
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			userTexts = append(userTexts, msg.Content)
		}
	}
	if len(userTexts) == 0 {
		return nil, nil
	}

	user := fmt.Sprintf("Bu konuşmayı özetle:\n\n%s", strings.Join(userTexts, "\n"))
	raw, err := s.llm.Complete(ctx, diaryPrompt, user, 200, chatTemperature)
	if err != nil {
		return nil, fmt.Errorf("summarize chat: %w", err)
	}

	title, summary := parseDiaryOutput(raw)
	return &models.DiarySummary{
		Title:        title,
		Summary:      summary,
		Date:         chatCreatedAt,
		MessageCount: len(messages),
	}, nil
}

// parseDiaryOutput pulls the labeled title and summary lines out of the
// model output, substituting fixed fallbacks when a label is missing.
func parseDiaryOutput(raw string) (title, summary string) {
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "BAŞLIK:") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "BAŞLIK:"))
		} else if strings.HasPrefix(line, "ÖZET:") {
			summary = strings.TrimSpace(strings.TrimPrefix(line, "ÖZET:"))
		}
	}
	if title == "" {
		title = defaultDiaryTitle
	}
	if summary == "" {
		if runes := []rune(raw); len(runes) > summaryFallbackSize {
			summary = string(runes[:summaryFallbackSize]) + "..."
		} else {
			summary = raw
		}
	}
	return title, summary
}
