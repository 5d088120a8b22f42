package assistant

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"companiongo/internal/models"
	"companiongo/internal/service/ai"
)

// AI is the model-backed surface the chat turn depends on. Tests stub it.
type AI interface {
	GenerateTitle(ctx context.Context, userMessage string) string
	ExtractMemory(ctx context.Context, message string) ai.MemoryExtraction
	ExtractConversationMemory(ctx context.Context, message string, history []*models.Message) ai.ConversationExtraction
	CheckRelevance(ctx context.Context, topic string, memory *models.Memory) ai.Relevance
	Respond(ctx context.Context, userMessage string, pc ai.PromptContext) (*ai.PipelineResult, error)
	SummarizeChat(ctx context.Context, messages []*models.Message, chatCreatedAt time.Time) (*models.DiarySummary, error)
	SearchVideo(ctx context.Context, query string) *ai.Video
}

// Service handles user lifecycle, chat persistence, memory, personas, diary
// and feedback, and drives the per-turn response pipeline.
type Service struct {
	db *sql.DB
	ai AI
}

// NewService builds a new assistant service.
func NewService(db *sql.DB, aiService AI) *Service {
	return &Service{db: db, ai: aiService}
}

func hashPassword(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
