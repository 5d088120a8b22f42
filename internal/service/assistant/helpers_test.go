package assistant

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"companiongo/internal/config"
	"companiongo/internal/models"
	"companiongo/internal/service/ai"
	"companiongo/internal/storage"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func insertTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	now := time.Now().UTC()
	res, err := db.Exec(
		`INSERT INTO users (username, email, password_hash, created_at, updated_at) VALUES (?, ?, '', ?, ?)`,
		username, username+"@example.com", now, now)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	return id
}

// stubAI satisfies the AI interface with canned results so assistant tests
// never touch a model.
type stubAI struct {
	title      string
	extraction ai.MemoryExtraction
	convo      ai.ConversationExtraction
	relevance  ai.Relevance
	result     *ai.PipelineResult
	respondErr error
	summary    *models.DiarySummary
	summaryErr error
	video      *ai.Video

	lastPrompt    ai.PromptContext
	summarized    int
	respondCalled int
}

func (s *stubAI) GenerateTitle(context.Context, string) string {
	if s.title == "" {
		return "Test Chat"
	}
	return s.title
}

func (s *stubAI) ExtractMemory(context.Context, string) ai.MemoryExtraction {
	return s.extraction
}

func (s *stubAI) ExtractConversationMemory(context.Context, string, []*models.Message) ai.ConversationExtraction {
	return s.convo
}

func (s *stubAI) CheckRelevance(context.Context, string, *models.Memory) ai.Relevance {
	return s.relevance
}

func (s *stubAI) Respond(_ context.Context, _ string, pc ai.PromptContext) (*ai.PipelineResult, error) {
	s.respondCalled++
	s.lastPrompt = pc
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ai.PipelineResult{Text: "stub reply"}, nil
}

func (s *stubAI) SummarizeChat(context.Context, []*models.Message, time.Time) (*models.DiarySummary, error) {
	s.summarized++
	return s.summary, s.summaryErr
}

func (s *stubAI) SearchVideo(context.Context, string) *ai.Video {
	return s.video
}

func newTestService(t *testing.T) (*Service, *stubAI, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	t.Cleanup(func() { db.Close() })
	stub := &stubAI{}
	return NewService(db, stub), stub, db
}
