package assistant

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"companiongo/internal/models"
	"companiongo/internal/service/ai"
)

func TestChatTurnCreatesChatAndPersistsExchange(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	stub.title = "Trip Plans"
	stub.result = &ai.PipelineResult{Text: "let's plan it"}

	result, err := svc.ChatTurn(ctx, userID, 0, "I want to plan a trip")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if result.Chat.Title != "Trip Plans" {
		t.Fatalf("title = %q", result.Chat.Title)
	}
	if result.Response != "let's plan it" {
		t.Fatalf("response = %q", result.Response)
	}

	_, messages, err := svc.GetChatWithMessages(ctx, userID, result.Chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[0].Content != "I want to plan a trip" {
		t.Fatalf("user message = %+v", messages[0])
	}
	if messages[1].Role != models.RoleAssistant || messages[1].Content != "let's plan it" {
		t.Fatalf("assistant message = %+v", messages[1])
	}

	// A new chat gets its placeholder diary entry, then the refresh pass.
	entries, err := svc.ListDiaryEntries(ctx, userID)
	if err != nil {
		t.Fatalf("list diary: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one diary entry, got %d", len(entries))
	}
	if stub.summarized == 0 {
		t.Fatalf("diary refresh never ran")
	}
}

func TestChatTurnContinuesExistingChat(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	stub.result = &ai.PipelineResult{Text: "reply"}

	first, err := svc.ChatTurn(ctx, userID, 0, "hello")
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	second, err := svc.ChatTurn(ctx, userID, first.Chat.ID, "still here")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if second.Chat.ID != first.Chat.ID {
		t.Fatalf("second turn opened a new chat")
	}

	_, messages, err := svc.GetChatWithMessages(ctx, userID, first.Chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	// The second turn's prompt history covers the first exchange.
	if !strings.Contains(stub.lastPrompt.History, "USER: hello") {
		t.Fatalf("history context missing: %q", stub.lastPrompt.History)
	}
}

func TestChatTurnRejectsForeignChat(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	owner := insertTestUser(t, svc.db, "owner")
	other := insertTestUser(t, svc.db, "other")
	stub.result = &ai.PipelineResult{Text: "reply"}

	turn, err := svc.ChatTurn(ctx, owner, 0, "hello")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if _, err := svc.ChatTurn(ctx, other, turn.Chat.ID, "sneaky"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("foreign chat turn: %v", err)
	}
}

func TestChatTurnSavesExtractedFacts(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	stub.extraction = ai.MemoryExtraction{
		Outcome: ai.OutcomeFacts,
		Facts:   map[models.MemoryCategory][]string{models.CategorySkills: {"piano"}},
	}
	stub.convo = ai.ConversationExtraction{
		Outcome: ai.OutcomeFacts,
		Facts:   []string{"talking about music"},
	}

	turn, err := svc.ChatTurn(ctx, userID, 0, "I play piano")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}

	memory, err := svc.GetMemory(ctx, userID)
	if err != nil {
		t.Fatalf("get memory: %v", err)
	}
	if memory == nil || len(memory.Facts[models.CategorySkills]) != 1 {
		t.Fatalf("extracted facts not saved: %+v", memory)
	}

	chat, err := svc.GetChat(ctx, userID, turn.Chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if len(chat.ConversationMemory) != 1 || chat.ConversationMemory[0] != "talking about music" {
		t.Fatalf("conversation memory = %v", chat.ConversationMemory)
	}
}

func TestChatTurnAppliesPersonaStyle(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	if _, err := svc.UpdatePersona(ctx, userID, models.RoleSister, "", nil, nil); err != nil {
		t.Fatalf("update persona: %v", err)
	}

	if _, err := svc.ChatTurn(ctx, userID, 0, "hello"); err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if !strings.Contains(stub.lastPrompt.Style, "--- PERSONA RESPONSE STYLE ---") {
		t.Fatalf("style block missing: %q", stub.lastPrompt.Style)
	}
	if !strings.Contains(stub.lastPrompt.Persona, "Sen bir sister rolündesin.") {
		t.Fatalf("persona context missing: %q", stub.lastPrompt.Persona)
	}
}

func TestChatTurnWithoutPersonaSkipsStyle(t *testing.T) {
	svc, stub, _ := newTestService(t)
	userID := insertTestUser(t, svc.db, "alice")
	if _, err := svc.ChatTurn(context.Background(), userID, 0, "hello"); err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if stub.lastPrompt.Style != "" {
		t.Fatalf("style block for persona-less user: %q", stub.lastPrompt.Style)
	}
}

func TestChatTurnMentorGetsVideoSuggestion(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	if _, err := svc.UpdatePersona(ctx, userID, models.RoleMentor, "", nil, nil); err != nil {
		t.Fatalf("update persona: %v", err)
	}
	stub.result = &ai.PipelineResult{Text: "study advice"}
	stub.video = &ai.Video{
		ID:    "vid123",
		URL:   "https://www.youtube.com/watch?v=vid123",
		Title: "Learning Tips",
	}

	turn, err := svc.ChatTurn(ctx, userID, 0, "how do I study better")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if !strings.Contains(turn.Response, "study advice") {
		t.Fatalf("base response missing: %q", turn.Response)
	}
	if !strings.Contains(turn.Response, "[YOUTUBE_VIDEO]vid123[/YOUTUBE_VIDEO]") {
		t.Fatalf("video marker missing: %q", turn.Response)
	}
	// The stored assistant message carries the suggestion too.
	if turn.AssistantMessage.Content != turn.Response {
		t.Fatalf("stored message diverges from response")
	}
}

func TestChatTurnNonMentorSkipsVideo(t *testing.T) {
	svc, stub, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")
	if _, err := svc.UpdatePersona(ctx, userID, models.RoleFriend, "", nil, nil); err != nil {
		t.Fatalf("update persona: %v", err)
	}
	stub.video = &ai.Video{ID: "vid123"}

	turn, err := svc.ChatTurn(ctx, userID, 0, "how do I study better")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if strings.Contains(turn.Response, "YOUTUBE_VIDEO") {
		t.Fatalf("video suggested for non-mentor persona: %q", turn.Response)
	}
}

func TestChatTurnRequiresMessage(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := insertTestUser(t, svc.db, "alice")
	if _, err := svc.ChatTurn(context.Background(), userID, 0, ""); err == nil {
		t.Fatalf("empty message accepted")
	}
}

func TestChatTurnSurfacesPipelineFailure(t *testing.T) {
	svc, stub, _ := newTestService(t)
	userID := insertTestUser(t, svc.db, "alice")
	stub.respondErr = errors.New("all providers down")
	if _, err := svc.ChatTurn(context.Background(), userID, 0, "hello"); err == nil {
		t.Fatalf("expected error from failed pipeline")
	}
}
