package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"companiongo/internal/models"
)

type stubReply struct {
	text string
	err  error
}

// stubCompleter replays scripted replies in call order and records the
// system prompts it was given.
type stubCompleter struct {
	t       *testing.T
	replies []stubReply
	calls   int
	systems []string
	users   []string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _ int, _ float32) (string, error) {
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	if s.calls >= len(s.replies) {
		s.t.Fatalf("unexpected completion call %d, system prompt: %.60s", s.calls+1, system)
	}
	r := s.replies[s.calls]
	s.calls++
	return r.text, r.err
}

func newStubService(t *testing.T, replies ...stubReply) (*Service, *stubCompleter) {
	t.Helper()
	stub := &stubCompleter{t: t, replies: replies}
	return NewService(stub, nil), stub
}

func TestRespondConcatenatesAnalysisAndStrategy(t *testing.T) {
	svc, stub := newStubService(t,
		stubReply{text: "analysis text"},
		stubReply{text: "strategy text"},
		stubReply{text: "implementation text"},
	)

	result, err := svc.Respond(context.Background(), "hello", PromptContext{})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if result.UsedFallback {
		t.Fatalf("pipeline succeeded, fallback flag set")
	}
	want := "analysis text\n\nstrategy text\n\n"
	if result.Text != want {
		t.Fatalf("text = %q, want %q", result.Text, want)
	}
	if result.Implementation != "implementation text" {
		t.Fatalf("implementation = %q", result.Implementation)
	}
	if strings.Contains(result.Text, "implementation text") {
		t.Fatalf("implementation leaked into visible text")
	}
	if stub.calls != 3 {
		t.Fatalf("expected 3 stage calls, got %d", stub.calls)
	}
}

func TestRespondStripsFillerLeadIns(t *testing.T) {
	svc, _ := newStubService(t,
		stubReply{text: "Tabii ki, sana yardım edebilirim"},
		stubReply{text: "Elbette, plan şu"},
		stubReply{text: "steps"},
	)

	result, err := svc.Respond(context.Background(), "hello", PromptContext{})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	for _, filler := range fillerLeadIns {
		if strings.Contains(result.Text, filler) {
			t.Fatalf("filler %q survived in %q", filler, result.Text)
		}
	}
}

func TestRespondFallsBackOnStageFailure(t *testing.T) {
	svc, stub := newStubService(t,
		stubReply{err: errors.New("model down")},
		stubReply{text: "fallback reply"},
	)

	result, err := svc.Respond(context.Background(), "hello", PromptContext{})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !result.UsedFallback {
		t.Fatalf("expected fallback flag")
	}
	if result.Text != "fallback reply" {
		t.Fatalf("text = %q", result.Text)
	}
	if stub.calls != 2 {
		t.Fatalf("later stages ran after a failed one: %d calls", stub.calls)
	}
}

func TestRespondFallbackFailureSurfaces(t *testing.T) {
	svc, _ := newStubService(t,
		stubReply{err: errors.New("model down")},
		stubReply{err: errors.New("still down")},
	)
	if _, err := svc.Respond(context.Background(), "hello", PromptContext{}); err == nil {
		t.Fatalf("expected error when fallback also fails")
	}
}

func TestRespondAppendsContextsToSystemPrompt(t *testing.T) {
	svc, stub := newStubService(t,
		stubReply{text: "a"}, stubReply{text: "s"}, stubReply{text: "i"},
	)
	pc := PromptContext{
		Memory:  "\n\n--- USER MEMORY ---\nFavorites: tea\n",
		Persona: "\n\n--- PERSONA BAĞLAMI ---\nSen bir friend rolündesin.\n",
	}
	if _, err := svc.Respond(context.Background(), "hello", pc); err != nil {
		t.Fatalf("respond: %v", err)
	}
	for i, system := range stub.systems {
		if !strings.Contains(system, "Favorites: tea") {
			t.Fatalf("stage %d missing memory context", i)
		}
		if !strings.Contains(system, "PERSONA BAĞLAMI") {
			t.Fatalf("stage %d missing persona context", i)
		}
	}
}

func TestExtractMemoryFiltersUnknownCategories(t *testing.T) {
	svc, _ := newStubService(t,
		stubReply{text: `{"favorites": ["coffee"], "nonsense": ["x"], "skills": []}`},
	)
	ext := svc.ExtractMemory(context.Background(), "I love coffee")
	if ext.Outcome != OutcomeFacts {
		t.Fatalf("outcome = %v", ext.Outcome)
	}
	if len(ext.Facts) != 1 {
		t.Fatalf("facts = %v", ext.Facts)
	}
	if got := ext.Facts[models.CategoryFavorites]; len(got) != 1 || got[0] != "coffee" {
		t.Fatalf("favorites = %v", got)
	}
}

func TestExtractMemoryMalformedOutput(t *testing.T) {
	svc, _ := newStubService(t, stubReply{text: "I could not classify that"})
	ext := svc.ExtractMemory(context.Background(), "hello")
	if ext.Outcome != OutcomeError {
		t.Fatalf("outcome = %v", ext.Outcome)
	}
	if len(ext.Facts) != 0 {
		t.Fatalf("facts from malformed output: %v", ext.Facts)
	}
}

func TestExtractMemoryEmptyResult(t *testing.T) {
	svc, _ := newStubService(t, stubReply{text: `{}`})
	if ext := svc.ExtractMemory(context.Background(), "hi"); ext.Outcome != OutcomeEmpty {
		t.Fatalf("outcome = %v", ext.Outcome)
	}
}

func TestExtractConversationMemoryRecapsHistory(t *testing.T) {
	svc, stub := newStubService(t, stubReply{text: `{"conversation_facts": ["planning a trip"]}`})

	long := strings.Repeat("x", 250)
	history := []*models.Message{
		{Role: models.RoleUser, Content: long},
		{Role: models.RoleAssistant, Content: "sounds fun"},
	}
	ext := svc.ExtractConversationMemory(context.Background(), "where should I go", history)
	if ext.Outcome != OutcomeFacts || len(ext.Facts) != 1 {
		t.Fatalf("extraction = %+v", ext)
	}

	recap := stub.users[0]
	if strings.Contains(recap, long) {
		t.Fatalf("history content not truncated")
	}
	if !strings.Contains(recap, "User: "+long[:200]) {
		t.Fatalf("missing truncated user line in %q", recap)
	}
	if !strings.Contains(recap, "Assistant: sounds fun") {
		t.Fatalf("missing assistant line in %q", recap)
	}
}

func TestCheckRelevanceVerdicts(t *testing.T) {
	memory := &models.Memory{Facts: models.EmptyFacts()}

	svc, _ := newStubService(t, stubReply{text: "NOT_RELEVANT"})
	if got := svc.CheckRelevance(context.Background(), "space", memory); got != RelevanceNotRelevant {
		t.Fatalf("verdict = %v", got)
	}

	svc, _ = newStubService(t, stubReply{text: "RELEVANT"})
	if got := svc.CheckRelevance(context.Background(), "space", memory); got != RelevanceRelevant {
		t.Fatalf("verdict = %v", got)
	}

	// Anything that is not the literal NOT_RELEVANT keeps the memory in.
	svc, _ = newStubService(t, stubReply{text: "maybe not relevant?"})
	if got := svc.CheckRelevance(context.Background(), "space", memory); got != RelevanceRelevant {
		t.Fatalf("verdict = %v", got)
	}

	svc, _ = newStubService(t, stubReply{err: errors.New("down")})
	if got := svc.CheckRelevance(context.Background(), "space", memory); got != RelevanceUnknown {
		t.Fatalf("verdict = %v", got)
	}
}

func TestGenerateTitleFallsBackToTruncation(t *testing.T) {
	svc, _ := newStubService(t, stubReply{err: errors.New("down")})
	message := strings.Repeat("a", 40)
	title := svc.GenerateTitle(context.Background(), message)
	if title != message[:30]+"..." {
		t.Fatalf("title = %q", title)
	}

	svc, _ = newStubService(t, stubReply{text: "  Trip Plans  "})
	if got := svc.GenerateTitle(context.Background(), message); got != "Trip Plans" {
		t.Fatalf("title = %q", got)
	}
}

func TestSummarizeChatSkipsEmptyChats(t *testing.T) {
	svc, stub := newStubService(t)
	messages := []*models.Message{{Role: models.RoleAssistant, Content: "hi there"}}
	summary, err := svc.SummarizeChat(context.Background(), messages, time.Now())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary for chat without user messages")
	}
	if stub.calls != 0 {
		t.Fatalf("model called for empty chat")
	}
}

func TestSummarizeChatParsesLabeledOutput(t *testing.T) {
	svc, _ := newStubService(t, stubReply{text: "BAŞLIK: Tatil Planı\nÖZET: Kullanıcı tatil planladı."})
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*models.Message{
		{Role: models.RoleUser, Content: "tatil planlıyorum"},
		{Role: models.RoleAssistant, Content: "nereye"},
	}
	summary, err := svc.SummarizeChat(context.Background(), messages, created)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Title != "Tatil Planı" {
		t.Fatalf("title = %q", summary.Title)
	}
	if summary.Summary != "Kullanıcı tatil planladı." {
		t.Fatalf("summary = %q", summary.Summary)
	}
	if !summary.Date.Equal(created) {
		t.Fatalf("date = %v", summary.Date)
	}
	if summary.MessageCount != 2 {
		t.Fatalf("message count = %d", summary.MessageCount)
	}
}

func TestParseDiaryOutputFallbacks(t *testing.T) {
	title, summary := parseDiaryOutput("free-form model rambling")
	if title != defaultDiaryTitle {
		t.Fatalf("title = %q", title)
	}
	if summary != "free-form model rambling" {
		t.Fatalf("summary = %q", summary)
	}

	long := strings.Repeat("b", 250)
	_, summary = parseDiaryOutput(long)
	if summary != long[:200]+"..." {
		t.Fatalf("long summary not truncated: %d chars", len(summary))
	}
}

func TestParseDiaryOutputCountsCharactersNotBytes(t *testing.T) {
	// 121 characters but over 200 bytes; must stay untouched.
	short := "a" + strings.Repeat("İ", 120)
	_, summary := parseDiaryOutput(short)
	if summary != short {
		t.Fatalf("under-limit summary truncated: %q", summary)
	}

	long := strings.Repeat("ş", 250)
	_, summary = parseDiaryOutput(long)
	if !utf8.ValidString(summary) {
		t.Fatalf("truncation split a rune")
	}
	if summary != strings.Repeat("ş", 200)+"..." {
		t.Fatalf("summary = %q", summary)
	}
}

func TestGenerateTitleFallbackCountsCharactersNotBytes(t *testing.T) {
	svc, _ := newStubService(t, stubReply{err: errors.New("down")})
	message := strings.Repeat("ü", 40)
	title := svc.GenerateTitle(context.Background(), message)
	if !utf8.ValidString(title) {
		t.Fatalf("truncation split a rune")
	}
	if title != strings.Repeat("ü", 30)+"..." {
		t.Fatalf("title = %q", title)
	}
}

func TestExtractConversationMemoryRecapCountsCharactersNotBytes(t *testing.T) {
	svc, stub := newStubService(t, stubReply{text: `{"conversation_facts": ["x"]}`})
	history := []*models.Message{
		{Role: models.RoleUser, Content: strings.Repeat("ğ", 250)},
	}
	svc.ExtractConversationMemory(context.Background(), "devam", history)

	recap := stub.users[0]
	if !utf8.ValidString(recap) {
		t.Fatalf("recap contains a split rune")
	}
	if !strings.Contains(recap, "User: "+strings.Repeat("ğ", 200)+"...") {
		t.Fatalf("recap not clipped at 200 characters: %q", recap)
	}
}

func TestClipDescriptionCountsCharactersNotBytes(t *testing.T) {
	short := strings.Repeat("ö", 150)
	if got := clipDescription(short); got != short {
		t.Fatalf("under-limit description clipped: %q", got)
	}

	long := strings.Repeat("ö", 160)
	got := clipDescription(long)
	if !utf8.ValidString(got) {
		t.Fatalf("clip split a rune")
	}
	if got != strings.Repeat("ö", 150)+"..." {
		t.Fatalf("description = %q", got)
	}
}
