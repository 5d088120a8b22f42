package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"companiongo/internal/models"
)

// Outcome distinguishes "the classifier found nothing" from "the call or its
// output failed". The chat turn collapses both into "no facts", but callers
// and tests can tell them apart.
type Outcome int

const (
	OutcomeFacts Outcome = iota
	OutcomeEmpty
	OutcomeError
)

// MemoryExtraction is the result of classifying a message into the seven
// long-term memory categories.
type MemoryExtraction struct {
	Outcome Outcome
	Facts   map[models.MemoryCategory][]string
}

// ExtractMemory classifies personal facts out of a user message. Transport
// errors and malformed classifier output both come back as fact-free
// results, never as errors.
func (s *Service) ExtractMemory(ctx context.Context, message string) MemoryExtraction {
	raw, err := s.llm.Complete(ctx, memoryExtractionPrompt, message, extractMaxTokens, coldTemperature)
	if err != nil {
		return MemoryExtraction{Outcome: OutcomeError}
	}

	var parsed map[string][]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return MemoryExtraction{Outcome: OutcomeError}
	}

	facts := make(map[models.MemoryCategory][]string)
	for name, items := range parsed {
		category := models.MemoryCategory(name)
		if !models.ValidMemoryCategory(category) || len(items) == 0 {
			continue
		}
		facts[category] = items
	}
	if len(facts) == 0 {
		return MemoryExtraction{Outcome: OutcomeEmpty}
	}
	return MemoryExtraction{Outcome: OutcomeFacts, Facts: facts}
}

// ConversationExtraction is the result of pulling conversation-scoped facts
// out of the latest message plus recent history.
type ConversationExtraction struct {
	Outcome Outcome
	Facts   []string
}

const (
	recapMessageLimit = 10
	recapContentLimit = 200
)

// ExtractConversationMemory extracts facts specific to this chat. The prior
// history is recapped as truncated role-prefixed lines.
func (s *Service) ExtractConversationMemory(ctx context.Context, message string, history []*models.Message) ConversationExtraction {
	var recap strings.Builder
	start := 0
	if len(history) > recapMessageLimit {
		start = len(history) - recapMessageLimit
	}
	for _, msg := range history[start:] {
		role := "Assistant"
		if msg.Role == models.RoleUser {
			role = "User"
		}
		content := msg.Content
		if runes := []rune(content); len(runes) > recapContentLimit {
			content = string(runes[:recapContentLimit])
		}
		fmt.Fprintf(&recap, "%s: %s...\n", role, content)
	}

	user := fmt.Sprintf("Last message: %s\n\nConversation history:\n%s", message, recap.String())
	raw, err := s.llm.Complete(ctx, conversationExtractionPrompt, user, conversationTokens, coldTemperature)
	if err != nil {
		return ConversationExtraction{Outcome: OutcomeError}
	}

	var parsed struct {
		ConversationFacts []string `json:"conversation_facts"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return ConversationExtraction{Outcome: OutcomeError}
	}
	if len(parsed.ConversationFacts) == 0 {
		return ConversationExtraction{Outcome: OutcomeEmpty}
	}
	return ConversationExtraction{Outcome: OutcomeFacts, Facts: parsed.ConversationFacts}
}

// Relevance is the outcome of the binary topic-vs-memory relevance check.
type Relevance int

const (
	// RelevanceUnknown means the classifier failed; callers include the
	// full memory in that case.
	RelevanceUnknown Relevance = iota
	RelevanceRelevant
	RelevanceNotRelevant
)

// CheckRelevance asks whether the stored memory bears on the current topic.
// Only the literal NOT_RELEVANT verdict suppresses memory.
func (s *Service) CheckRelevance(ctx context.Context, topic string, memory *models.Memory) Relevance {
	rendered, err := json.Marshal(memory.Facts)
	if err != nil {
		return RelevanceUnknown
	}
	user := fmt.Sprintf("Current topic: %s\n\nMemory information:\n%s", topic, rendered)
	raw, err := s.llm.Complete(ctx, relevancePrompt, user, relevanceMaxTokens, relevanceTemperature)
	if err != nil {
		return RelevanceUnknown
	}
	if strings.TrimSpace(raw) == "NOT_RELEVANT" {
		return RelevanceNotRelevant
	}
	return RelevanceRelevant
}
