package assistant

import (
	"context"
	"fmt"
	"strings"

	"companiongo/internal/models"
	"companiongo/internal/service/ai"
)

const recentHistoryLimit = 6

const notRelevantContext = "\n\n--- USER MEMORY ---\nNo specific information found related to this topic.\n"

// MemoryContext renders the user's long-term memory as a prompt block. When
// a topic is given, memory judged irrelevant to it is replaced by a fixed
// placeholder so the model does not drag unrelated facts into the reply.
func (s *Service) MemoryContext(ctx context.Context, userID int64, topic string) string {
	memory, err := s.GetMemory(ctx, userID)
	if err != nil || memory == nil {
		return ""
	}

	if topic != "" {
		if s.ai.CheckRelevance(ctx, topic, memory) == ai.RelevanceNotRelevant {
			return notRelevantContext
		}
	}

	var lines []string
	for _, cat := range models.MemoryCategories() {
		items := memory.Facts[cat]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", models.CategoryLabel(cat), strings.Join(items, ", ")))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n--- USER MEMORY ---\n" + strings.Join(lines, "\n") + "\n"
}

// PersonaContext renders the user's persona as a prompt block. Users without
// a stored persona get no block.
func (s *Service) PersonaContext(ctx context.Context, userID int64) string {
	persona, err := s.GetPersona(ctx, userID)
	if err != nil || persona == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n--- PERSONA BAĞLAMI ---\n")
	fmt.Fprintf(&b, "Sen bir %s rolündesin.\n", persona.Role)
	if persona.Backstory != "" {
		fmt.Fprintf(&b, "Geçmişin: %s\n", persona.Backstory)
	}
	if len(persona.Traits) > 0 {
		traits := make([]string, len(persona.Traits))
		for i, t := range persona.Traits {
			traits[i] = string(t)
		}
		fmt.Fprintf(&b, "Kişilik özelliklerin: %s\n", strings.Join(traits, ", "))
	}
	if len(persona.Interests) > 0 {
		fmt.Fprintf(&b, "İlgi alanların: %s\n", strings.Join(persona.Interests, ", "))
	}
	b.WriteString("Bu persona özelliklerine uygun şekilde yanıt ver.\n")
	return b.String()
}

// RecentHistoryContext renders the tail of the conversation as a prompt
// block. Only the last few messages are included and long contents are
// clipped.
func RecentHistoryContext(messages []*models.Message) string {
	if len(messages) == 0 {
		return ""
	}
	if len(messages) > recentHistoryLimit {
		messages = messages[len(messages)-recentHistoryLimit:]
	}

	var b strings.Builder
	b.WriteString("\n\n--- CONVERSATION HISTORY ---\n")
	for _, m := range messages {
		content := m.Content
		if runes := []rune(content); len(runes) > 300 {
			content = string(runes[:300]) + "..."
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), content)
	}
	return b.String()
}
