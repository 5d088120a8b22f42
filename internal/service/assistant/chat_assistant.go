package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"

	"companiongo/internal/models"
	"companiongo/internal/service/ai"
	"companiongo/internal/service/persona"
)

// TurnResult is everything one chat turn produced.
type TurnResult struct {
	Chat             *models.Chat
	UserMessage      *models.Message
	AssistantMessage *models.Message
	Response         string
	UsedFallback     bool
}

// ChatTurn runs one full conversational turn: it resolves the target chat,
// mines the message for memory, assembles the prompt contexts, generates the
// reply and persists both sides of the exchange.
func (s *Service) ChatTurn(ctx context.Context, userID int64, chatID int64, message string) (*TurnResult, error) {
	if message == "" {
		return nil, errors.New("message is required")
	}

	chat, history, err := s.resolveChat(ctx, userID, chatID, message)
	if err != nil {
		return nil, err
	}

	// Mine the incoming message for durable facts before building contexts
	// so a fact stated in this message is available to this very turn.
	extraction := s.ai.ExtractMemory(ctx, message)
	if extraction.Outcome == ai.OutcomeFacts {
		if err := s.SaveExtractedFacts(ctx, userID, extraction.Facts); err != nil {
			log.Printf("chat turn: save extracted facts: %v", err)
		}
	}

	memoryContext := s.MemoryContext(ctx, userID, message)
	personaContext := s.PersonaContext(ctx, userID)

	convExtraction := s.ai.ExtractConversationMemory(ctx, message, history)
	if convExtraction.Outcome == ai.OutcomeFacts {
		if err := s.AddConversationFacts(ctx, userID, chat.ID, convExtraction.Facts); err != nil {
			log.Printf("chat turn: save conversation facts: %v", err)
		}
	}

	historyContext := RecentHistoryContext(history)

	personaRecord, err := s.GetPersona(ctx, userID)
	if err != nil {
		return nil, err
	}
	var styleContext string
	if personaRecord != nil {
		tags, err := s.RecentFeedbackTags(ctx, userID)
		if err != nil {
			log.Printf("chat turn: recent feedback tags: %v", err)
		}
		styleContext = persona.Resolve(personaRecord, tags).PromptBlock()
	}

	result, err := s.ai.Respond(ctx, message, ai.PromptContext{
		Memory:  memoryContext,
		Persona: personaContext,
		History: historyContext,
		Style:   styleContext,
	})
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	response := result.Text
	if personaRecord != nil && personaRecord.Role == models.RoleMentor {
		if video := s.ai.SearchVideo(ctx, message); video != nil {
			response += video.SuggestionBlock()
		}
	}

	userMsg, err := s.AppendMessage(ctx, userID, chat.ID, models.RoleUser, message)
	if err != nil {
		return nil, err
	}
	assistantMsg, err := s.AppendMessage(ctx, userID, chat.ID, models.RoleAssistant, response)
	if err != nil {
		return nil, err
	}

	s.RefreshDiaryEntry(ctx, userID, chat.ID)

	return &TurnResult{
		Chat:             chat,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Response:         response,
		UsedFallback:     result.UsedFallback,
	}, nil
}

// resolveChat loads the chat and its prior messages, or starts a new chat
// titled from the first message when no chat id was given.
func (s *Service) resolveChat(ctx context.Context, userID, chatID int64, message string) (*models.Chat, []*models.Message, error) {
	if chatID != 0 {
		return s.GetChatWithMessages(ctx, userID, chatID)
	}

	title := s.ai.GenerateTitle(ctx, message)
	chat, err := s.CreateChat(ctx, userID, title)
	if err != nil {
		return nil, nil, err
	}
	if err := s.EnsureDiaryEntry(ctx, userID, chat.ID); err != nil {
		log.Printf("chat turn: create placeholder diary entry: %v", err)
	}
	return chat, nil, nil
}
