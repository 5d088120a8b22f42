package assistant

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"companiongo/internal/models"
)

// CreateChat starts a new chat for the user with the given title.
func (s *Service) CreateChat(ctx context.Context, userID int64, title string) (*models.Chat, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (user_id, title, conversation_memory, created_at, updated_at) VALUES (?, ?, '[]', ?, ?)",
		userID, title, now, now)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read chat id: %w", err)
	}
	return &models.Chat{
		ID:                 id,
		UserID:             userID,
		Title:              title,
		ConversationMemory: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// GetChat loads a single chat owned by the user.
func (s *Service) GetChat(ctx context.Context, userID, chatID int64) (*models.Chat, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, conversation_memory, created_at, updated_at FROM chats WHERE id = ? AND user_id = ?",
		chatID, userID)
	return scanChat(row)
}

// ListChats returns the user's chats ordered by most recently updated,
// without their messages.
func (s *Service) ListChats(ctx context.Context, userID int64) ([]*models.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, title, conversation_memory, created_at, updated_at FROM chats WHERE user_id = ? ORDER BY updated_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*models.Chat, error) {
	var c models.Chat
	var memory string
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &memory, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(memory), &c.ConversationMemory); err != nil || c.ConversationMemory == nil {
		c.ConversationMemory = []string{}
	}
	return &c, nil
}

// GetChatWithMessages loads a chat and its messages in chronological order.
func (s *Service) GetChatWithMessages(ctx context.Context, userID, chatID int64) (*models.Chat, []*models.Message, error) {
	chat, err := s.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.listMessages(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

func (s *Service) listMessages(ctx context.Context, chatID int64) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, chat_id, role, content, feedback, feedback_at, created_at FROM messages WHERE chat_id = ? ORDER BY id ASC",
		chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		var feedback sql.NullString
		err := rows.Scan(&m.ID, &m.UserID, &m.ChatID, &m.Role, &m.Content, &feedback, &m.FeedbackAt, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		if feedback.Valid {
			tag := models.FeedbackTag(feedback.String)
			m.Feedback = &tag
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// AppendMessage stores a message and touches the chat's updated_at.
func (s *Service) AppendMessage(ctx context.Context, userID, chatID int64, role models.Role, content string) (*models.Message, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (user_id, chat_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		userID, chatID, role, content, now)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read message id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, "UPDATE chats SET updated_at = ? WHERE id = ?", now, chatID)
	if err != nil {
		return nil, fmt.Errorf("touch chat: %w", err)
	}

	return &models.Message{
		ID:        id,
		UserID:    userID,
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// SetMessageFeedback attaches a feedback tag to a message the user owns,
// addressed by chat and message id.
func (s *Service) SetMessageFeedback(ctx context.Context, userID, chatID, messageID int64, tag models.FeedbackTag) error {
	if !models.ValidFeedbackTag(tag) {
		return fmt.Errorf("invalid feedback tag %q", tag)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE messages SET feedback = ?, feedback_at = ? WHERE id = ? AND chat_id = ? AND user_id = ?",
		tag, time.Now(), messageID, chatID, userID)
	if err != nil {
		return fmt.Errorf("set message feedback: %w", err)
	}
	return checkAffected(res)
}

// ClearMessageFeedback removes the feedback tag from a message the user owns.
func (s *Service) ClearMessageFeedback(ctx context.Context, userID, chatID, messageID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE messages SET feedback = NULL, feedback_at = NULL WHERE id = ? AND chat_id = ? AND user_id = ?",
		messageID, chatID, userID)
	if err != nil {
		return fmt.Errorf("clear message feedback: %w", err)
	}
	return checkAffected(res)
}

// AddConversationFacts merges new facts into the chat's conversation memory,
// skipping facts already present.
func (s *Service) AddConversationFacts(ctx context.Context, userID, chatID int64, facts []string) error {
	if len(facts) == 0 {
		return nil
	}
	chat, err := s.GetChat(ctx, userID, chatID)
	if err != nil {
		return err
	}

	merged := mergeFacts(chat.ConversationMemory, facts)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode conversation memory: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE chats SET conversation_memory = ? WHERE id = ? AND user_id = ?",
		string(encoded), chatID, userID)
	if err != nil {
		return fmt.Errorf("save conversation memory: %w", err)
	}
	return nil
}

// mergeFacts appends the new facts that are not already present, keeping
// the existing order.
func mergeFacts(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, f := range existing {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		merged = append(merged, f)
	}
	for _, f := range incoming {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		merged = append(merged, f)
	}
	return merged
}

const (
	recentFeedbackChats = 5
	recentFeedbackTags  = 20
)

// RecentFeedbackTags collects the feedback tags left on assistant messages
// in the user's most recently active chats, keeping the newest ones.
func (s *Service) RecentFeedbackTags(ctx context.Context, userID int64) ([]models.FeedbackTag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.feedback FROM messages m
		 JOIN (SELECT id FROM chats WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?) c ON m.chat_id = c.id
		 WHERE m.role = ? AND m.feedback IS NOT NULL
		 ORDER BY m.id ASC`,
		userID, recentFeedbackChats, models.RoleAssistant)
	if err != nil {
		return nil, fmt.Errorf("recent feedback tags: %w", err)
	}
	defer rows.Close()

	var tags []models.FeedbackTag
	for rows.Next() {
		var tag models.FeedbackTag
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tags) > recentFeedbackTags {
		tags = tags[len(tags)-recentFeedbackTags:]
	}
	return tags, nil
}
