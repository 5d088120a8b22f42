package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"companiongo/internal/models"
)

const (
	placeholderDiaryTitle   = "Yeni Konuşma"
	placeholderDiarySummary = "Konuşma henüz başlamadı..."
)

// EnsureDiaryEntry creates the placeholder diary entry for a chat if none
// exists yet.
func (s *Service) EnsureDiaryEntry(ctx context.Context, userID, chatID int64) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM diary_entries WHERE user_id = ? AND chat_id = ?", userID, chatID).Scan(&count)
	if err != nil {
		return fmt.Errorf("check diary entry: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO diary_entries (user_id, chat_id, title, summary, message_count, entry_date, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?, ?)",
		userID, chatID, placeholderDiaryTitle, placeholderDiarySummary, now, now, now)
	if err != nil {
		return fmt.Errorf("create diary entry: %w", err)
	}
	return nil
}

// RefreshDiaryEntry regenerates the diary summary for a chat. Failures are
// logged and swallowed so a diary problem never breaks the chat turn.
func (s *Service) RefreshDiaryEntry(ctx context.Context, userID, chatID int64) {
	chat, messages, err := s.GetChatWithMessages(ctx, userID, chatID)
	if err != nil {
		log.Printf("diary refresh: load chat %d: %v", chatID, err)
		return
	}

	summary, err := s.ai.SummarizeChat(ctx, messages, chat.CreatedAt)
	if err != nil {
		log.Printf("diary refresh: summarize chat %d: %v", chatID, err)
		return
	}
	if summary == nil {
		return
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE diary_entries SET title = ?, summary = ?, message_count = ?, updated_at = ? WHERE user_id = ? AND chat_id = ?",
		summary.Title, summary.Summary, summary.MessageCount, time.Now(), userID, chatID)
	if err != nil {
		log.Printf("diary refresh: save entry for chat %d: %v", chatID, err)
	}
}

// CreateDiaryEntry generates and stores a diary entry for the chat on
// explicit request.
func (s *Service) CreateDiaryEntry(ctx context.Context, userID, chatID int64) (*models.DiaryEntry, error) {
	chat, messages, err := s.GetChatWithMessages(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	summary, err := s.ai.SummarizeChat(ctx, messages, chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("summarize chat: %w", err)
	}
	if summary == nil {
		return nil, errors.New("chat has no user messages to summarize")
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO diary_entries (user_id, chat_id, title, summary, message_count, entry_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		userID, chatID, summary.Title, summary.Summary, summary.MessageCount, summary.Date, now, now)
	if err != nil {
		return nil, fmt.Errorf("create diary entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read diary entry id: %w", err)
	}

	return &models.DiaryEntry{
		ID:           id,
		UserID:       userID,
		ChatID:       chatID,
		Title:        summary.Title,
		Summary:      summary.Summary,
		MessageCount: summary.MessageCount,
		Date:         summary.Date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ListDiaryEntries returns the user's diary entries, newest first.
func (s *Service) ListDiaryEntries(ctx context.Context, userID int64) ([]*models.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, chat_id, title, summary, message_count, entry_date, created_at, updated_at FROM diary_entries WHERE user_id = ? ORDER BY entry_date DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.DiaryEntry
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetDiaryEntry loads a single diary entry owned by the user.
func (s *Service) GetDiaryEntry(ctx context.Context, userID, entryID int64) (*models.DiaryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, chat_id, title, summary, message_count, entry_date, created_at, updated_at FROM diary_entries WHERE id = ? AND user_id = ?",
		entryID, userID)
	return scanDiaryEntry(row)
}

func scanDiaryEntry(row rowScanner) (*models.DiaryEntry, error) {
	var e models.DiaryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ChatID, &e.Title, &e.Summary,
		&e.MessageCount, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteDiaryEntry removes a diary entry owned by the user.
func (s *Service) DeleteDiaryEntry(ctx context.Context, userID, entryID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM diary_entries WHERE id = ? AND user_id = ?", entryID, userID)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	return checkAffected(res)
}
