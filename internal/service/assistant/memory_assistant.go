package assistant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"companiongo/internal/models"
)

// GetMemory loads the user's long-term memory. It returns nil without error
// when no memory has been stored yet.
func (s *Service) GetMemory(ctx context.Context, userID int64) (*models.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, facts, created_at, updated_at FROM memories WHERE user_id = ?", userID)

	var m models.Memory
	var facts string
	err := row.Scan(&m.UserID, &facts, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}

	if err := json.Unmarshal([]byte(facts), &m.Facts); err != nil {
		return nil, fmt.Errorf("decode memory facts: %w", err)
	}
	for _, cat := range models.MemoryCategories() {
		if m.Facts[cat] == nil {
			m.Facts[cat] = []string{}
		}
	}
	return &m, nil
}

// SaveExtractedFacts merges newly extracted facts into the user's memory,
// creating the memory document on first use. Facts already present in a
// category are not duplicated.
func (s *Service) SaveExtractedFacts(ctx context.Context, userID int64, facts map[models.MemoryCategory][]string) error {
	if len(facts) == 0 {
		return nil
	}

	memory, err := s.GetMemory(ctx, userID)
	if err != nil {
		return err
	}
	if memory == nil {
		memory = &models.Memory{UserID: userID, Facts: models.EmptyFacts()}
	}

	for cat, items := range facts {
		if !models.ValidMemoryCategory(cat) {
			continue
		}
		memory.Facts[cat] = mergeFacts(memory.Facts[cat], items)
	}
	return s.writeMemory(ctx, memory)
}

// ReplaceMemory overwrites the supplied categories with the given facts,
// leaving other categories untouched. Unknown categories are rejected.
func (s *Service) ReplaceMemory(ctx context.Context, userID int64, facts map[models.MemoryCategory][]string) (*models.Memory, error) {
	if len(facts) == 0 {
		return nil, errors.New("no memory categories supplied")
	}
	for cat := range facts {
		if !models.ValidMemoryCategory(cat) {
			return nil, fmt.Errorf("invalid memory category %q", cat)
		}
	}

	memory, err := s.GetMemory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if memory == nil {
		memory = &models.Memory{UserID: userID, Facts: models.EmptyFacts()}
	}

	for cat, items := range facts {
		if items == nil {
			items = []string{}
		}
		memory.Facts[cat] = items
	}
	if err := s.writeMemory(ctx, memory); err != nil {
		return nil, err
	}
	return memory, nil
}

// ClearMemory deletes the user's memory document.
func (s *Service) ClearMemory(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM memories WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("clear memory: %w", err)
	}
	return nil
}

func (s *Service) writeMemory(ctx context.Context, memory *models.Memory) error {
	encoded, err := json.Marshal(memory.Facts)
	if err != nil {
		return fmt.Errorf("encode memory facts: %w", err)
	}
	now := time.Now()

	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memories WHERE user_id = ?", memory.UserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check memory: %w", err)
	}

	if exists > 0 {
		_, err = s.db.ExecContext(ctx,
			"UPDATE memories SET facts = ?, updated_at = ? WHERE user_id = ?",
			string(encoded), now, memory.UserID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO memories (user_id, facts, created_at, updated_at) VALUES (?, ?, ?, ?)",
			memory.UserID, string(encoded), now, now)
	}
	if err != nil {
		return fmt.Errorf("save memory: %w", err)
	}
	memory.UpdatedAt = now
	return nil
}
