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

// GetPersona loads the user's persona. It returns nil without error when no
// persona has been configured yet.
func (s *Service) GetPersona(ctx context.Context, userID int64) (*models.Persona, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, role, backstory, traits, interests, created_at, updated_at FROM personas WHERE user_id = ?", userID)

	var p models.Persona
	var traits, interests string
	err := row.Scan(&p.UserID, &p.Role, &p.Backstory, &traits, &interests, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load persona: %w", err)
	}

	if err := json.Unmarshal([]byte(traits), &p.Traits); err != nil {
		return nil, fmt.Errorf("decode persona traits: %w", err)
	}
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return nil, fmt.Errorf("decode persona interests: %w", err)
	}
	return &p, nil
}

// UpdatePersona stores the user's persona, filtering out unknown traits and
// interests. An unknown role falls back to the default.
func (s *Service) UpdatePersona(ctx context.Context, userID int64, role models.PersonaRole, backstory string, traits []models.PersonaTrait, interests []string) (*models.Persona, error) {
	if !models.ValidPersonaRole(role) {
		role = models.RoleFriend
	}

	keptTraits := make([]models.PersonaTrait, 0, len(traits))
	for _, t := range traits {
		if models.ValidPersonaTrait(t) {
			keptTraits = append(keptTraits, t)
		}
	}
	keptInterests := make([]string, 0, len(interests))
	for _, in := range interests {
		if models.ValidPersonaInterest(in) {
			keptInterests = append(keptInterests, in)
		}
	}

	persona := &models.Persona{
		UserID:    userID,
		Role:      role,
		Backstory: backstory,
		Traits:    keptTraits,
		Interests: keptInterests,
	}

	encodedTraits, err := json.Marshal(persona.Traits)
	if err != nil {
		return nil, fmt.Errorf("encode persona traits: %w", err)
	}
	encodedInterests, err := json.Marshal(persona.Interests)
	if err != nil {
		return nil, fmt.Errorf("encode persona interests: %w", err)
	}

	now := time.Now()
	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM personas WHERE user_id = ?", userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check persona: %w", err)
	}

	if exists > 0 {
		_, err = s.db.ExecContext(ctx,
			"UPDATE personas SET role = ?, backstory = ?, traits = ?, interests = ?, updated_at = ? WHERE user_id = ?",
			persona.Role, persona.Backstory, string(encodedTraits), string(encodedInterests), now, userID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO personas (user_id, role, backstory, traits, interests, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			userID, persona.Role, persona.Backstory, string(encodedTraits), string(encodedInterests), now, now)
	}
	if err != nil {
		return nil, fmt.Errorf("save persona: %w", err)
	}
	persona.UpdatedAt = now
	return persona, nil
}

// ResetPersona deletes the user's persona so the defaults apply again.
func (s *Service) ResetPersona(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM personas WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("reset persona: %w", err)
	}
	return nil
}
