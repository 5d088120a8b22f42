package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"companiongo/internal/models"
)

// GetProductFeedback loads the user's product survey. When none has been
// submitted yet it returns an empty scaffold so the client can render the
// form.
func (s *Service) GetProductFeedback(ctx context.Context, userID int64) (*models.ProductFeedback, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, design, usability, response_quality, speed, personalization, conversation_naturalness, usefulness, overall_satisfaction, created_at, updated_at FROM product_feedback WHERE user_id = ?",
		userID)

	var f models.ProductFeedback
	err := row.Scan(&f.UserID, &f.Design, &f.Usability, &f.ResponseQuality, &f.Speed,
		&f.Personalization, &f.ConversationNaturalness, &f.Usefulness,
		&f.OverallSatisfaction, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.ProductFeedback{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load product feedback: %w", err)
	}
	return &f, nil
}

// PutProductFeedback validates and stores the user's product survey,
// replacing any previous submission.
func (s *Service) PutProductFeedback(ctx context.Context, fb *models.ProductFeedback) error {
	for _, r := range fb.Ratings() {
		if r.Value < 1 || r.Value > 5 {
			return fmt.Errorf("rating %q must be between 1 and 5", r.Name)
		}
	}

	now := time.Now()
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM product_feedback WHERE user_id = ?", fb.UserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check product feedback: %w", err)
	}

	if exists > 0 {
		_, err = s.db.ExecContext(ctx,
			"UPDATE product_feedback SET design = ?, usability = ?, response_quality = ?, speed = ?, personalization = ?, conversation_naturalness = ?, usefulness = ?, overall_satisfaction = ?, updated_at = ? WHERE user_id = ?",
			fb.Design, fb.Usability, fb.ResponseQuality, fb.Speed, fb.Personalization,
			fb.ConversationNaturalness, fb.Usefulness, fb.OverallSatisfaction, now, fb.UserID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO product_feedback (user_id, design, usability, response_quality, speed, personalization, conversation_naturalness, usefulness, overall_satisfaction, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			fb.UserID, fb.Design, fb.Usability, fb.ResponseQuality, fb.Speed, fb.Personalization,
			fb.ConversationNaturalness, fb.Usefulness, fb.OverallSatisfaction, now, now)
	}
	if err != nil {
		return fmt.Errorf("save product feedback: %w", err)
	}
	fb.UpdatedAt = now
	return nil
}
