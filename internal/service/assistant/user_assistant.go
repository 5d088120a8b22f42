package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"companiongo/internal/models"
)

var (
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("username or email already registered")
	// ErrInvalidCredentials is returned when login fails verification.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// RegisterUser creates a new user account and returns it.
func (s *Service) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, profile_complete, persona_selected, created_at, updated_at) VALUES (?, ?, ?, 0, 0, ?, ?)",
		username, email, hashPassword(password), now, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read user id: %w", err)
	}

	return &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Login verifies the credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.getUserBy(ctx, "username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.getUserBy(ctx, "id = ?", userID)
}

func (s *Service) getUserBy(ctx context.Context, where string, arg any) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, profile_complete, persona_selected, age_group, pronouns, occupation, created_at, updated_at FROM users WHERE "+where, arg)

	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfileComplete,
		&u.PersonaSelected, &u.AgeGroup, &u.Pronouns, &u.Occupation, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CompleteProfile stores the onboarding profile fields and marks the
// profile step done.
func (s *Service) CompleteProfile(ctx context.Context, userID int64, ageGroup, pronouns, occupation string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET age_group = ?, pronouns = ?, occupation = ?, profile_complete = 1, updated_at = ? WHERE id = ?",
		ageGroup, pronouns, occupation, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("complete profile: %w", err)
	}
	return checkAffected(res)
}

// CompletePersonaSelection marks the persona onboarding step done.
func (s *Service) CompletePersonaSelection(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET persona_selected = 1, updated_at = ? WHERE id = ?", time.Now(), userID)
	if err != nil {
		return fmt.Errorf("complete persona selection: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
