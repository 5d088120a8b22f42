package models

import "time"

// User is an account record. AgeGroup, Pronouns and Occupation stay nil
// until the profile-completion step fills them in.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	ProfileComplete bool      `json:"profileComplete"`
	PersonaSelected bool      `json:"personaSelected"`
	AgeGroup        *string   `json:"ageGroup"`
	Pronouns        *string   `json:"pronouns"`
	Occupation      *string   `json:"occupation"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
