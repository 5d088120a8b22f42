package models

import "time"

// DiaryEntry mirrors the content of one chat as a dated journal record.
type DiaryEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ChatID       int64     `json:"chat_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	MessageCount int       `json:"message_count"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DiarySummary is the condensed form of a chat produced by the summarizer.
type DiarySummary struct {
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Date         time.Time `json:"date"`
	MessageCount int       `json:"message_count"`
}
