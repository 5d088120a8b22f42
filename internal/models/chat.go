package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// FeedbackTag is a per-message reaction left by the user.
type FeedbackTag string

const (
	FeedbackLove        FeedbackTag = "love"
	FeedbackFunny       FeedbackTag = "funny"
	FeedbackMeaningless FeedbackTag = "meaningless"
	FeedbackOffensive   FeedbackTag = "offensive"
	FeedbackThumbsUp    FeedbackTag = "thumbs_up"
	FeedbackThumbsDown  FeedbackTag = "thumbs_down"
)

// ValidFeedbackTag reports whether the tag belongs to the fixed vocabulary.
func ValidFeedbackTag(tag FeedbackTag) bool {
	switch tag {
	case FeedbackLove, FeedbackFunny, FeedbackMeaningless, FeedbackOffensive,
		FeedbackThumbsUp, FeedbackThumbsDown:
		return true
	default:
		return false
	}
}

// Chat groups an ordered sequence of messages for one user, together with
// the conversation-scoped memory facts extracted so far.
type Chat struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Title              string    `json:"title"`
	ConversationMemory []string  `json:"conversation_memory"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Message is one turn inside a chat. Feedback stays nil until the user
// reacts to the message; messages are addressed by their stable id.
type Message struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	ChatID     int64        `json:"chat_id"`
	Role       Role         `json:"role"`
	Content    string       `json:"content"`
	Feedback   *FeedbackTag `json:"feedback,omitempty"`
	FeedbackAt *time.Time   `json:"feedback_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
