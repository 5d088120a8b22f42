package models

import "time"

// ProductFeedback is the one-per-user product survey record. The seven
// rating fields range 1-5; a zero value means "not yet rated".
type ProductFeedback struct {
	UserID                  int64     `json:"user_id"`
	Design                  int       `json:"design"`
	Usability               int       `json:"usability"`
	ResponseQuality         int       `json:"response_quality"`
	Speed                   int       `json:"speed"`
	Personalization         int       `json:"personalization"`
	ConversationNaturalness int       `json:"conversation_naturalness"`
	Usefulness              int       `json:"usefulness"`
	OverallSatisfaction     string    `json:"overall_satisfaction"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Ratings returns the rating fields keyed by their wire names, in a fixed order.
func (f *ProductFeedback) Ratings() []struct {
	Name  string
	Value int
} {
	return []struct {
		Name  string
		Value int
	}{
		{"design", f.Design},
		{"usability", f.Usability},
		{"response_quality", f.ResponseQuality},
		{"speed", f.Speed},
		{"personalization", f.Personalization},
		{"conversation_naturalness", f.ConversationNaturalness},
		{"usefulness", f.Usefulness},
	}
}
