package assistant

import (
	"context"
	"testing"

	"companiongo/internal/models"
)

func validFeedback(userID int64) *models.ProductFeedback {
	return &models.ProductFeedback{
		UserID:                  userID,
		Design:                  5,
		Usability:               4,
		ResponseQuality:         4,
		Speed:                   3,
		Personalization:         5,
		ConversationNaturalness: 4,
		Usefulness:              5,
		OverallSatisfaction:     "very happy overall",
	}
}

func TestPutProductFeedbackRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")

	if err := svc.PutProductFeedback(ctx, validFeedback(userID)); err != nil {
		t.Fatalf("put feedback: %v", err)
	}

	got, err := svc.GetProductFeedback(ctx, userID)
	if err != nil {
		t.Fatalf("get feedback: %v", err)
	}
	if got.Design != 5 || got.OverallSatisfaction != "very happy overall" {
		t.Fatalf("feedback = %+v", got)
	}
}

func TestPutProductFeedbackReplacesPrevious(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := insertTestUser(t, svc.db, "alice")

	if err := svc.PutProductFeedback(ctx, validFeedback(userID)); err != nil {
		t.Fatalf("put feedback: %v", err)
	}
	updated := validFeedback(userID)
	updated.Speed = 1
	updated.OverallSatisfaction = "slow lately"
	if err := svc.PutProductFeedback(ctx, updated); err != nil {
		t.Fatalf("update feedback: %v", err)
	}

	got, err := svc.GetProductFeedback(ctx, userID)
	if err != nil {
		t.Fatalf("get feedback: %v", err)
	}
	if got.Speed != 1 || got.OverallSatisfaction != "slow lately" {
		t.Fatalf("feedback not replaced: %+v", got)
	}
}

func TestPutProductFeedbackValidatesRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := insertTestUser(t, svc.db, "alice")

	low := validFeedback(userID)
	low.Usability = 0
	if err := svc.PutProductFeedback(context.Background(), low); err == nil {
		t.Fatalf("rating 0 accepted")
	}

	high := validFeedback(userID)
	high.Design = 6
	if err := svc.PutProductFeedback(context.Background(), high); err == nil {
		t.Fatalf("rating 6 accepted")
	}
}

func TestGetProductFeedbackScaffold(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := insertTestUser(t, svc.db, "alice")

	got, err := svc.GetProductFeedback(context.Background(), userID)
	if err != nil {
		t.Fatalf("get feedback: %v", err)
	}
	if got == nil || got.UserID != userID {
		t.Fatalf("scaffold = %+v", got)
	}
	for _, r := range got.Ratings() {
		if r.Value != 0 {
			t.Fatalf("scaffold has rating %s=%d", r.Name, r.Value)
		}
	}
}
