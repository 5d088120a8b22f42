package assistant

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID <= 0 {
		t.Fatalf("unexpected user id %d", user.ID)
	}

	got, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned user %d, want %d", got.ID, user.ID)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "bob", "bob@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, "bob", "other@example.com", "pw"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate username accepted: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, "robert", "bob@example.com", "pw"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate email accepted: %v", err)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.RegisterUser(context.Background(), "carol", "", "pw"); err == nil {
		t.Fatalf("empty email accepted")
	}
}

func TestPasswordStoredHashed(t *testing.T) {
	svc, _, db := newTestService(t)
	user, err := svc.RegisterUser(context.Background(), "dave", "dave@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	var stored string
	if err := db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&stored); err != nil {
		t.Fatalf("query hash: %v", err)
	}
	if stored == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestCompleteProfileAndPersonaSelection(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user, err := svc.RegisterUser(ctx, "erin", "erin@example.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.CompleteProfile(ctx, user.ID, "25-34", "they/them", "engineer"); err != nil {
		t.Fatalf("complete profile: %v", err)
	}
	if err := svc.CompletePersonaSelection(ctx, user.ID); err != nil {
		t.Fatalf("complete persona selection: %v", err)
	}

	got, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.ProfileComplete || !got.PersonaSelected {
		t.Fatalf("onboarding flags not set: %+v", got)
	}
	if got.AgeGroup == nil || *got.AgeGroup != "25-34" {
		t.Fatalf("age group = %v", got.AgeGroup)
	}
	if got.Occupation == nil || *got.Occupation != "engineer" {
		t.Fatalf("occupation = %v", got.Occupation)
	}
}
