package service

import (
	"context"
	"testing"
	"time"

	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository/memstore"
)

type testServices struct {
	store    *memstore.Store
	auth     *AuthService
	profiles *ProfileService
	matches  *MatchService
	messages *MessageService
}

func newTestServices() *testServices {
	store := memstore.New()
	return &testServices{
		store:    store,
		auth:     NewAuthService(store.Users(), store.Profiles(), "test-secret", TokenExpiry),
		profiles: NewProfileService(store.Profiles()),
		matches:  NewMatchService(store.Matches()),
		messages: NewMessageService(store.Messages()),
	}
}

func validRegistration(email string) model.RegisterRequest {
	return model.RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Age:      30,
		Gender:   model.GenderFemale,
		Location: "Tokyo",
	}
}

func (ts *testServices) register(t *testing.T, email string) model.AuthResponse {
	t.Helper()
	resp, err := ts.auth.Register(context.Background(), validRegistration(email))
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return resp
}

// tick advances the service clock by one second per call.
func tick(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	prev := now
	now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}
