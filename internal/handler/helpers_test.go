package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository/memstore"
	"github.com/pairlink/pairlink-go/internal/service"
)

type testServer struct {
	t       *testing.T
	store   *memstore.Store
	handler http.Handler
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	store := memstore.New()
	svc := Services{
		Auth:     service.NewAuthService(store.Users(), store.Profiles(), "handler-test-secret", service.TokenExpiry),
		Profiles: service.NewProfileService(store.Profiles()),
		Matches:  service.NewMatchService(store.Matches()),
		Messages: service.NewMessageService(store.Messages()),
	}
	return &testServer{t: t, store: store, handler: NewRouter(svc, opts, zap.NewNop())}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) register(email, gender, location string, age int) model.AuthResponse {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/auth/register", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "User " + email,
		"age":      age,
		"gender":   gender,
		"location": location,
	}, "")
	if rr.Code != http.StatusOK {
		s.t.Fatalf("register %s: status %d body %s", email, rr.Code, rr.Body.String())
	}
	var resp model.AuthResponse
	decodeBody(s.t, rr, &resp)
	return resp
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	var body map[string]string
	decodeBody(t, rr, &body)
	if msg != "" && body["error"] != msg {
		t.Errorf("error = %q, want %q", body["error"], msg)
	}
}
