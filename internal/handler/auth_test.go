package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/model"
)

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})

	reg := srv.register("X@Example.com", model.GenderFemale, "Tokyo", 30)
	if reg.Token == "" || reg.User.ID == "" {
		t.Fatalf("register response missing token or user: %+v", reg)
	}
	if reg.User.Email != "x@example.com" {
		t.Errorf("email = %q, want normalized", reg.User.Email)
	}
	if reg.User.Profile == nil || reg.User.Profile.Age != 30 {
		t.Fatalf("profile = %+v", reg.User.Profile)
	}

	rr := srv.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "x@example.com", "password": "password123",
	}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}
	var login model.AuthResponse
	decodeBody(t, rr, &login)
	if login.User.ID != reg.User.ID {
		t.Errorf("login user = %q, want %q", login.User.ID, reg.User.ID)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Error("response must not expose the password hash")
	}

	rr = srv.do(http.MethodGet, "/auth/me", nil, login.Token)
	if rr.Code != http.StatusOK {
		t.Fatalf("me status = %d", rr.Code)
	}
	var me model.UserResponse
	decodeBody(t, rr, &me)
	if me.ID != reg.User.ID {
		t.Errorf("me id = %q, want %q", me.ID, reg.User.ID)
	}
}

func TestRegisterFailures(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	srv.register("taken@example.com", model.GenderMale, "Osaka", 40)

	valid := func() map[string]any {
		return map[string]any{
			"email": "new@example.com", "password": "password123", "name": "New",
			"age": 25, "gender": "other", "location": "Kyoto",
		}
	}

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{name: "duplicate email", mutate: func(b map[string]any) { b["email"] = "TAKEN@example.com" }, wantMsg: "registration failed"},
		{name: "missing name", mutate: func(b map[string]any) { delete(b, "name") }, wantMsg: "name is required"},
		{name: "bad email", mutate: func(b map[string]any) { b["email"] = "not-an-email" }, wantMsg: "email must be a valid email address"},
		{name: "short password", mutate: func(b map[string]any) { b["password"] = "12345" }, wantMsg: "password must be at least 6 characters"},
		{name: "too young", mutate: func(b map[string]any) { b["age"] = 17 }, wantMsg: "age must be between 18 and 100"},
		{name: "too old", mutate: func(b map[string]any) { b["age"] = 101 }, wantMsg: "age must be between 18 and 100"},
		{name: "bad gender", mutate: func(b map[string]any) { b["gender"] = "robot" }, wantMsg: "gender must be one of: male female other"},
		{name: "password over bcrypt limit", mutate: func(b map[string]any) { b["password"] = strings.Repeat("p", 73) }, wantMsg: "password must be at most 72 characters"},
		{name: "long location", mutate: func(b map[string]any) { b["location"] = strings.Repeat("l", 256) }, wantMsg: "location must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)
			expectError(t, srv.do(http.MethodPost, "/auth/register", body, ""), http.StatusBadRequest, tt.wantMsg)
		})
	}
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	srv.register("user@example.com", model.GenderMale, "Osaka", 40)

	wrongPassword := srv.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "user@example.com", "password": "wrong-password",
	}, "")
	unknownEmail := srv.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	}, "")

	expectError(t, wrongPassword, http.StatusBadRequest, "login failed")
	expectError(t, unknownEmail, http.StatusBadRequest, "login failed")

	missing := srv.do(http.MethodPost, "/auth/login", map[string]string{"email": "user@example.com"}, "")
	expectError(t, missing, http.StatusBadRequest, "password is required")
}

func TestDecodeFailures(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})

	expectError(t, srv.do(http.MethodPost, "/auth/register", "{not json", ""), http.StatusBadRequest, "invalid request body")

	huge := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	expectError(t, srv.do(http.MethodPost, "/auth/login", huge, ""), http.StatusRequestEntityTooLarge, "request body too large")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})

	routes := []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/profile/update"},
		{http.MethodPost, "/like/send"},
		{http.MethodGet, "/like/inbox"},
		{http.MethodPatch, "/like/inbox"},
		{http.MethodPost, "/message/send"},
		{http.MethodGet, "/message/inbox"},
		{http.MethodGet, "/message/room?partnerId=x"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			expectError(t, srv.do(rt.method, rt.path, nil, ""), http.StatusUnauthorized, "")
			expectError(t, srv.do(rt.method, rt.path, nil, "garbage"), http.StatusUnauthorized, "invalid or expired token")
		})
	}
}

func TestTokenForDeletedUserIsRejected(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	reg := srv.register("gone@example.com", model.GenderMale, "Osaka", 40)

	srv.store.Users().Delete(reg.User.ID)

	expectError(t, srv.do(http.MethodGet, "/auth/me", nil, reg.Token), http.StatusUnauthorized, "invalid or expired token")
}

func TestAuthRateLimitIgnoresForwardedHeaders(t *testing.T) {
	srv := newTestServer(t, RouterOptions{AuthLimiter: middleware.RateLimit(0.001, 1)})

	body := `{"email":"nobody@example.com","password":"password123"}`
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rr := httptest.NewRecorder()
		srv.handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusBadRequest {
		t.Fatalf("first request status = %d, want 400", codes[0])
	}
	for i, code := range codes[1:] {
		if code != http.StatusTooManyRequests {
			t.Errorf("request #%d status = %d, want 429 (codes %v)", i+2, code, codes)
		}
	}
}

func TestAuthRateLimit(t *testing.T) {
	srv := newTestServer(t, RouterOptions{AuthLimiter: middleware.RateLimit(0.001, 1)})

	body := map[string]string{"email": "nobody@example.com", "password": "password123"}
	expectError(t, srv.do(http.MethodPost, "/auth/login", body, ""), http.StatusBadRequest, "login failed")
	expectError(t, srv.do(http.MethodPost, "/auth/login", body, ""), http.StatusTooManyRequests, "too many requests")

	// unlimited routes are unaffected
	if rr := srv.do(http.MethodGet, "/health", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("health status = %d", rr.Code)
	}
}
