package authctx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUserFromContextMissing(t *testing.T) {
	t.Parallel()

	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("expected no user on empty context")
	}
}

func TestWithUserRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithUser(context.Background(), User{ID: "user-1", Email: "dm@example.com"})
	user, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected user")
	}
	if user.ID != "user-1" || user.Email != "dm@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	token, err := MintToken(secret, User{ID: "user-1", Email: "player@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	verifier, err := NewTokenVerifier(secret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	user, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != "user-1" || user.Email != "player@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	token, err := MintToken(secret, User{ID: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	verifier, err := NewTokenVerifier(secret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := MintToken([]byte("secret-a"), User{ID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	verifier, err := NewTokenVerifier([]byte("secret-b"))
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	verifier, err := NewTokenVerifier(secret)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	var gotUser User
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = UserFromContext(r.Context())
	})
	handler := Middleware(verifier, next)

	tests := []struct {
		name   string
		header string
		wantOK bool
		wantID string
	}{
		{name: "no header", header: "", wantOK: false},
		{name: "malformed header", header: "Token abc", wantOK: false},
		{name: "garbage token", header: "Bearer not-a-jwt", wantOK: false},
	}

	for _, tc := range tests {
		gotUser, gotOK = User{}, false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotOK != tc.wantOK {
			t.Fatalf("%s: expected ok=%v, got %v", tc.name, tc.wantOK, gotOK)
		}
	}

	token, err := MintToken(secret, User{ID: "user-9"}, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !gotOK || gotUser.ID != "user-9" {
		t.Fatalf("expected authenticated user-9, got %+v ok=%v", gotUser, gotOK)
	}
}
