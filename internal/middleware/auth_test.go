package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/leadman/internal/model"
)

// mockTokenVerifier はTokenVerifierのモック実装。
type mockTokenVerifier struct {
	verifyFn func(token string) (*model.FounderIdentity, error)
}

func (m *mockTokenVerifier) Verify(token string) (*model.FounderIdentity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return nil, errors.New("verify not configured")
}

func TestAuthMiddleware_ValidToken_InjectsIdentity(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) (*model.FounderIdentity, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return &model.FounderIdentity{Username: "alice", Founder: model.FounderA}, nil
		},
	}

	var gotIdentity *model.FounderIdentity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Fatalf("identity not found in context: %v", err)
		}
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	})

	handler := NewAuthMiddleware(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotIdentity == nil || gotIdentity.Founder != model.FounderA {
		t.Errorf("identity = %+v, want FounderA", gotIdentity)
	}
}

func TestAuthMiddleware_RejectedRequests(t *testing.T) {
	// 欠落・形式不正・検証失敗はすべて同一の401レスポンスを返す
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) (*model.FounderIdentity, error) {
			return nil, errors.New("invalid signature")
		},
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty token", "Bearer "},
		{"bare token without scheme", "some-token"},
		{"verification failure", "Bearer tampered-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			handler := NewAuthMiddleware(verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if nextCalled {
				t.Error("next handler should not be called")
			}
		})
	}
}

func TestAuthMiddleware_BearerSchemeCaseInsensitive(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) (*model.FounderIdentity, error) {
			return &model.FounderIdentity{Username: "alice", Founder: model.FounderA}, nil
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewAuthMiddleware(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestIdentityFromContext_MissingIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, err := IdentityFromContext(req.Context()); err == nil {
		t.Error("expected error when identity is missing from context")
	}
}
