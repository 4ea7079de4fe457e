package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/leadman/internal/model"
)

// newTestTokenService は固定クロックを持つTokenServiceを生成する。
func newTestTokenService(secret string, now time.Time) *TokenService {
	s := NewTokenService(secret, 24*time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestTokenService_IssueAndVerify_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", now)

	token, err := s.Issue("alice", model.FounderA, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if identity.Username != "alice" {
		t.Errorf("Username = %q, want %q", identity.Username, "alice")
	}
	if identity.Founder != model.FounderA {
		t.Errorf("Founder = %q, want %q", identity.Founder, model.FounderA)
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", issuedAt)

	token, err := s.Issue("alice", model.FounderA, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// クロックをTTL経過後に進める
	s.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }

	_, err = s.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenService_Verify_ValidJustBeforeExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", issuedAt)

	token, err := s.Issue("alice", model.FounderA, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	s.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }

	if _, err := s.Verify(token); err != nil {
		t.Errorf("Verify failed just before expiry: %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestTokenService("secret-one", now)
	verifier := newTestTokenService("secret-two", now)

	token, err := issuer.Issue("alice", model.FounderA, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify error = %v, want ErrInvalidSignature", err)
	}
}

func TestTokenService_Verify_GarbageToken(t *testing.T) {
	s := newTestTokenService("test-secret", time.Now())

	_, err := s.Verify("not-a-jwt-at-all")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify error = %v, want ErrInvalidSignature", err)
	}
}

func TestTokenService_Verify_UnsignedAlgorithmRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", now)

	// alg=noneのトークンは署名エラーとして拒否する
	claims := &Claims{
		Founder: string(model.FounderA),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	_, err = s.Verify(unsigned)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify error = %v, want ErrInvalidSignature", err)
	}
}

func TestTokenService_Verify_MissingClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", now)

	tests := []struct {
		name    string
		subject string
		founder string
	}{
		{"missing subject", "", string(model.FounderA)},
		{"missing founder", "alice", ""},
		{"unknown founder", "alice", "Founder C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{
				Founder: tt.founder,
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   tt.subject,
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					IssuedAt:  jwt.NewNumericDate(now),
				},
			}
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte("test-secret"))
			if err != nil {
				t.Fatalf("failed to sign token: %v", err)
			}

			_, err = s.Verify(signed)
			if !errors.Is(err, ErrMalformedClaims) {
				t.Errorf("Verify error = %v, want ErrMalformedClaims", err)
			}
		})
	}
}

func TestTokenService_Issue_DefaultTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService("test-secret", now)

	token, err := s.Issue("alice", model.FounderA, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// デフォルトTTL(24h)以内は有効、経過後は無効
	s.now = func() time.Time { return now.Add(23 * time.Hour) }
	if _, err := s.Verify(token); err != nil {
		t.Errorf("Verify failed within default TTL: %v", err)
	}

	s.now = func() time.Time { return now.Add(25 * time.Hour) }
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify error = %v, want ErrTokenExpired", err)
	}
}
