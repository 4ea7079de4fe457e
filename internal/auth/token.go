package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/leadman/internal/model"
)

// Claims はセッショントークンに載せるクレーム。
// subjectにユーザー名、founderに創業者名を持つ。
type Claims struct {
	Founder string `json:"founder"`
	jwt.RegisteredClaims
}

// TokenService はHS256署名付きセッショントークンの発行と検証を提供する。
// 署名鍵は設定由来でプロセス生存期間中は不変。サーバー側の失効管理は持たず、
// トークンは有効期限が切れるまで有効。
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time // テストで固定クロックに差し替える
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Issue はユーザー名と創業者を含む署名付きトークンを発行する。
// ttlが0以下の場合はデフォルトTTLを使用する。
func (s *TokenService) Issue(username string, founder model.Founder, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	claims := &Claims{
		Founder: string(founder),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、ユーザー名と創業者を返す。
// 署名不一致はErrInvalidSignature、期限切れはErrTokenExpired、
// 署名は正しいが必須クレームが欠落・不正な場合はErrMalformedClaimsを返す。
func (s *TokenService) Verify(tokenString string) (*model.FounderIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			// 署名不一致・改ざん・解析不能はすべて署名エラーとして扱う
			return nil, ErrInvalidSignature
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}

	if claims.Subject == "" || claims.Founder == "" {
		return nil, ErrMalformedClaims
	}

	founder, ok := model.ParseFounder(claims.Founder)
	if !ok {
		return nil, ErrMalformedClaims
	}

	return &model.FounderIdentity{
		Username: claims.Subject,
		Founder:  founder,
	}, nil
}
