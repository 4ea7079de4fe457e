// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/leadman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済み創業者を格納するためのキー。
var identityContextKey = contextKey("founder_identity")

// TokenVerifier はセッショントークンの検証に必要なインターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (*model.FounderIdentity, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// 認証済みの創業者アイデンティティをリクエストコンテキストに注入する。
// トークンの欠落・改ざん・期限切れはすべて同一の401レスポンスを返し、原因を区別しない。
// 有効なトークンを持つ創業者は、どちらが作成したリードに対しても全操作が可能。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. トークンの検証
			identity, err := verifier.Verify(parts[1])
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 認証済みアイデンティティをコンテキストに注入
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済み創業者を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.FounderIdentity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.FounderIdentity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("founder identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに認証済み創業者を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.FounderIdentity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
