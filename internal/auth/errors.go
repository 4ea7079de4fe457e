package auth

import "errors"

// 認証エラーの分類。
// APIレスポンスではこれらを区別せず一律に401を返す（オラクルリーク防止）が、
// ログとテストでは原因を識別できるようにする。
var (
	// ErrInvalidCredentials はユーザー名・パスワードの組がどちらの創業者とも一致しないことを示す。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSignature はトークンの署名検証に失敗したことを示す（改ざんまたは鍵違い）。
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrTokenExpired はトークンの有効期限が切れていることを示す。
	ErrTokenExpired = errors.New("token is expired")
	// ErrMalformedClaims は署名は正しいが必須クレーム（sub, founder）が欠落・不正であることを示す。
	ErrMalformedClaims = errors.New("token claims are malformed")
)
