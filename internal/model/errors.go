// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, lead, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeLeadNotFound       = "LEAD_NOT_FOUND"
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"
)

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名とパスワードのどちらが誤っているかは区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "認証情報を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
// トークンの改ざんと期限切れを区別しない（オラクルリーク防止）。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証トークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewLeadNotFoundError はリード未検出エラーを生成する。
func NewLeadNotFoundError(leadID string) *APIError {
	return &APIError{
		Code:     ErrCodeLeadNotFound,
		Message:  fmt.Sprintf("指定されたリードが見つかりません: %s", leadID),
		Category: "lead",
		Action:   "リードIDを確認してください。",
	}
}

// NewStoreUnavailableError はデータストア到達不能エラーを生成する。
// リトライは行わず、呼び出し元に即座に返す。
func NewStoreUnavailableError(err error) *APIError {
	return &APIError{
		Code:     ErrCodeStoreUnavailable,
		Message:  fmt.Sprintf("データストアに接続できません: %v", err),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// FieldError はバリデーションで不正と判定された1フィールドを表す。
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError は入力バリデーション失敗を表す。
// 最初の1件だけではなく、不正なフィールドすべてを列挙する。
type ValidationError struct {
	Fields []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("[%s] %s", ErrCodeValidationFailed, strings.Join(parts, ", "))
}
