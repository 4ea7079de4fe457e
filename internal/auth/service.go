package auth

import (
	"log/slog"

	"github.com/hitoshi/leadman/internal/model"
)

// LoginResult はログイン成功時の結果を表す。
type LoginResult struct {
	AccessToken string
	Founder     model.Founder
}

// Service はログイン処理を提供する。
// 認証情報の照合とトークン発行を組み合わせるだけの純粋な計算であり、I/Oは行わない。
type Service struct {
	credentials CredentialStore
	tokens      *TokenService
}

// NewService はServiceを生成する。
func NewService(credentials CredentialStore, tokens *TokenService) *Service {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
	}
}

// Login はユーザー名とパスワードを照合し、セッショントークンを発行する。
// 照合に失敗した場合はErrInvalidCredentialsを返す。
func (s *Service) Login(username, password string) (*LoginResult, error) {
	identity, ok := s.credentials.Authenticate(username, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identity.Username, identity.Founder, 0)
	if err != nil {
		return nil, err
	}

	slog.Info("founder logged in",
		slog.String("username", identity.Username),
		slog.String("founder", string(identity.Founder)),
	)

	return &LoginResult{
		AccessToken: token,
		Founder:     identity.Founder,
	}, nil
}
