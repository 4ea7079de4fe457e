// Package auth は創業者の認証とセッショントークンの発行・検証を提供する。
package auth

import (
	"crypto/subtle"

	"github.com/hitoshi/leadman/internal/model"
)

// CredentialStore は認証情報の照合インターフェース。
// テストで設定に依存しないフィクスチャに差し替えられるよう、1メソッドに絞る。
type CredentialStore interface {
	// Authenticate はユーザー名とパスワードを照合し、一致した創業者を返す。
	// どちらのペアとも一致しない場合はfalseを返す。
	Authenticate(username, password string) (*model.FounderIdentity, bool)
}

// credentialPair は1人分の認証情報と創業者の対応を保持する。
type credentialPair struct {
	username string
	password string
	founder  model.Founder
}

// StaticCredentialStore は設定で固定された2人分の認証情報を保持する。
// 永続化は行わず、プロセス生存期間中は不変。
type StaticCredentialStore struct {
	pairs [2]credentialPair
}

// NewStaticCredentialStore はStaticCredentialStoreを生成する。
func NewStaticCredentialStore(usernameA, passwordA, usernameB, passwordB string) *StaticCredentialStore {
	return &StaticCredentialStore{
		pairs: [2]credentialPair{
			{username: usernameA, password: passwordA, founder: model.FounderA},
			{username: usernameB, password: passwordB, founder: model.FounderB},
		},
	}
}

// Authenticate はユーザー名とパスワードを両方のペアと照合する。
// タイミング差を作らないよう、途中で一致しても必ず両ペアを評価する。
func (s *StaticCredentialStore) Authenticate(username, password string) (*model.FounderIdentity, bool) {
	var matched *model.FounderIdentity

	for i := range s.pairs {
		p := &s.pairs[i]
		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
		if userOK && passOK {
			matched = &model.FounderIdentity{
				Username: p.username,
				Founder:  p.founder,
			}
		}
	}

	if matched == nil {
		return nil, false
	}
	return matched, true
}

// compile-time interface check
var _ CredentialStore = (*StaticCredentialStore)(nil)
