// Package model はドメインモデルを定義する。
package model

// Founder はシステムを利用する2人の創業者のいずれかを表す。
// デプロイ時に設定で決まる固定のアイデンティティであり、実行時に増減しない。
type Founder string

const (
	// FounderA は創業者Aを表す。
	FounderA Founder = "Founder A"
	// FounderB は創業者Bを表す。
	FounderB Founder = "Founder B"
)

// AllFounders は全創業者のリストを返す。
// ダッシュボードのオーナー別集計でゼロ件バケットを埋めるために使用する。
func AllFounders() []Founder {
	return []Founder{FounderA, FounderB}
}

// IsValid は創業者の値が定義済みのいずれかであるかを返す。
func (f Founder) IsValid() bool {
	return f == FounderA || f == FounderB
}

// ParseFounder は文字列からFounderを解析する。
// 未知の値の場合はfalseを返す。
func ParseFounder(s string) (Founder, bool) {
	f := Founder(s)
	if !f.IsValid() {
		return "", false
	}
	return f, true
}

// FounderIdentity は認証に成功した創業者のアイデンティティを表す。
type FounderIdentity struct {
	Username string
	Founder  Founder
}
