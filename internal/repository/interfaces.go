// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/leadman/internal/model"
)

// LeadFilter はリード一覧の絞り込み条件を表す。
// nilのフィールドは条件に含めない。複数指定時はAND結合、完全一致のみ。
type LeadFilter struct {
	Status     *model.LeadStatus
	Sector     *model.Sector
	AssignedTo *model.Founder
}

// LeadPatch はリードの部分更新を表す。
// nilのフィールドは変更せず、既存の値を維持する。
// created_byはイミュータブルのため、この型には存在しない。
type LeadPatch struct {
	CompanyName       *string
	Sector            *model.Sector
	WebsiteURL        *string
	Email             *string
	MobileNumber      *string
	FullAddress       *string
	Source            *model.LeadSource
	Status            *model.LeadStatus
	LastContactedDate *time.Time
	LatestReplyNotes  *string
	CallScheduleDate  *time.Time
	NextFollowUpDate  *time.Time
	AssignedTo        *model.Founder
}

// LeadRepository はリードデータの永続化インターフェース。
// 一意性・原子性はストア側（行単位）に委譲し、アプリ内ロックは持たない。
type LeadRepository interface {
	// Create はリードを新規作成する。
	Create(ctx context.Context, lead *model.Lead) error

	// FindByID は指定IDのリードを取得する。is_deletedに関わらず返す。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Lead, error)

	// List は削除されていないリードの一覧を登録順（created_at昇順、同時刻はid昇順）で返す。
	List(ctx context.Context, filter LeadFilter) ([]*model.Lead, error)

	// Update はnilでないフィールドのみを更新し、updated_atを設定する。
	// 更新後のリードを返す。見つからない場合はnilを返す。
	Update(ctx context.Context, id string, patch LeadPatch, updatedAt time.Time) (*model.Lead, error)

	// AppendInteraction は対応記録を履歴末尾に1文で原子的に追記し、
	// updated_atを記録時刻に設定する。見つからない場合はnilを返す。
	AppendInteraction(ctx context.Context, id string, interaction model.Interaction) (*model.Lead, error)

	// SoftDelete はis_deletedをtrueにし、updated_atを設定する。
	// 既に削除済みでも成功として扱う（冪等）。見つからない場合はnilを返す。
	SoftDelete(ctx context.Context, id string, updatedAt time.Time) (*model.Lead, error)

	// CountActive は削除されていないリードの総数を返す。
	CountActive(ctx context.Context) (int, error)

	// CountByStatus は削除されていないリードのステータス別件数を返す。
	// 件数0のステータスはマップに含まれない（ゼロ埋めは呼び出し側で行う）。
	CountByStatus(ctx context.Context) (map[model.LeadStatus]int, error)

	// CountBySector は削除されていないリードの業種別件数を返す。
	CountBySector(ctx context.Context) (map[model.Sector]int, error)

	// CountByOwner は削除されていないリードの担当者別件数を返す。
	CountByOwner(ctx context.Context) (map[model.Founder]int, error)

	// ListUpcomingCalls はcall_schedule_dateがafterより後の削除されていないリードを
	// 日時昇順（同時刻はid昇順）で最大limit件返す。
	ListUpcomingCalls(ctx context.Context, after time.Time, limit int) ([]*model.Lead, error)

	// ListRecentUpdates は削除されていないリードをupdated_at降順（同時刻はid昇順）で
	// 最大limit件返す。
	ListRecentUpdates(ctx context.Context, limit int) ([]*model.Lead, error)
}
