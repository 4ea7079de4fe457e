// Package dashboard はダッシュボード用の集計統計を提供する。
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/leadman/internal/model"
	"github.com/hitoshi/leadman/internal/repository"
)

// PreviewLimit はupcoming_callsとrecent_updatesのプレビュー件数の上限。
const PreviewLimit = 5

// Service はダッシュボード統計の集計を提供する。
// 集計対象は削除されていないリードのみ。
type Service struct {
	repo repository.LeadRepository
	now  func() time.Time // テストで固定クロックに差し替える
}

// NewService はServiceを生成する。
func NewService(repo repository.LeadRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Stats は削除されていないリード全体の集計統計を返す。
// ステータス・業種・担当者の各バケットは件数ゼロでも必ず含まれる。
// upcoming_callsはcall_schedule_dateが現在時刻より後のリードを日時昇順で、
// recent_updatesはupdated_at降順で、それぞれ最大PreviewLimit件返す。
// 同時刻のタイブレークはid昇順。
func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}

	bySector, err := s.repo.CountBySector(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by sector: %w", err)
	}

	byOwner, err := s.repo.CountByOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by owner: %w", err)
	}

	upcoming, err := s.repo.ListUpcomingCalls(ctx, s.now(), PreviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming calls: %w", err)
	}

	recent, err := s.repo.ListRecentUpdates(ctx, PreviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent updates: %w", err)
	}

	stats := &model.DashboardStats{
		TotalLeads:    total,
		LeadsByStatus: make(map[model.LeadStatus]int, len(model.AllLeadStatuses())),
		LeadsBySector: make(map[model.Sector]int, len(model.AllSectors())),
		LeadsByOwner:  make(map[model.Founder]int, len(model.AllFounders())),
		UpcomingCalls: upcoming,
		RecentUpdates: recent,
	}

	// 件数ゼロのバケットも必ず含める
	for _, status := range model.AllLeadStatuses() {
		stats.LeadsByStatus[status] = byStatus[status]
	}
	for _, sector := range model.AllSectors() {
		stats.LeadsBySector[sector] = bySector[sector]
	}
	for _, founder := range model.AllFounders() {
		stats.LeadsByOwner[founder] = byOwner[founder]
	}

	return stats, nil
}
