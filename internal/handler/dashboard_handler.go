package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/leadman/internal/model"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// DashboardHandler はダッシュボード統計のHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// dashboardStatsResponse はダッシュボード統計のレスポンス表現。
type dashboardStatsResponse struct {
	TotalLeads    int            `json:"total_leads"`
	LeadsByStatus map[string]int `json:"leads_by_status"`
	LeadsBySector map[string]int `json:"leads_by_sector"`
	LeadsByOwner  map[string]int `json:"leads_by_owner"`
	UpcomingCalls []leadResponse `json:"upcoming_calls"`
	RecentUpdates []leadResponse `json:"recent_updates"`
}

// Stats は削除されていないリード全体の集計統計を返す。
// GET /api/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := dashboardStatsResponse{
		TotalLeads:    stats.TotalLeads,
		LeadsByStatus: make(map[string]int, len(stats.LeadsByStatus)),
		LeadsBySector: make(map[string]int, len(stats.LeadsBySector)),
		LeadsByOwner:  make(map[string]int, len(stats.LeadsByOwner)),
		UpcomingCalls: make([]leadResponse, 0, len(stats.UpcomingCalls)),
		RecentUpdates: make([]leadResponse, 0, len(stats.RecentUpdates)),
	}
	for status, count := range stats.LeadsByStatus {
		resp.LeadsByStatus[string(status)] = count
	}
	for sector, count := range stats.LeadsBySector {
		resp.LeadsBySector[string(sector)] = count
	}
	for owner, count := range stats.LeadsByOwner {
		resp.LeadsByOwner[string(owner)] = count
	}
	for _, l := range stats.UpcomingCalls {
		resp.UpcomingCalls = append(resp.UpcomingCalls, toLeadResponse(l))
	}
	for _, l := range stats.RecentUpdates {
		resp.RecentUpdates = append(resp.RecentUpdates, toLeadResponse(l))
	}

	writeJSON(w, http.StatusOK, resp)
}
