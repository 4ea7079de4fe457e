package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/leadman/internal/model"
)

// mockDashboardService はDashboardServiceInterfaceのモック実装。
type mockDashboardService struct {
	statsFn func(ctx context.Context) (*model.DashboardStats, error)
}

func (m *mockDashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return nil, nil
}

func TestDashboardHandler_Stats_Success(t *testing.T) {
	svc := &mockDashboardService{
		statsFn: func(ctx context.Context) (*model.DashboardStats, error) {
			byStatus := make(map[model.LeadStatus]int)
			for _, s := range model.AllLeadStatuses() {
				byStatus[s] = 0
			}
			byStatus[model.StatusNew] = 3

			bySector := make(map[model.Sector]int)
			for _, s := range model.AllSectors() {
				bySector[s] = 0
			}
			bySector[model.SectorSaaS] = 3

			return &model.DashboardStats{
				TotalLeads:    3,
				LeadsByStatus: byStatus,
				LeadsBySector: bySector,
				LeadsByOwner: map[model.Founder]int{
					model.FounderA: 2,
					model.FounderB: 1,
				},
				UpcomingCalls: []*model.Lead{sampleLead("lead-1")},
				RecentUpdates: []*model.Lead{sampleLead("lead-2"), sampleLead("lead-3")},
			}, nil
		},
	}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req = withIdentity(req, "alice", model.FounderA)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result struct {
		TotalLeads    int              `json:"total_leads"`
		LeadsByStatus map[string]int   `json:"leads_by_status"`
		LeadsBySector map[string]int   `json:"leads_by_sector"`
		LeadsByOwner  map[string]int   `json:"leads_by_owner"`
		UpcomingCalls []map[string]any `json:"upcoming_calls"`
		RecentUpdates []map[string]any `json:"recent_updates"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.TotalLeads != 3 {
		t.Errorf("total_leads = %d, want 3", result.TotalLeads)
	}
	if result.LeadsByStatus["New"] != 3 {
		t.Errorf("leads_by_status[New] = %d, want 3", result.LeadsByStatus["New"])
	}
	// ゼロ件のバケットもレスポンスに含まれる
	if count, ok := result.LeadsByStatus["Lost"]; !ok || count != 0 {
		t.Errorf("leads_by_status[Lost] = %d (present=%v), want 0", count, ok)
	}
	if len(result.LeadsBySector) != len(model.AllSectors()) {
		t.Errorf("len(leads_by_sector) = %d, want %d", len(result.LeadsBySector), len(model.AllSectors()))
	}
	if result.LeadsByOwner["Founder A"] != 2 || result.LeadsByOwner["Founder B"] != 1 {
		t.Errorf("leads_by_owner = %v, want A=2 B=1", result.LeadsByOwner)
	}
	if len(result.UpcomingCalls) != 1 || result.UpcomingCalls[0]["id"] != "lead-1" {
		t.Errorf("upcoming_calls = %v, want [lead-1]", result.UpcomingCalls)
	}
	if len(result.RecentUpdates) != 2 {
		t.Errorf("len(recent_updates) = %d, want 2", len(result.RecentUpdates))
	}
}

func TestDashboardHandler_Stats_ServiceError(t *testing.T) {
	svc := &mockDashboardService{
		statsFn: func(ctx context.Context) (*model.DashboardStats, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req = withIdentity(req, "alice", model.FounderA)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
