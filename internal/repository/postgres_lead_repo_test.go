package repository

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/hitoshi/leadman/internal/model"
)

// PostgresLeadRepoはLeadRepositoryインターフェースを満たすことを検証
func TestPostgresLeadRepo_ImplementsInterface(t *testing.T) {
	var _ LeadRepository = (*PostgresLeadRepo)(nil)
}

// NewPostgresLeadRepoが正しく初期化されることを検証
func TestNewPostgresLeadRepo_Initializes(t *testing.T) {
	repo := NewPostgresLeadRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// fakeRowScanner はDB接続なしでscanLeadを検証するためのスキャナ。
type fakeRowScanner struct {
	values []any
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if len(dest) != len(f.values) {
		return fmt.Errorf("dest count = %d, values count = %d", len(dest), len(f.values))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.values[i].(string)
		case *sql.NullTime:
			*p = f.values[i].(sql.NullTime)
		case *time.Time:
			*p = f.values[i].(time.Time)
		case *[]byte:
			*p = f.values[i].([]byte)
		case *bool:
			*p = f.values[i].(bool)
		default:
			return fmt.Errorf("unsupported dest type %T", d)
		}
	}
	return nil
}

// ユニットテスト: scanLeadが1行をドメインモデルに正しく変換すること
// （DB接続なしでロジックのみ検証）
func TestScanLead_ConvertsRowToLead(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	callAt := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	scanner := &fakeRowScanner{values: []any{
		"lead-1",                              // id
		"Acme",                                // company_name
		"SaaS",                                // sector
		"https://acme.example.com",            // website_url
		"hello@acme.example.com",              // email
		"",                                    // mobile_number
		"",                                    // full_address
		"Website",                             // source
		"New",                                 // status
		sql.NullTime{},                        // last_contacted_date
		"",                                    // latest_reply_notes
		sql.NullTime{Time: callAt, Valid: true}, // call_schedule_date
		sql.NullTime{},                        // next_follow_up_date
		"Founder A",                           // created_by
		"Founder A",                           // assigned_to
		created,                               // created_at
		created,                               // updated_at
		[]byte(`[{"timestamp":"2025-06-01T12:30:00Z","action":"Called","notes":"No answer"}]`), // interaction_history
		false, // is_deleted
	}}

	lead, err := scanLead(scanner)
	if err != nil {
		t.Fatalf("scanLead failed: %v", err)
	}

	if lead.ID != "lead-1" || lead.CompanyName != "Acme" {
		t.Errorf("lead = %+v, want id=lead-1 company=Acme", lead)
	}
	if lead.Sector != model.SectorSaaS {
		t.Errorf("Sector = %q, want %q", lead.Sector, model.SectorSaaS)
	}
	if lead.Source != model.SourceWebsite {
		t.Errorf("Source = %q, want %q", lead.Source, model.SourceWebsite)
	}
	if lead.Status != model.StatusNew {
		t.Errorf("Status = %q, want %q", lead.Status, model.StatusNew)
	}
	if lead.CreatedBy != model.FounderA || lead.AssignedTo != model.FounderA {
		t.Errorf("owners = (%q, %q), want Founder A", lead.CreatedBy, lead.AssignedTo)
	}
	if lead.LastContactedDate != nil {
		t.Errorf("LastContactedDate = %v, want nil", lead.LastContactedDate)
	}
	if lead.CallScheduleDate == nil || !lead.CallScheduleDate.Equal(callAt) {
		t.Errorf("CallScheduleDate = %v, want %v", lead.CallScheduleDate, callAt)
	}
	if len(lead.InteractionHistory) != 1 {
		t.Fatalf("len(InteractionHistory) = %d, want 1", len(lead.InteractionHistory))
	}
	if lead.InteractionHistory[0].Action != "Called" {
		t.Errorf("Action = %q, want %q", lead.InteractionHistory[0].Action, "Called")
	}
	if lead.IsDeleted {
		t.Error("IsDeleted = true, want false")
	}
}

func TestScanLead_EmptyHistory(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	scanner := &fakeRowScanner{values: []any{
		"lead-1", "Acme", "SaaS", "", "", "", "", "Website", "New",
		sql.NullTime{}, "", sql.NullTime{}, sql.NullTime{},
		"Founder A", "Founder A", created, created,
		[]byte(`[]`), false,
	}}

	lead, err := scanLead(scanner)
	if err != nil {
		t.Fatalf("scanLead failed: %v", err)
	}
	if lead.InteractionHistory == nil {
		t.Error("InteractionHistory = nil, want empty slice")
	}
	if len(lead.InteractionHistory) != 0 {
		t.Errorf("len(InteractionHistory) = %d, want 0", len(lead.InteractionHistory))
	}
}

func TestNullableTime(t *testing.T) {
	if got := nullableTime(sql.NullTime{}); got != nil {
		t.Errorf("nullableTime(invalid) = %v, want nil", got)
	}

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := nullableTime(sql.NullTime{Time: at, Valid: true})
	if got == nil || !got.Equal(at) {
		t.Errorf("nullableTime(valid) = %v, want %v", got, at)
	}
}
