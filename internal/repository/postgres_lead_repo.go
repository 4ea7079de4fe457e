package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/leadman/internal/model"
)

// leadColumns はリード取得クエリで共通のカラムリスト。
const leadColumns = `id, company_name, sector, website_url, email, mobile_number,
	full_address, source, status, last_contacted_date, latest_reply_notes,
	call_schedule_date, next_follow_up_date, created_by, assigned_to,
	created_at, updated_at, interaction_history, is_deleted`

// PostgresLeadRepo はPostgreSQLを使用したリードリポジトリ。
// interaction_historyはJSONBカラムに保持し、追記は単一のUPDATE文で行うことで
// 行単位の原子性を利用する。
type PostgresLeadRepo struct {
	db *sql.DB
}

// NewPostgresLeadRepo はPostgresLeadRepoを生成する。
func NewPostgresLeadRepo(db *sql.DB) *PostgresLeadRepo {
	return &PostgresLeadRepo{db: db}
}

// Create はリードを新規作成する。
func (r *PostgresLeadRepo) Create(ctx context.Context, lead *model.Lead) error {
	history, err := json.Marshal(lead.InteractionHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction history: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO leads (id, company_name, sector, website_url, email, mobile_number,
			full_address, source, status, last_contacted_date, latest_reply_notes,
			call_schedule_date, next_follow_up_date, created_by, assigned_to,
			created_at, updated_at, interaction_history, is_deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		lead.ID, lead.CompanyName, string(lead.Sector), lead.WebsiteURL, lead.Email,
		lead.MobileNumber, lead.FullAddress, string(lead.Source), string(lead.Status),
		lead.LastContactedDate, lead.LatestReplyNotes, lead.CallScheduleDate,
		lead.NextFollowUpDate, string(lead.CreatedBy), string(lead.AssignedTo),
		lead.CreatedAt, lead.UpdatedAt, history, lead.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

// FindByID は指定IDのリードを取得する。is_deletedに関わらず返す。
// 見つからない場合はnilを返す。
func (r *PostgresLeadRepo) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`,
		id,
	)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead by ID: %w", err)
	}

	return lead, nil
}

// List は削除されていないリードの一覧を登録順で返す。
// フィルタはAND結合の完全一致。
func (r *PostgresLeadRepo) List(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE is_deleted = FALSE`
	args := []any{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Sector != nil {
		args = append(args, string(*filter.Sector))
		query += fmt.Sprintf(" AND sector = $%d", len(args))
	}
	if filter.AssignedTo != nil {
		args = append(args, string(*filter.AssignedTo))
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

// Update はnilでないフィールドのみを更新し、更新後のリードを返す。
// 見つからない場合はnilを返す。
func (r *PostgresLeadRepo) Update(ctx context.Context, id string, patch LeadPatch, updatedAt time.Time) (*model.Lead, error) {
	setParts := []string{}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.CompanyName != nil {
		set("company_name", *patch.CompanyName)
	}
	if patch.Sector != nil {
		set("sector", string(*patch.Sector))
	}
	if patch.WebsiteURL != nil {
		set("website_url", *patch.WebsiteURL)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.MobileNumber != nil {
		set("mobile_number", *patch.MobileNumber)
	}
	if patch.FullAddress != nil {
		set("full_address", *patch.FullAddress)
	}
	if patch.Source != nil {
		set("source", string(*patch.Source))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.LastContactedDate != nil {
		set("last_contacted_date", *patch.LastContactedDate)
	}
	if patch.LatestReplyNotes != nil {
		set("latest_reply_notes", *patch.LatestReplyNotes)
	}
	if patch.CallScheduleDate != nil {
		set("call_schedule_date", *patch.CallScheduleDate)
	}
	if patch.NextFollowUpDate != nil {
		set("next_follow_up_date", *patch.NextFollowUpDate)
	}
	if patch.AssignedTo != nil {
		set("assigned_to", string(*patch.AssignedTo))
	}

	// 空のパッチでもupdated_atは必ず更新する
	set("updated_at", updatedAt)

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE leads SET %s WHERE id = $%d RETURNING `+leadColumns,
		strings.Join(setParts, ", "), len(args),
	)

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return lead, nil
}

// AppendInteraction は対応記録を履歴末尾に追記する。
// JSONB連結演算子による単一UPDATE文のため、同時追記が競合しても履歴は失われない。
// 見つからない場合はnilを返す。
func (r *PostgresLeadRepo) AppendInteraction(ctx context.Context, id string, interaction model.Interaction) (*model.Lead, error) {
	entry, err := json.Marshal([]model.Interaction{interaction})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interaction: %w", err)
	}

	lead, err := scanLead(r.db.QueryRowContext(ctx,
		`UPDATE leads
		 SET interaction_history = interaction_history || $1::jsonb, updated_at = $2
		 WHERE id = $3
		 RETURNING `+leadColumns,
		entry, interaction.Timestamp, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append interaction: %w", err)
	}

	return lead, nil
}

// SoftDelete はis_deletedをtrueにする。冪等であり、既に削除済みでも成功する。
// 見つからない場合はnilを返す。
func (r *PostgresLeadRepo) SoftDelete(ctx context.Context, id string, updatedAt time.Time) (*model.Lead, error) {
	lead, err := scanLead(r.db.QueryRowContext(ctx,
		`UPDATE leads SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 RETURNING `+leadColumns,
		updatedAt, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to soft-delete lead: %w", err)
	}

	return lead, nil
}

// CountActive は削除されていないリードの総数を返す。
func (r *PostgresLeadRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE is_deleted = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// CountByStatus は削除されていないリードのステータス別件数を返す。
func (r *PostgresLeadRepo) CountByStatus(ctx context.Context) (map[model.LeadStatus]int, error) {
	counts := make(map[model.LeadStatus]int)
	err := r.countGrouped(ctx, "status", func(key string, count int) {
		counts[model.LeadStatus(key)] = count
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by status: %w", err)
	}
	return counts, nil
}

// CountBySector は削除されていないリードの業種別件数を返す。
func (r *PostgresLeadRepo) CountBySector(ctx context.Context) (map[model.Sector]int, error) {
	counts := make(map[model.Sector]int)
	err := r.countGrouped(ctx, "sector", func(key string, count int) {
		counts[model.Sector(key)] = count
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by sector: %w", err)
	}
	return counts, nil
}

// CountByOwner は削除されていないリードの担当者別件数を返す。
func (r *PostgresLeadRepo) CountByOwner(ctx context.Context) (map[model.Founder]int, error) {
	counts := make(map[model.Founder]int)
	err := r.countGrouped(ctx, "assigned_to", func(key string, count int) {
		counts[model.Founder(key)] = count
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by owner: %w", err)
	}
	return counts, nil
}

// ListUpcomingCalls はcall_schedule_dateがafterより後のリードを日時昇順で返す。
func (r *PostgresLeadRepo) ListUpcomingCalls(ctx context.Context, after time.Time, limit int) ([]*model.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE is_deleted = FALSE AND call_schedule_date > $1
		 ORDER BY call_schedule_date ASC, id ASC
		 LIMIT $2`,
		after, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming calls: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListRecentUpdates は削除されていないリードをupdated_at降順で返す。
func (r *PostgresLeadRepo) ListRecentUpdates(ctx context.Context, limit int) ([]*model.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE is_deleted = FALSE
		 ORDER BY updated_at DESC, id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent updates: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

// countGrouped は指定カラムでGROUP BYした件数を列挙する。
func (r *PostgresLeadRepo) countGrouped(ctx context.Context, column string, add func(key string, count int)) error {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM leads WHERE is_deleted = FALSE GROUP BY %s`, column, column),
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		add(key, count)
	}

	return rows.Err()
}

// rowScanner はsql.Rowとsql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLead は1行をmodel.Leadに変換する。
func scanLead(row rowScanner) (*model.Lead, error) {
	lead := &model.Lead{}
	var sector, source, status, createdBy, assignedTo string
	var lastContacted, callSchedule, nextFollowUp sql.NullTime
	var history []byte

	err := row.Scan(
		&lead.ID, &lead.CompanyName, &sector, &lead.WebsiteURL, &lead.Email,
		&lead.MobileNumber, &lead.FullAddress, &source, &status,
		&lastContacted, &lead.LatestReplyNotes, &callSchedule, &nextFollowUp,
		&createdBy, &assignedTo, &lead.CreatedAt, &lead.UpdatedAt,
		&history, &lead.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	lead.Sector = model.Sector(sector)
	lead.Source = model.LeadSource(source)
	lead.Status = model.LeadStatus(status)
	lead.CreatedBy = model.Founder(createdBy)
	lead.AssignedTo = model.Founder(assignedTo)
	lead.LastContactedDate = nullableTime(lastContacted)
	lead.CallScheduleDate = nullableTime(callSchedule)
	lead.NextFollowUpDate = nullableTime(nextFollowUp)

	if err := json.Unmarshal(history, &lead.InteractionHistory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction history: %w", err)
	}

	return lead, nil
}

// collectLeads は全行をスキャンして返す。
func collectLeads(rows *sql.Rows) ([]*model.Lead, error) {
	leads := []*model.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}

// nullableTime はsql.NullTimeを*time.Timeに変換する。
func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// compile-time interface check
var _ LeadRepository = (*PostgresLeadRepo)(nil)
