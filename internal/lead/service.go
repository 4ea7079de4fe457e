// Package lead はリードのライフサイクルに関するビジネスロジックを提供する。
package lead

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/leadman/internal/model"
	"github.com/hitoshi/leadman/internal/repository"
)

// Draft は新規リード作成の入力を表す。
// created_by / assigned_to はリクエスト元の創業者から決まるため、ここには含まれない。
type Draft struct {
	CompanyName       string           `json:"company_name" validate:"required"`
	Sector            model.Sector     `json:"sector" validate:"required,sector"`
	WebsiteURL        string           `json:"website_url,omitempty"`
	Email             string           `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber      string           `json:"mobile_number,omitempty"`
	FullAddress       string           `json:"full_address,omitempty"`
	Source            model.LeadSource `json:"source" validate:"required,leadsource"`
	Status            model.LeadStatus `json:"status,omitempty" validate:"omitempty,leadstatus"`
	LastContactedDate *time.Time       `json:"last_contacted_date,omitempty"`
	LatestReplyNotes  string           `json:"latest_reply_notes,omitempty"`
	CallScheduleDate  *time.Time       `json:"call_schedule_date,omitempty"`
	NextFollowUpDate  *time.Time       `json:"next_follow_up_date,omitempty"`
}

// Patch はリードの部分更新の入力を表す。nilのフィールドは変更しない。
// created_byはイミュータブルのため、この型には存在しない（リクエストに含まれても無視される）。
type Patch struct {
	CompanyName       *string           `json:"company_name"`
	Sector            *model.Sector     `json:"sector" validate:"omitempty,sector"`
	WebsiteURL        *string           `json:"website_url"`
	Email             *string           `json:"email" validate:"omitempty,email"`
	MobileNumber      *string           `json:"mobile_number"`
	FullAddress       *string           `json:"full_address"`
	Source            *model.LeadSource `json:"source" validate:"omitempty,leadsource"`
	Status            *model.LeadStatus `json:"status" validate:"omitempty,leadstatus"`
	LastContactedDate *time.Time        `json:"last_contacted_date"`
	LatestReplyNotes  *string           `json:"latest_reply_notes"`
	CallScheduleDate  *time.Time        `json:"call_schedule_date"`
	NextFollowUpDate  *time.Time        `json:"next_follow_up_date"`
	AssignedTo        *model.Founder    `json:"assigned_to" validate:"omitempty,founder"`
}

// Filter はリード一覧の絞り込み条件を表す。空文字列は条件に含めない。
// 複数指定時はAND結合の完全一致。
type Filter struct {
	Status     string
	Sector     string
	AssignedTo string
}

// Service はリードに関するビジネスロジックを提供する。
type Service struct {
	repo     repository.LeadRepository
	validate *validator.Validate
	now      func() time.Time // テストで固定クロックに差し替える
}

// NewService はServiceを生成する。
func NewService(repo repository.LeadRepository) *Service {
	return &Service{
		repo:     repo,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Create は新規リードを作成する。
// enumフィールドと必須フィールドを検証し、不正なフィールドはすべてまとめて報告する。
// 検証に失敗した場合は何も永続化しない。
// created_by = assigned_to = requester、statusは未指定ならNew、履歴は空で開始する。
func (s *Service) Create(ctx context.Context, draft Draft, requester model.Founder) (*model.Lead, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, toValidationError(err)
	}

	now := s.now()

	status := draft.Status
	if status == "" {
		status = model.StatusNew
	}

	newLead := &model.Lead{
		ID:                 uuid.New().String(),
		CompanyName:        draft.CompanyName,
		Sector:             draft.Sector,
		WebsiteURL:         draft.WebsiteURL,
		Email:              draft.Email,
		MobileNumber:       draft.MobileNumber,
		FullAddress:        draft.FullAddress,
		Source:             draft.Source,
		Status:             status,
		LastContactedDate:  draft.LastContactedDate,
		LatestReplyNotes:   draft.LatestReplyNotes,
		CallScheduleDate:   draft.CallScheduleDate,
		NextFollowUpDate:   draft.NextFollowUpDate,
		CreatedBy:          requester,
		AssignedTo:         requester,
		CreatedAt:          now,
		UpdatedAt:          now,
		InteractionHistory: []model.Interaction{},
		IsDeleted:          false,
	}

	if err := s.repo.Create(ctx, newLead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	slog.Info("lead created",
		slog.String("lead_id", newLead.ID),
		slog.String("company_name", newLead.CompanyName),
		slog.String("created_by", string(requester)),
	)

	return newLead, nil
}

// Get は指定IDのリードを取得する。削除済みレコードも詳細表示のため返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Lead, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if found == nil {
		return nil, model.NewLeadNotFoundError(id)
	}
	return found, nil
}

// List は削除されていないリードの一覧を登録順で返す。
// フィルタ値が閉じたenum集合に含まれない場合はValidationErrorを返す。
func (s *Service) List(ctx context.Context, filter Filter) ([]*model.Lead, error) {
	repoFilter, err := buildRepoFilter(filter)
	if err != nil {
		return nil, err
	}

	leads, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// Update はnilでないフィールドのみを適用する部分更新を行う。
// パッチ内のenumフィールドは再検証し、updated_atを更新する。
// 空のパッチでもupdated_atだけは更新される。
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*model.Lead, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, toValidationError(err)
	}

	updated, err := s.repo.Update(ctx, id, repository.LeadPatch{
		CompanyName:       patch.CompanyName,
		Sector:            patch.Sector,
		WebsiteURL:        patch.WebsiteURL,
		Email:             patch.Email,
		MobileNumber:      patch.MobileNumber,
		FullAddress:       patch.FullAddress,
		Source:            patch.Source,
		Status:            patch.Status,
		LastContactedDate: patch.LastContactedDate,
		LatestReplyNotes:  patch.LatestReplyNotes,
		CallScheduleDate:  patch.CallScheduleDate,
		NextFollowUpDate:  patch.NextFollowUpDate,
		AssignedTo:        patch.AssignedTo,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	if updated == nil {
		return nil, model.NewLeadNotFoundError(id)
	}

	return updated, nil
}

// AppendInteraction は対応記録を履歴末尾に追記する。
// 履歴は追記専用であり、既存エントリの編集・削除は行わない。
func (s *Service) AppendInteraction(ctx context.Context, id, action, notes string) (*model.Lead, error) {
	if action == "" {
		return nil, &model.ValidationError{Fields: []model.FieldError{
			{Field: "action", Reason: "必須項目です"},
		}}
	}

	updated, err := s.repo.AppendInteraction(ctx, id, model.Interaction{
		Timestamp: s.now(),
		Action:    action,
		Notes:     notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append interaction: %w", err)
	}
	if updated == nil {
		return nil, model.NewLeadNotFoundError(id)
	}

	return updated, nil
}

// SoftDelete はリードを論理削除する。物理削除は行わず、履歴ごと保持する。
// 既に削除済みのリードに対しても成功を返す（冪等）。
func (s *Service) SoftDelete(ctx context.Context, id string) (*model.Lead, error) {
	deleted, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to soft-delete lead: %w", err)
	}
	if deleted == nil {
		return nil, model.NewLeadNotFoundError(id)
	}

	slog.Info("lead soft-deleted", slog.String("lead_id", id))

	return deleted, nil
}

// buildRepoFilter は文字列のフィルタ値を検証してリポジトリのフィルタに変換する。
func buildRepoFilter(filter Filter) (repository.LeadFilter, error) {
	var repoFilter repository.LeadFilter
	var fields []model.FieldError

	if filter.Status != "" {
		status := model.LeadStatus(filter.Status)
		if !status.IsValid() {
			fields = append(fields, model.FieldError{
				Field:  "status",
				Reason: fmt.Sprintf("定義されていない値です: %s", filter.Status),
			})
		} else {
			repoFilter.Status = &status
		}
	}

	if filter.Sector != "" {
		sector := model.Sector(filter.Sector)
		if !sector.IsValid() {
			fields = append(fields, model.FieldError{
				Field:  "sector",
				Reason: fmt.Sprintf("定義されていない値です: %s", filter.Sector),
			})
		} else {
			repoFilter.Sector = &sector
		}
	}

	if filter.AssignedTo != "" {
		founder, ok := model.ParseFounder(filter.AssignedTo)
		if !ok {
			fields = append(fields, model.FieldError{
				Field:  "assigned_to",
				Reason: fmt.Sprintf("定義されていない値です: %s", filter.AssignedTo),
			})
		} else {
			repoFilter.AssignedTo = &founder
		}
	}

	if len(fields) > 0 {
		return repository.LeadFilter{}, &model.ValidationError{Fields: fields}
	}

	return repoFilter, nil
}
