package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/leadman/internal/lead"
	"github.com/hitoshi/leadman/internal/middleware"
	"github.com/hitoshi/leadman/internal/model"
)

// LeadServiceInterface はリードハンドラーが必要とするサービスインターフェース。
type LeadServiceInterface interface {
	Create(ctx context.Context, draft lead.Draft, requester model.Founder) (*model.Lead, error)
	Get(ctx context.Context, id string) (*model.Lead, error)
	List(ctx context.Context, filter lead.Filter) ([]*model.Lead, error)
	Update(ctx context.Context, id string, patch lead.Patch) (*model.Lead, error)
	AppendInteraction(ctx context.Context, id, action, notes string) (*model.Lead, error)
	SoftDelete(ctx context.Context, id string) (*model.Lead, error)
}

// LeadMetricsRecorder はリード操作の記録に必要なインターフェース。
type LeadMetricsRecorder interface {
	RecordLeadCreated()
	RecordLeadMutation(operation string)
}

// LeadHandler はリードCRUDのHTTPハンドラー。
type LeadHandler struct {
	service LeadServiceInterface
	metrics LeadMetricsRecorder
}

// NewLeadHandler はLeadHandlerを生成する。
// metricsはnilでもよい（テスト用）。
func NewLeadHandler(service LeadServiceInterface, metrics LeadMetricsRecorder) *LeadHandler {
	return &LeadHandler{
		service: service,
		metrics: metrics,
	}
}

// leadResponse はリード1件のレスポンス表現。
type leadResponse struct {
	ID                 string              `json:"id"`
	CompanyName        string              `json:"company_name"`
	Sector             string              `json:"sector"`
	WebsiteURL         string              `json:"website_url,omitempty"`
	Email              string              `json:"email,omitempty"`
	MobileNumber       string              `json:"mobile_number,omitempty"`
	FullAddress        string              `json:"full_address,omitempty"`
	Source             string              `json:"source"`
	Status             string              `json:"status"`
	LastContactedDate  *time.Time          `json:"last_contacted_date,omitempty"`
	LatestReplyNotes   string              `json:"latest_reply_notes,omitempty"`
	CallScheduleDate   *time.Time          `json:"call_schedule_date,omitempty"`
	NextFollowUpDate   *time.Time          `json:"next_follow_up_date,omitempty"`
	CreatedBy          string              `json:"created_by"`
	AssignedTo         string              `json:"assigned_to"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	InteractionHistory []model.Interaction `json:"interaction_history"`
	IsDeleted          bool                `json:"is_deleted"`
}

// toLeadResponse はドメインモデルをレスポンス表現に変換する。
func toLeadResponse(l *model.Lead) leadResponse {
	history := l.InteractionHistory
	if history == nil {
		history = []model.Interaction{}
	}
	return leadResponse{
		ID:                 l.ID,
		CompanyName:        l.CompanyName,
		Sector:             string(l.Sector),
		WebsiteURL:         l.WebsiteURL,
		Email:              l.Email,
		MobileNumber:       l.MobileNumber,
		FullAddress:        l.FullAddress,
		Source:             string(l.Source),
		Status:             string(l.Status),
		LastContactedDate:  l.LastContactedDate,
		LatestReplyNotes:   l.LatestReplyNotes,
		CallScheduleDate:   l.CallScheduleDate,
		NextFollowUpDate:   l.NextFollowUpDate,
		CreatedBy:          string(l.CreatedBy),
		AssignedTo:         string(l.AssignedTo),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		InteractionHistory: history,
		IsDeleted:          l.IsDeleted,
	}
}

// interactionRequest は対応記録追加リクエストのボディ。
type interactionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// Create は新規リードを作成する。
// POST /api/leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var draft lead.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeBodyParseError(w)
		return
	}

	created, err := h.service.Create(r.Context(), draft, identity.Founder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLeadCreated()
	}

	writeJSON(w, http.StatusCreated, toLeadResponse(created))
}

// List は削除されていないリードの一覧を登録順で返す。
// GET /api/leads?status=&sector=&assigned_to=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := lead.Filter{
		Status:     r.URL.Query().Get("status"),
		Sector:     r.URL.Query().Get("sector"),
		AssignedTo: r.URL.Query().Get("assigned_to"),
	}

	leads, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]leadResponse, 0, len(leads))
	for _, l := range leads {
		responses = append(responses, toLeadResponse(l))
	}

	writeJSON(w, http.StatusOK, responses)
}

// Get は指定IDのリードを返す。削除済みレコードも返す。
// GET /api/leads/{id}
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLeadResponse(found))
}

// Update はリードを部分更新する。リクエストに含まれないフィールドは変更しない。
// PATCH /api/leads/{id}
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch lead.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBodyParseError(w)
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLeadMutation("update")
	}

	writeJSON(w, http.StatusOK, toLeadResponse(updated))
}

// AppendInteraction は対応記録を履歴末尾に追記する。
// POST /api/leads/{id}/interactions
func (h *LeadHandler) AppendInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	updated, err := h.service.AppendInteraction(r.Context(), id, req.Action, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLeadMutation("interaction")
	}

	writeJSON(w, http.StatusOK, toLeadResponse(updated))
}

// SoftDelete はリードを論理削除する。冪等であり、削除済みに対しても成功を返す。
// DELETE /api/leads/{id}
func (h *LeadHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.SoftDelete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLeadMutation("soft_delete")
	}

	writeJSON(w, http.StatusOK, toLeadResponse(deleted))
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeBodyParseError はリクエストボディの解析失敗レスポンスを書き込む。
func writeBodyParseError(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// writeServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// ValidationErrorは422、APIErrorはコードに応じたステータス、それ以外は500を返す。
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		middleware.WriteValidationErrorResponse(w, verr)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, statusForAPIError(apiErr), apiErr)
		return
	}

	slog.Error("unexpected service error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// statusForAPIError はAPIエラーコードをHTTPステータスコードに対応づける。
func statusForAPIError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeLeadNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest, model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
