package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/leadman/internal/model"
)

func TestWriteErrorResponse_UnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusNotFound, model.NewLeadNotFoundError("lead-1"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeLeadNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeLeadNotFound)
	}
	if body.Category != "lead" {
		t.Errorf("category = %q, want %q", body.Category, "lead")
	}
	if body.Message == "" || body.Action == "" {
		t.Error("expected non-empty message and action")
	}
}

func TestWriteValidationErrorResponse_ListsAllFields(t *testing.T) {
	w := httptest.NewRecorder()

	WriteValidationErrorResponse(w, &model.ValidationError{Fields: []model.FieldError{
		{Field: "company_name", Reason: "必須項目です"},
		{Field: "sector", Reason: "定義されていない値です: Fintech"},
	}})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var body ValidationErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidationFailed)
	}
	if len(body.Fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(body.Fields))
	}
	if body.Fields[0].Field != "company_name" || body.Fields[1].Field != "sector" {
		t.Errorf("fields = %+v, want company_name and sector", body.Fields)
	}
}

func TestWriteInternalServerError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
}
