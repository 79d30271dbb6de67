package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuslist/campuslist/internal/database"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "resource not found", nil)

	if err.Code() != 404 {
		t.Errorf("Code() = %v, want 404", err.Code())
	}
	if err.Message() != "resource not found" {
		t.Errorf("Message() = %v, want 'resource not found'", err.Message())
	}

	expected := "api error 404: resource not found"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestAPIError_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewAPIError(500, "internal error", cause)

	expected := "api error 500: internal error: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Unwrap() should expose the cause to errors.Is")
	}
}

func TestWriteError_APIError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/universities/x", nil)

	WriteError(w, r, NewBadRequestError("bad id", nil), nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp struct {
		Errors []struct {
			Status string `json:"status"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(resp.Errors))
	}
	if resp.Errors[0].Status != "400" {
		t.Errorf("status field = %q, want 400", resp.Errors[0].Status)
	}
	if resp.Errors[0].Detail != "bad id" {
		t.Errorf("detail = %q, want 'bad id'", resp.Errors[0].Detail)
	}
}

func TestWriteError_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/universities/999", nil)

	WriteError(w, r, database.ErrNotFound, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestWriteError_Unknown(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, errors.New("boom"), nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"slug": "mit"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["slug"] != "mit" {
		t.Errorf("slug = %q, want mit", body["slug"])
	}
}
