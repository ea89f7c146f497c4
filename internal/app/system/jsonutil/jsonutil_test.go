package jsonutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]string{"granularity": "hour"},
			wantStatus: http.StatusOK,
			wantBody:   `{"granularity":"hour"}`,
		},
		{
			name:       "201 Created with data",
			status:     http.StatusCreated,
			data:       map[string]string{"id": "pr_123"},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":"pr_123"}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			body := strings.TrimSpace(rec.Body.String())
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"status": "healthy"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal error: %v", err)
	}
	if got["status"] != "healthy" {
		t.Errorf("body status = %q, want healthy", got["status"])
	}
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]any{"id": "pst_42", "name": "last incident"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal error: %v", err)
	}
	if got["id"] != "pst_42" {
		t.Errorf("body id = %v, want pst_42", got["id"])
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body should be empty, got %q", rec.Body.String())
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter, message string)
		message    string
		wantStatus int
	}{
		{"bad request", BadRequest, "start_time is not a valid instant", http.StatusBadRequest},
		{"not found", NotFound, "provider not found", http.StatusNotFound},
		{"conflict", Conflict, "a mapping for this alias already exists", http.StatusConflict},
		{"bad gateway", BadGateway, "routing proxy is unreachable", http.StatusBadGateway},
		{"internal error", InternalError, "something went wrong", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, tt.message)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json unmarshal error: %v", err)
			}
			if got["error"] != tt.message {
				t.Errorf("error = %q, want %q", got["error"], tt.message)
			}
		})
	}
}

func TestError_ArbitraryStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusTooManyRequests, "slow down")

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal error: %v", err)
	}
	if got["error"] != "slow down" {
		t.Errorf("error = %q, want 'slow down'", got["error"])
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid JSON",
			body:    `{"name":"weekend spike","start_time":"2026-08-29T00:00:00Z"}`,
			wantErr: false,
		},
		{
			name:    "invalid JSON",
			body:    `{invalid}`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got map[string]any
			err := Decode(req, &got)

			if (err != nil) != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_StructBinding(t *testing.T) {
	type input struct {
		Name      string `json:"name"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	body := `{"name":"deploy window","start_time":"2026-08-30T09:00:00Z","end_time":"2026-08-30T12:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var in input
	if err := Decode(req, &in); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if in.Name != "deploy window" {
		t.Errorf("Name = %q, want 'deploy window'", in.Name)
	}
	if in.StartTime != "2026-08-30T09:00:00Z" {
		t.Errorf("StartTime = %q", in.StartTime)
	}
	if in.EndTime != "2026-08-30T12:00:00Z" {
		t.Errorf("EndTime = %q", in.EndTime)
	}
}

func TestDecode_BodyConsumed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"value"}`))

	var first map[string]string
	if err := Decode(req, &first); err != nil {
		t.Fatalf("First Decode() error = %v", err)
	}

	// Body is consumed, so a second decode sees EOF.
	var second map[string]string
	if err := Decode(req, &second); err != io.EOF {
		t.Errorf("Second Decode() should fail with EOF, got %v", err)
	}
}
