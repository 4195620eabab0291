package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
	"go.uber.org/zap"
)

func TestWrite_KindStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"not found", apperr.NotFound("gone"), http.StatusNotFound, "gone"},
		{"conflict", apperr.Conflict("already decided"), http.StatusConflict, "already decided"},
		{"unauthorized", apperr.Unauthorized("no session"), http.StatusUnauthorized, "no session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			apperr.Write(rec, zap.NewNop(), "test.op", tt.err)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("parse body: %v", err)
			}
			if resp.Error != tt.msg {
				t.Errorf("message: got %q, want %q", resp.Error, tt.msg)
			}
		})
	}
}

func TestWrite_UnknownError_Generic500(t *testing.T) {
	rec := httptest.NewRecorder()
	apperr.Write(rec, zap.NewNop(), "test.op", errors.New("mongo: connection reset by peer"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	// Internal detail must not leak to the client.
	if resp.Error == "mongo: connection reset by peer" {
		t.Error("expected a generic message, got the raw error")
	}
}

func TestKindOf(t *testing.T) {
	if apperr.KindOf(apperr.Conflict("x")) != apperr.KindConflict {
		t.Error("expected KindConflict")
	}
	if apperr.KindOf(errors.New("plain")) != apperr.KindInternal {
		t.Error("expected KindInternal for unknown errors")
	}
	wrapped := fmt.Errorf("lookup: %w", apperr.NotFound("x"))
	if apperr.KindOf(wrapped) != apperr.KindNotFound {
		t.Error("expected kind to survive wrapping")
	}
}
