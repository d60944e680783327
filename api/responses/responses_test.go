package responses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/onrack-backend/pkg/errors"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
	"github.com/angelmondragon/onrack-backend/pkg/types"
)

func TestWriteSuccessWarningIncludesWarningField(t *testing.T) {
	rec := httptest.NewRecorder()
	warning := &pkgerrors.CacheWarning{Op: "decrement", Key: "OnRackProduct:abc", Err: errors.New("timeout")}

	WriteSuccessWarning(rec, http.StatusOK, map[string]int{"removed": 2}, warning)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Warning == "" {
		t.Fatal("expected warning in envelope")
	}
}

func TestWriteSuccessWarningNilWarningOmitsField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessWarning(rec, http.StatusCreated, map[string]string{"ok": "yes"}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["warning"]; ok {
		t.Fatal("warning field must be omitted when nil")
	}
}

func TestWriteErrorMapsCodesToStatuses(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cases := []struct {
		err    error
		status int
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "bad input"), http.StatusBadRequest},
		{pkgerrors.New(pkgerrors.CodeNotFound, "user not found"), http.StatusNotFound},
		{pkgerrors.New(pkgerrors.CodeDependency, "cache unavailable"), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), logg, rec, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("error %v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
	}
}

func TestWriteErrorUsesTypedMessageForNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "user not found" {
		t.Fatalf("expected typed message, got %q", envelope.Error.Message)
	}
}
