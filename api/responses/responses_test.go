package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusAccepted, map[string]string{"id": "exp-1"})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var env types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.(map[string]any)["id"] != "exp-1" {
		t.Fatalf("unexpected data %v", env.Data)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        pkgerrors.Code
		message     string
		wantDetails bool
	}{
		{
			name:        "validation keeps message and details",
			err:         pkgerrors.New(pkgerrors.CodeValidation, "hubs are required").WithDetails(map[string]string{"field": "sendingHubId"}),
			status:      http.StatusBadRequest,
			code:        pkgerrors.CodeValidation,
			message:     "hubs are required",
			wantDetails: true,
		},
		{
			name:    "wrapped forbidden drops details",
			err:     fmt.Errorf("update offer: %w", pkgerrors.New(pkgerrors.CodeForbidden, "not the group captain").WithDetails("x")),
			status:  http.StatusForbidden,
			code:    pkgerrors.CodeForbidden,
			message: "not the group captain",
		},
		{
			name:    "untyped errors are internal",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    pkgerrors.CodeInternal,
			message: "internal server error",
		},
		{
			name:    "nil error is internal",
			status:  http.StatusInternalServerError,
			code:    pkgerrors.CodeInternal,
			message: "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var env types.ErrorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != string(tc.code) || env.Error.Message != tc.message {
				t.Fatalf("unexpected error body %+v", env.Error)
			}
			if (env.Error.Details != nil) != tc.wantDetails {
				t.Fatalf("details presence mismatch: %v", env.Error.Details)
			}
		})
	}
}
