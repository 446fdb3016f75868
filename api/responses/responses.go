package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// WriteSuccess renders data inside the success envelope with a 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	encode(context.Background(), nil, w, status, types.SuccessEnvelope{Data: data})
}

// WriteError renders err as the JSON error envelope. Client errors are
// logged at warn, server errors at error with the full chain attached.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	p := pkgerrors.Present(err)

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.LogFields(err))
		if p.Meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	body := types.ErrorEnvelope{Error: types.APIError{
		Code:    string(p.Code),
		Message: p.Message,
		Details: p.Details,
	}}
	encode(ctx, logg, w, p.Meta.HTTPStatus, body)
}

func encode(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logg != nil {
		logg.Error(ctx, "response.encode_failed", err)
	}
}
