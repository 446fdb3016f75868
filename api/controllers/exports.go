package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/api/responses"
	"github.com/distributeaid/shipment-tracker/api/validators"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

// ShipmentExportDownload serves a stored export as a CSV attachment.
func ShipmentExportDownload(svc exports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		export, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shipment-export-%s.csv"`, export.ID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(export.ContentsCSV))
	}
}
