package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/shipments"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/sheets"
)

var exportedOfferStatuses = []enums.OfferStatus{
	enums.OfferStatusProposed,
	enums.OfferStatusAccepted,
}

// DownloadPath is where the REST API serves an export's CSV.
func DownloadPath(id uuid.UUID) string {
	return "/shipment-exports/" + id.String()
}

// Service exposes shipment exports. Every operation is admin only.
type Service interface {
	Export(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) (*models.ShipmentExport, error)
	Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.ShipmentExport, error)
	List(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) ([]models.ShipmentExport, error)
}

type database interface {
	DB() *gorm.DB
}

type service struct {
	db     database
	sheets sheets.Writer
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the export service. writer may be nil when Google
// Sheets publishing is disabled.
func NewService(db database, writer sheets.Writer, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	return &service{
		db:     db,
		sheets: writer,
		logg:   logg,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Export(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) (*models.ShipmentExport, error) {
	if !actor.IsAdmin {
		return nil, forbidden()
	}
	conn := s.db.DB()

	shipment, err := shipments.NewRepository(conn).FindByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipment")
	}
	offerRows, err := offers.NewRepository(conn).ListForExport(ctx, shipmentID, exportedOfferStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offers")
	}
	names, err := s.groupNames(ctx, conn, offerRows)
	if err != nil {
		return nil, err
	}

	rows := BuildRows(shipment, offerRows, names)
	body, err := EncodeCSV(rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode csv")
	}

	export := &models.ShipmentExport{
		ShipmentID:    shipmentID,
		UserAccountID: actor.UserID,
		ContentsCSV:   body,
	}
	if s.sheets != nil {
		title := fmt.Sprintf("%s export %s", Label(shipment), s.now().Format(time.RFC3339))
		url, err := s.sheets.CreateSheet(ctx, title, rows)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish google sheet")
		}
		export.GoogleSheetURL = &url
	}

	if err := NewRepository(conn).Create(ctx, export); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store export")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"shipment_id": shipmentID.String(),
			"export_id":   export.ID.String(),
			"rows":        len(rows) - 1,
		})
		s.logg.Info(logCtx, "shipment exported")
	}
	return export, nil
}

func (s *service) Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.ShipmentExport, error) {
	if !actor.IsAdmin {
		return nil, forbidden()
	}
	export, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "export not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load export")
	}
	return export, nil
}

func (s *service) List(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) ([]models.ShipmentExport, error) {
	if !actor.IsAdmin {
		return nil, forbidden()
	}
	exports, err := NewRepository(s.db.DB()).ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list exports")
	}
	return exports, nil
}

func (s *service) groupNames(ctx context.Context, conn *gorm.DB, offerRows []models.Offer) (map[uuid.UUID]string, error) {
	var ids []uuid.UUID
	for _, offer := range offerRows {
		ids = append(ids, offer.SendingGroupID)
		for _, pallet := range offer.Pallets {
			for _, item := range pallet.LineItems {
				if item.ProposedReceivingGroupID != nil {
					ids = append(ids, *item.ProposedReceivingGroupID)
				}
				if item.AcceptedReceivingGroupID != nil {
					ids = append(ids, *item.AcceptedReceivingGroupID)
				}
			}
		}
	}
	found, err := groups.NewRepository(conn).FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group names")
	}
	names := make(map[uuid.UUID]string, len(found))
	for _, g := range found {
		names[g.ID] = g.Name
	}
	return names, nil
}

func forbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can export shipments")
}
