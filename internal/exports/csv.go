package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// Header names the CSV columns, one row per line item.
var Header = []string{
	"shipment_route",
	"shipment_label",
	"offer_id",
	"sending_group",
	"pallet_id",
	"pallet_type",
	"payment_status",
	"line_item_id",
	"line_item_status",
	"category",
	"description",
	"container_type",
	"container_count",
	"item_count",
	"container_weight_kg",
	"container_length_cm",
	"container_width_cm",
	"container_height_cm",
	"dangerous_goods",
	"proposed_receiving_group",
	"accepted_receiving_group",
	"sending_hub_delivery_date",
}

// Label renders a shipment label such as "UkToGr-2024-05".
func Label(shipment *models.Shipment) string {
	return fmt.Sprintf("%s-%04d-%02d", shipment.ShippingRoute, shipment.LabelYear, shipment.LabelMonth)
}

// BuildRows flattens offers, their pallets and line items into CSV rows.
// groupNames maps group ids to display names; unknown ids render blank.
func BuildRows(shipment *models.Shipment, offers []models.Offer, groupNames map[uuid.UUID]string) [][]string {
	rows := [][]string{append([]string(nil), Header...)}
	label := Label(shipment)
	for _, offer := range offers {
		for _, pallet := range offer.Pallets {
			for _, item := range pallet.LineItems {
				rows = append(rows, []string{
					shipment.ShippingRoute.String(),
					label,
					offer.ID.String(),
					groupNames[offer.SendingGroupID],
					pallet.ID.String(),
					pallet.PalletType.String(),
					pallet.PaymentStatus.String(),
					item.ID.String(),
					item.Status.String(),
					item.Category.String(),
					optionalString(item.Description),
					item.ContainerType.String(),
					optionalInt(item.ContainerCount),
					optionalInt(item.ItemCount),
					gramsToKilograms(item.ContainerWeightGrams),
					optionalInt(item.ContainerLengthCm),
					optionalInt(item.ContainerWidthCm),
					optionalInt(item.ContainerHeightCm),
					strings.Join(item.DangerousGoods, ";"),
					groupName(groupNames, item.ProposedReceivingGroupID),
					groupName(groupNames, item.AcceptedReceivingGroupID),
					optionalDate(item.SendingHubDeliveryDate),
				})
			}
		}
	}
	return rows
}

// EncodeCSV writes rows in RFC 4180 form.
func EncodeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func gramsToKilograms(grams *int) string {
	if grams == nil {
		return ""
	}
	return decimal.NewFromInt(int64(*grams)).Shift(-3).StringFixed(3)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format("2006-01-02")
}

func groupName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
