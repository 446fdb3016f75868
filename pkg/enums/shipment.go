package enums

import "fmt"

// ShipmentStatus tracks a shipment from planning to archive.
type ShipmentStatus string

const (
	ShipmentStatusDraft      ShipmentStatus = "Draft"
	ShipmentStatusAnnounced  ShipmentStatus = "Announced"
	ShipmentStatusOpen       ShipmentStatus = "Open"
	ShipmentStatusStaging    ShipmentStatus = "Staging"
	ShipmentStatusInProgress ShipmentStatus = "InProgress"
	ShipmentStatusComplete   ShipmentStatus = "Complete"
	ShipmentStatusAbandoned  ShipmentStatus = "Abandoned"
	ShipmentStatusArchived   ShipmentStatus = "Archived"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusDraft,
	ShipmentStatusAnnounced,
	ShipmentStatusOpen,
	ShipmentStatusStaging,
	ShipmentStatusInProgress,
	ShipmentStatusComplete,
	ShipmentStatusAbandoned,
	ShipmentStatusArchived,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}

// ShippingRoute names the origin and destination country pair.
type ShippingRoute string

const (
	ShippingRouteUkToFr ShippingRoute = "UkToFr"
	ShippingRouteUkToGr ShippingRoute = "UkToGr"
	ShippingRouteUkToBa ShippingRoute = "UkToBa"
	ShippingRouteUkToRs ShippingRoute = "UkToRs"
	ShippingRouteDeToFr ShippingRoute = "DeToFr"
)

var validShippingRoutes = []ShippingRoute{
	ShippingRouteUkToFr,
	ShippingRouteUkToGr,
	ShippingRouteUkToBa,
	ShippingRouteUkToRs,
	ShippingRouteDeToFr,
}

// String implements fmt.Stringer.
func (r ShippingRoute) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ShippingRoute.
func (r ShippingRoute) IsValid() bool {
	for _, candidate := range validShippingRoutes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseShippingRoute converts raw input into a ShippingRoute.
func ParseShippingRoute(value string) (ShippingRoute, error) {
	for _, candidate := range validShippingRoutes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping route %q", value)
}

// publicShipmentStatuses are visible to users who are not administrators.
var publicShipmentStatuses = []ShipmentStatus{
	ShipmentStatusAnnounced,
	ShipmentStatusOpen,
	ShipmentStatusStaging,
	ShipmentStatusInProgress,
}

// PublicShipmentStatuses returns a copy of the statuses non-admins may see.
func PublicShipmentStatuses() []ShipmentStatus {
	out := make([]ShipmentStatus, len(publicShipmentStatuses))
	copy(out, publicShipmentStatuses)
	return out
}

// IsPublic reports whether non-admins may read a shipment in this status.
func (s ShipmentStatus) IsPublic() bool {
	for _, candidate := range publicShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
