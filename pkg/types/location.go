package types

import "database/sql/driver"

// Location is a group's primary address, persisted as JSONB.
type Location struct {
	CountryCode      string  `json:"countryCode,omitempty" validate:"required,iso3166_1_alpha2"`
	TownCity         string  `json:"townCity" validate:"required,max=100"`
	OpenLocationCode *string `json:"openLocationCode,omitempty" validate:"omitempty,max=20"`
}

func (l Location) Value() (driver.Value, error) {
	return marshalJSONB(l)
}

func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}
	var out Location
	if err := scanJSONB("location", value, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
