package validators

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

// ParseUUID converts a path parameter or GraphQL ID into a UUID.
func ParseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]string{field: "must be a valid uuid"})
	}
	return id, nil
}

// ParseOptionalUUID is ParseUUID for nullable arguments.
func ParseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := ParseUUID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
