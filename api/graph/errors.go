package graph

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

// resolverError is what clients see in the errors array. graphql-go copies
// Extensions into the response, which is where the Apollo style code lives.
type resolverError struct {
	message string
	code    string
	details any
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if e.details != nil {
		ext["details"] = e.details
	}
	return ext
}

// fail converts a service error into a resolverError. Server side failures
// are logged and reported with their generic public message only.
func (r *Resolver) fail(ctx context.Context, err error) error {
	p := pkgerrors.Present(err)
	if r.logg != nil && p.Meta.HTTPStatus >= http.StatusInternalServerError {
		r.logg.Error(r.logg.WithFields(ctx, pkgerrors.LogFields(err)), "graphql.error", err)
	}
	return &resolverError{message: p.Message, code: p.Meta.GraphQLCode, details: p.Details}
}

// notFound reports whether err means the referenced row is gone. Nullable
// references resolve to null in that case; anything else is a failure.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || pkgerrors.IsCode(err, pkgerrors.CodeNotFound)
}
