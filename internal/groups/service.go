package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

type groupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	List(ctx context.Context, filter ListFilter) ([]models.Group, error)
	CountByCaptain(ctx context.Context, userID uuid.UUID) (int64, error)
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, group *models.Group) error
}

// Service exposes group operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]models.Group, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Group, error)
	Create(ctx context.Context, actor pkgAuth.Actor, input CreateGroupInput) (*models.Group, error)
	Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateGroupInput) (*models.Group, error)
}

type service struct {
	repo groupRepository
}

// NewService builds a group service backed by repo.
func NewService(repo groupRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Group, error) {
	for _, groupType := range filter.GroupTypes {
		if !groupType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid group type")
		}
	}
	groups, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list groups")
	}
	return groups, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}
	return group, nil
}

func (s *service) Create(ctx context.Context, actor pkgAuth.Actor, input CreateGroupInput) (*models.Group, error) {
	if actor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !input.GroupType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid group type")
	}
	if input.GroupType == enums.GroupTypeDaHub && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can create hubs")
	}
	if !actor.IsAdmin {
		owned, err := s.repo.CountByCaptain(ctx, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count captained groups")
		}
		if owned > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you already captain a group")
		}
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := s.ensureNameFree(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	group := input.toModel(actor.UserID)
	if err := s.repo.Create(ctx, group); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, nameTaken()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create group")
	}
	return group, nil
}

func (s *service) Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateGroupInput) (*models.Group, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && group.CaptainID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the group captain can update this group")
	}

	if input.GroupType != nil && *input.GroupType != group.GroupType {
		if !input.GroupType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid group type")
		}
		touchesHub := group.GroupType == enums.GroupTypeDaHub || *input.GroupType == enums.GroupTypeDaHub
		if touchesHub && !actor.IsAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can change hub groups")
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
		if !strings.EqualFold(name, group.Name) {
			if err := s.ensureNameFree(ctx, name, group.ID); err != nil {
				return nil, err
			}
		}
	}

	input.apply(group)
	if err := s.repo.Update(ctx, group); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, nameTaken()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update group")
	}
	return group, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string, exclude uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check group name")
	}
	if taken {
		return nameTaken()
	}
	return nil
}

func nameTaken() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "a group with this name already exists")
}
