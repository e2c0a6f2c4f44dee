package organization

import (
	"context"
	"log/slog"

	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetOrganization returns the caller's own organization.
func (service *Service) GetOrganization(context context.Context, organizationID string) (*Organization, error) {
	return service.repo.FindByID(context, organizationID)
}

// RenameOrganization changes the organization display name and regenerates
// its slug.
func (service *Service) RenameOrganization(context context.Context, organizationID, name string) (*Organization, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	org, err := service.repo.FindByID(context, organizationID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	org.Slug = slug.From(name)

	if err := service.repo.Update(context, org); err != nil {
		return nil, err
	}

	service.logger.Info("organization_renamed", slog.String("organization_id", org.ID))
	return org, nil
}
