package organization

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/database/schema"
	"github.com/fleetdesk/fleetdesk/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Organization, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Organization.ID, schema.Organization.Name, schema.Organization.Slug,
		schema.Organization.CreatedAt, schema.Organization.UpdatedAt,
		schema.Organization.Table, schema.Organization.ID,
	)

	org := &Organization{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt,
	)

	return org, dberr.Wrap(err, "get_organization")
}

func (repository *PostgresRepository) Update(context context.Context, org *Organization) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Organization.Table,
		schema.Organization.Name, schema.Organization.Slug, schema.Organization.UpdatedAt,
		schema.Organization.ID, schema.Organization.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, org.ID, org.Name, org.Slug).Scan(&org.UpdatedAt)
	return dberr.Wrap(err, "update_organization")
}
