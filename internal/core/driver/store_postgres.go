// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package driver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/database/schema"
	"github.com/fleetdesk/fleetdesk/internal/platform/dberr"
	"github.com/fleetdesk/fleetdesk/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Postgres-backed driver Repository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func driverColumns() string {
	t := schema.Driver
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.OrganizationID, t.FirstName, t.LastName, t.Phone, t.Email,
		t.LicenseNumber, t.LicenseExpiryDate, t.MedicalExamExpiryDate,
		t.DriverCardExpiryDate, t.CreatedAt, t.UpdatedAt,
	)
}

func scanDriver(row pgx.Row) (*Driver, error) {
	driver := &Driver{}
	err := row.Scan(
		&driver.ID, &driver.OrganizationID, &driver.FirstName, &driver.LastName,
		&driver.Phone, &driver.Email, &driver.LicenseNumber,
		&driver.LicenseExpiryDate, &driver.MedicalExamExpiryDate, &driver.DriverCardExpiryDate,
		&driver.CreatedAt, &driver.UpdatedAt,
	)
	return driver, err
}

func (repository *PostgresRepository) Create(context context.Context, driver *Driver) error {
	t := schema.Driver
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table,
		t.ID, t.OrganizationID, t.FirstName, t.LastName, t.Phone, t.Email,
		t.LicenseNumber, t.LicenseExpiryDate, t.MedicalExamExpiryDate, t.DriverCardExpiryDate,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		driver.ID, driver.OrganizationID, driver.FirstName, driver.LastName,
		driver.Phone, driver.Email, driver.LicenseNumber,
		driver.LicenseExpiryDate, driver.MedicalExamExpiryDate, driver.DriverCardExpiryDate,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)

	return dberr.Wrap(err, "create_driver")
}

func (repository *PostgresRepository) FindByID(context context.Context, organizationID, id string) (*Driver, error) {
	t := schema.Driver
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		driverColumns(), t.Table, t.ID, t.OrganizationID,
	)

	driver, err := scanDriver(repository.db.QueryRow(context, query, id, organizationID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_driver_by_id")
	}
	return driver, nil
}

func (repository *PostgresRepository) List(context context.Context, organizationID string, params pagination.Params) ([]*Driver, int, error) {
	t := schema.Driver

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t.Table, t.OrganizationID)
	total := 0
	if err := repository.db.QueryRow(context, countQuery, organizationID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_drivers")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
		ORDER BY %s, %s
		LIMIT $2 OFFSET $3
	`,
		driverColumns(), t.Table, t.OrganizationID, t.LastName, t.FirstName,
	)

	rows, err := repository.db.Query(context, listQuery, organizationID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_drivers")
	}
	defer rows.Close()

	drivers := []*Driver{}
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_driver")
		}
		drivers = append(drivers, driver)
	}
	return drivers, total, dberr.Wrap(rows.Err(), "list_drivers_rows")
}

func (repository *PostgresRepository) ListAll(context context.Context, organizationID string) ([]*Driver, error) {
	t := schema.Driver
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		driverColumns(), t.Table, t.OrganizationID, t.LastName, t.FirstName,
	)

	rows, err := repository.db.Query(context, query, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_all_drivers")
	}
	defer rows.Close()

	drivers := []*Driver{}
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_driver")
		}
		drivers = append(drivers, driver)
	}
	return drivers, dberr.Wrap(rows.Err(), "list_all_drivers_rows")
}

func (repository *PostgresRepository) Update(context context.Context, driver *Driver) error {
	t := schema.Driver
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $9 AND %s = $10
		RETURNING %s
	`,
		t.Table,
		t.FirstName, t.LastName, t.Phone, t.Email, t.LicenseNumber,
		t.LicenseExpiryDate, t.MedicalExamExpiryDate, t.DriverCardExpiryDate,
		t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		driver.FirstName, driver.LastName, driver.Phone, driver.Email, driver.LicenseNumber,
		driver.LicenseExpiryDate, driver.MedicalExamExpiryDate, driver.DriverCardExpiryDate,
		driver.ID, driver.OrganizationID,
	).Scan(&driver.UpdatedAt)

	return dberr.Wrap(err, "update_driver")
}

func (repository *PostgresRepository) Delete(context context.Context, organizationID, id string) error {
	t := schema.Driver
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, id, organizationID)
	return dberr.Wrap(err, "delete_driver")
}

// # Notes

func (repository *PostgresRepository) CreateNote(context context.Context, note *Note) error {
	t := schema.DriverNote
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s
	`,
		t.Table,
		t.ID, t.DriverID, t.OrganizationID, t.NoteType, t.Content, t.CreatedAt,
		t.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		note.ID, note.DriverID, note.OrganizationID, note.NoteType, note.Content,
	).Scan(&note.CreatedAt)

	return dberr.Wrap(err, "create_driver_note")
}

func (repository *PostgresRepository) ListNotes(context context.Context, organizationID, driverID string) ([]*Note, error) {
	t := schema.DriverNote
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC
	`,
		t.ID, t.DriverID, t.OrganizationID, t.NoteType, t.Content, t.CreatedAt,
		t.Table, t.DriverID, t.OrganizationID, t.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, driverID, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_driver_notes")
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		note := &Note{}
		if err := rows.Scan(&note.ID, &note.DriverID, &note.OrganizationID,
			&note.NoteType, &note.Content, &note.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_driver_note")
		}
		notes = append(notes, note)
	}
	return notes, dberr.Wrap(rows.Err(), "list_driver_notes_rows")
}

func (repository *PostgresRepository) DeleteNote(context context.Context, organizationID, driverID, noteID string) error {
	t := schema.DriverNote
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3`,
		t.Table, t.ID, t.DriverID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, noteID, driverID, organizationID)
	return dberr.Wrap(err, "delete_driver_note")
}
