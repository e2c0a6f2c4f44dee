// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package vehicle

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

// NewRepository creates a new Postgres-backed vehicle Repository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func vehicleColumns() string {
	t := schema.Vehicle
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.OrganizationID, t.VehicleType, t.RegistrationNumber,
		t.InspectionExpiryDate, t.RegistrationExpiryDate, t.FireExtinguisherExpiryDate,
		t.CreatedAt, t.UpdatedAt,
	)
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	vehicle := &Vehicle{}
	err := row.Scan(
		&vehicle.ID, &vehicle.OrganizationID, &vehicle.VehicleType, &vehicle.RegistrationNumber,
		&vehicle.InspectionExpiryDate, &vehicle.RegistrationExpiryDate, &vehicle.FireExtinguisherExpiryDate,
		&vehicle.CreatedAt, &vehicle.UpdatedAt,
	)
	return vehicle, err
}

func (repository *PostgresRepository) Create(context context.Context, vehicle *Vehicle) error {
	t := schema.Vehicle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table,
		t.ID, t.OrganizationID, t.VehicleType, t.RegistrationNumber,
		t.InspectionExpiryDate, t.RegistrationExpiryDate, t.FireExtinguisherExpiryDate,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		vehicle.ID, vehicle.OrganizationID, vehicle.VehicleType, vehicle.RegistrationNumber,
		vehicle.InspectionExpiryDate, vehicle.RegistrationExpiryDate, vehicle.FireExtinguisherExpiryDate,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)

	return dberr.Wrap(err, "create_vehicle")
}

func (repository *PostgresRepository) FindByID(context context.Context, organizationID, id string) (*Vehicle, error) {
	t := schema.Vehicle
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		vehicleColumns(), t.Table, t.ID, t.OrganizationID,
	)

	vehicle, err := scanVehicle(repository.db.QueryRow(context, query, id, organizationID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_vehicle_by_id")
	}
	return vehicle, nil
}

func (repository *PostgresRepository) List(context context.Context, organizationID string, filter ListFilter, params pagination.Params) ([]*Vehicle, int, error) {
	t := schema.Vehicle

	where := fmt.Sprintf("%s = $1", t.OrganizationID)
	arguments := []interface{}{organizationID}
	if filter.VehicleType != nil {
		arguments = append(arguments, *filter.VehicleType)
		where += fmt.Sprintf(" AND %s = $%d", t.VehicleType, len(arguments))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.Table, where)
	total := 0
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_vehicles")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`,
		vehicleColumns(), t.Table, where, t.RegistrationNumber,
		len(arguments)+1, len(arguments)+2,
	)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_vehicles")
	}
	defer rows.Close()

	vehicles := []*Vehicle{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_vehicle")
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, total, dberr.Wrap(rows.Err(), "list_vehicles_rows")
}

func (repository *PostgresRepository) ListAll(context context.Context, organizationID string) ([]*Vehicle, error) {
	t := schema.Vehicle
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		vehicleColumns(), t.Table, t.OrganizationID, t.RegistrationNumber,
	)

	rows, err := repository.db.Query(context, query, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_all_vehicles")
	}
	defer rows.Close()

	vehicles := []*Vehicle{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_vehicle")
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, dberr.Wrap(rows.Err(), "list_all_vehicles_rows")
}

func (repository *PostgresRepository) Update(context context.Context, vehicle *Vehicle) error {
	t := schema.Vehicle
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6 AND %s = $7
		RETURNING %s
	`,
		t.Table,
		t.VehicleType, t.RegistrationNumber,
		t.InspectionExpiryDate, t.RegistrationExpiryDate, t.FireExtinguisherExpiryDate,
		t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		vehicle.VehicleType, vehicle.RegistrationNumber,
		vehicle.InspectionExpiryDate, vehicle.RegistrationExpiryDate, vehicle.FireExtinguisherExpiryDate,
		vehicle.ID, vehicle.OrganizationID,
	).Scan(&vehicle.UpdatedAt)

	return dberr.Wrap(err, "update_vehicle")
}

func (repository *PostgresRepository) Delete(context context.Context, organizationID, id string) error {
	t := schema.Vehicle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, id, organizationID)
	return dberr.Wrap(err, "delete_vehicle")
}
