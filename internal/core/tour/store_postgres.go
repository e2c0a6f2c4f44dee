// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package tour

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// NewRepository creates a new Postgres-backed tour Repository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func tourColumns() string {
	return strings.Join(schema.Tour.Columns(), ", ")
}

func scanTour(row pgx.Row) (*Tour, error) {
	tour := &Tour{}
	err := row.Scan(
		&tour.ID, &tour.OrganizationID, &tour.TourType, &tour.LoadingLocation, &tour.LoadingDate,
		&tour.ExportCustoms, &tour.ImportCustoms, &tour.Price, &tour.Company, &tour.IsADR,
		&tour.DriverID, &tour.TruckID, &tour.TrailerID,
		&tour.IsCompleted, &tour.CompletedAt, &tour.IsInvoiced, &tour.InvoiceNumber,
		&tour.ParentTourID, &tour.CreatedAt, &tour.UpdatedAt,
	)
	return tour, err
}

func (repository *PostgresRepository) Create(context context.Context, tour *Tour) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_tour_begin_tx")
	}
	defer func() { _ = transaction.Rollback(context) }()

	t := schema.Tour
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table,
		t.ID, t.OrganizationID, t.TourType, t.LoadingLocation, t.LoadingDate,
		t.ExportCustoms, t.ImportCustoms, t.Price, t.Company, t.IsADR,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	if err := transaction.QueryRow(context, query,
		tour.ID, tour.OrganizationID, tour.TourType, tour.LoadingLocation, tour.LoadingDate,
		tour.ExportCustoms, tour.ImportCustoms, tour.Price, tour.Company, tour.IsADR,
	).Scan(&tour.CreatedAt, &tour.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_tour")
	}

	if err := insertStops(context, transaction, tour.Stops); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "create_tour_commit")
}

func insertStops(context context.Context, transaction pgx.Tx, stops []*UnloadingStop) error {
	s := schema.UnloadingStop
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		s.Table, s.ID, s.TourID, s.Position, s.Location, s.UnloadingDate,
	)

	for _, stop := range stops {
		if _, err := transaction.Exec(context, query,
			stop.ID, stop.TourID, stop.Position, stop.Location, stop.UnloadingDate); err != nil {
			return dberr.Wrap(err, "insert_unloading_stop")
		}
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, organizationID, id string) (*Tour, error) {
	t := schema.Tour
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		tourColumns(), t.Table, t.ID, t.OrganizationID,
	)

	tour, err := scanTour(repository.db.QueryRow(context, query, id, organizationID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_tour_by_id")
	}

	if err := repository.loadStops(context, []*Tour{tour}); err != nil {
		return nil, err
	}
	return tour, nil
}

// loadStops attaches the ordered stop sets of the given tours in one query.
func (repository *PostgresRepository) loadStops(context context.Context, tours []*Tour) error {
	if len(tours) == 0 {
		return nil
	}

	byID := make(map[string]*Tour, len(tours))
	ids := make([]string, 0, len(tours))
	for _, tour := range tours {
		tour.Stops = []*UnloadingStop{}
		byID[tour.ID] = tour
		ids = append(ids, tour.ID)
	}

	s := schema.UnloadingStop
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s, %s
	`,
		s.ID, s.TourID, s.Position, s.Location, s.UnloadingDate,
		s.Table, s.TourID, s.TourID, s.Position,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_unloading_stops")
	}
	defer rows.Close()

	for rows.Next() {
		stop := &UnloadingStop{}
		if err := rows.Scan(&stop.ID, &stop.TourID, &stop.Position,
			&stop.Location, &stop.UnloadingDate); err != nil {
			return dberr.Wrap(err, "scan_unloading_stop")
		}
		if tour, ok := byID[stop.TourID]; ok {
			tour.Stops = append(tour.Stops, stop)
		}
	}
	return dberr.Wrap(rows.Err(), "load_unloading_stops_rows")
}

func (repository *PostgresRepository) ListChildren(context context.Context, organizationID, parentTourID string) ([]*Tour, error) {
	t := schema.Tour
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s`,
		tourColumns(), t.Table, t.ParentTourID, t.OrganizationID, t.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, parentTourID, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tour_children")
	}
	defer rows.Close()

	children := []*Tour{}
	for rows.Next() {
		child, err := scanTour(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_tour_child")
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_tour_children_rows")
	}

	if err := repository.loadStops(context, children); err != nil {
		return nil, err
	}
	return children, nil
}

func (repository *PostgresRepository) List(context context.Context, organizationID string, filter ListFilter, params pagination.Params) ([]*Tour, int, error) {
	t := schema.Tour

	where := fmt.Sprintf("%s = $1", t.OrganizationID)
	arguments := []interface{}{organizationID}
	if filter.Completed != nil {
		arguments = append(arguments, *filter.Completed)
		where += fmt.Sprintf(" AND %s = $%d", t.IsCompleted, len(arguments))
	}
	if filter.Invoiced != nil {
		arguments = append(arguments, *filter.Invoiced)
		where += fmt.Sprintf(" AND %s = $%d", t.IsInvoiced, len(arguments))
	}
	if filter.TourType != nil {
		arguments = append(arguments, *filter.TourType)
		where += fmt.Sprintf(" AND %s = $%d", t.TourType, len(arguments))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.Table, where)
	total := 0
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tours")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d
	`,
		tourColumns(), t.Table, where, t.CreatedAt,
		len(arguments)+1, len(arguments)+2,
	)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tours")
	}
	defer rows.Close()

	tours := []*Tour{}
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tour")
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_tours_rows")
	}

	if err := repository.loadStops(context, tours); err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (repository *PostgresRepository) ListAll(context context.Context, organizationID string) ([]*Tour, error) {
	t := schema.Tour
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		tourColumns(), t.Table, t.OrganizationID, t.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_all_tours")
	}
	defer rows.Close()

	tours := []*Tour{}
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_tour")
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_all_tours_rows")
	}

	if err := repository.loadStops(context, tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// Update replaces the contract fields and the whole stop set in one
// transaction.
func (repository *PostgresRepository) Update(context context.Context, tour *Tour) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_tour_begin_tx")
	}
	defer func() { _ = transaction.Rollback(context) }()

	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $9 AND %s = $10
		RETURNING %s
	`,
		t.Table,
		t.TourType, t.LoadingLocation, t.LoadingDate, t.ExportCustoms, t.ImportCustoms,
		t.Price, t.Company, t.IsADR, t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.UpdatedAt,
	)

	if err := transaction.QueryRow(context, query,
		tour.TourType, tour.LoadingLocation, tour.LoadingDate, tour.ExportCustoms, tour.ImportCustoms,
		tour.Price, tour.Company, tour.IsADR,
		tour.ID, tour.OrganizationID,
	).Scan(&tour.UpdatedAt); err != nil {
		return dberr.Wrap(err, "update_tour")
	}

	s := schema.UnloadingStop
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, s.Table, s.TourID)
	if _, err := transaction.Exec(context, deleteQuery, tour.ID); err != nil {
		return dberr.Wrap(err, "delete_unloading_stops")
	}

	if err := insertStops(context, transaction, tour.Stops); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "update_tour_commit")
}

func (repository *PostgresRepository) SetParent(context context.Context, organizationID, id string, parentTourID *string) error {
	t := schema.Tour
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		t.Table, t.ParentTourID, t.UpdatedAt, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, parentTourID, id, organizationID)
	return dberr.Wrap(err, "set_tour_parent")
}

func (repository *PostgresRepository) Delete(context context.Context, organizationID, id string) error {
	t := schema.Tour
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, id, organizationID)
	return dberr.Wrap(err, "delete_tour")
}

// # Guarded Assignment

/*
AssignDriver is a single conditional write: the NOT EXISTS predicate and the
update commit together, so two concurrent assignments of the same driver
serialize on the row and the loser matches zero rows.
*/
func (repository *PostgresRepository) AssignDriver(context context.Context, organizationID, id string, driverID *string) (bool, error) {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
		AND ($1::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM %s other
			WHERE other.%s = $3
			AND other.%s <> $2
			AND other.%s = $1
			AND other.%s = false
		))
	`,
		t.Table, t.DriverID, t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.Table, t.OrganizationID, t.ID, t.DriverID, t.IsCompleted,
	)

	tag, err := repository.db.Exec(context, query, driverID, id, organizationID)
	if err != nil {
		return false, dberr.Wrap(err, "assign_tour_driver")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) AssignTruck(context context.Context, organizationID, id string, truckID *string) (bool, error) {
	return repository.assignVehicleColumn(context, organizationID, id, schema.Tour.TruckID, truckID, "assign_tour_truck")
}

func (repository *PostgresRepository) AssignTrailer(context context.Context, organizationID, id string, trailerID *string) (bool, error) {
	return repository.assignVehicleColumn(context, organizationID, id, schema.Tour.TrailerID, trailerID, "assign_tour_trailer")
}

// assignVehicleColumn guards a vehicle column against other *active* tours
// only: a contracted tour referencing the same vehicle is not a conflict.
func (repository *PostgresRepository) assignVehicleColumn(context context.Context, organizationID, id, column string, vehicleID *string, action string) (bool, error) {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
		AND ($1::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM %s other
			WHERE other.%s = $3
			AND other.%s <> $2
			AND other.%s = $1
			AND other.%s IS NOT NULL
			AND other.%s = false
		))
	`,
		t.Table, column, t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.Table, t.OrganizationID, t.ID, column, t.DriverID, t.IsCompleted,
	)

	tag, err := repository.db.Exec(context, query, vehicleID, id, organizationID)
	if err != nil {
		return false, dberr.Wrap(err, action)
	}
	return tag.RowsAffected() > 0, nil
}

// # Completion & Invoicing

func (repository *PostgresRepository) MarkCompleted(context context.Context, organizationID string, ids []string, completedAt time.Time) error {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s SET %s = true, %s = $1, %s = NOW()
		WHERE %s = ANY($2) AND %s = $3
	`,
		t.Table, t.IsCompleted, t.CompletedAt, t.UpdatedAt,
		t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, completedAt, ids, organizationID)
	return dberr.Wrap(err, "mark_tours_completed")
}

func (repository *PostgresRepository) CompleteGroup(context context.Context, organizationID string, ids []string, completedAt time.Time) error {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = true, %s = $1, %s = NULL, %s = NULL, %s = NULL, %s = NOW()
		WHERE %s = ANY($2) AND %s = $3
	`,
		t.Table,
		t.IsCompleted, t.CompletedAt, t.DriverID, t.TruckID, t.TrailerID, t.UpdatedAt,
		t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, completedAt, ids, organizationID)
	return dberr.Wrap(err, "complete_tour_group")
}

func (repository *PostgresRepository) ReleaseResources(context context.Context, organizationID string, ids []string) error {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NULL, %s = NULL, %s = NULL, %s = NOW()
		WHERE %s = ANY($1) AND %s = $2
	`,
		t.Table, t.DriverID, t.TruckID, t.TrailerID, t.UpdatedAt,
		t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, ids, organizationID)
	return dberr.Wrap(err, "release_tour_resources")
}

func (repository *PostgresRepository) SetInvoiced(context context.Context, tour *Tour) error {
	t := schema.Tour
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3 AND %s = $4
		RETURNING %s
	`,
		t.Table, t.IsInvoiced, t.InvoiceNumber, t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		tour.IsInvoiced, tour.InvoiceNumber, tour.ID, tour.OrganizationID,
	).Scan(&tour.UpdatedAt)

	return dberr.Wrap(err, "set_tour_invoiced")
}
