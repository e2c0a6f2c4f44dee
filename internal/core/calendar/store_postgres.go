// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/database/schema"
	"github.com/fleetdesk/fleetdesk/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Postgres-backed calendar Repository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func eventColumns() string {
	t := schema.CalendarEvent
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.OrganizationID, t.Title, t.Description, t.EventDate, t.Color,
		t.CreatedAt, t.UpdatedAt,
	)
}

func scanEvent(row pgx.Row) (*Event, error) {
	event := &Event{Kind: KindCustom}
	err := row.Scan(
		&event.ID, &event.OrganizationID, &event.Title, &event.Description,
		&event.Date, &event.Color, &event.CreatedAt, &event.UpdatedAt,
	)
	return event, err
}

func (repository *PostgresRepository) Create(context context.Context, event *Event) error {
	t := schema.CalendarEvent
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table,
		t.ID, t.OrganizationID, t.Title, t.Description, t.EventDate, t.Color,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		event.ID, event.OrganizationID, event.Title, event.Description,
		event.Date, event.Color,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	return dberr.Wrap(err, "create_calendar_event")
}

func (repository *PostgresRepository) FindByID(context context.Context, organizationID, id string) (*Event, error) {
	t := schema.CalendarEvent
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		eventColumns(), t.Table, t.ID, t.OrganizationID,
	)

	event, err := scanEvent(repository.db.QueryRow(context, query, id, organizationID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_calendar_event")
	}
	return event, nil
}

func (repository *PostgresRepository) ListWindow(context context.Context, organizationID string, from, to time.Time) ([]*Event, error) {
	t := schema.CalendarEvent
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s >= $2 AND %s < $3
		ORDER BY %s
	`,
		eventColumns(), t.Table,
		t.OrganizationID, t.EventDate, t.EventDate, t.EventDate,
	)

	rows, err := repository.db.Query(context, query, organizationID, from, to)
	if err != nil {
		return nil, dberr.Wrap(err, "list_calendar_events")
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_calendar_event")
		}
		events = append(events, event)
	}
	return events, dberr.Wrap(rows.Err(), "list_calendar_events_rows")
}

func (repository *PostgresRepository) Update(context context.Context, event *Event) error {
	t := schema.CalendarEvent
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $5 AND %s = $6
		RETURNING %s
	`,
		t.Table,
		t.Title, t.Description, t.EventDate, t.Color, t.UpdatedAt,
		t.ID, t.OrganizationID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		event.Title, event.Description, event.Date, event.Color,
		event.ID, event.OrganizationID,
	).Scan(&event.UpdatedAt)

	return dberr.Wrap(err, "update_calendar_event")
}

func (repository *PostgresRepository) Delete(context context.Context, organizationID, id string) error {
	t := schema.CalendarEvent
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, id, organizationID)
	return dberr.Wrap(err, "delete_calendar_event")
}
