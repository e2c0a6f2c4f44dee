// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/database/schema"
	"github.com/fleetdesk/fleetdesk/internal/platform/dberr"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Postgres-backed account Repository.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func accountColumns() string {
	t := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Role,
		t.OrganizationID, t.EmailNotificationsEnabled, t.NotificationDaysBefore,
		t.CreatedAt, t.UpdatedAt,
	)
}

func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.OrganizationID, &user.EmailNotificationsEnabled,
		&user.NotificationDaysBefore, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresRepository) FindInOrganization(context context.Context, organizationID, id string) (*auth.User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		accountColumns(), t.Table, t.ID, t.OrganizationID,
	)

	user, err := scanAccount(repository.db.QueryRow(context, query, id, organizationID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_account_in_organization")
	}
	return user, nil
}

func (repository *PostgresRepository) ListByOrganization(context context.Context, organizationID string) ([]*auth.User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		accountColumns(), t.Table, t.OrganizationID, t.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, organizationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}
	return users, dberr.Wrap(rows.Err(), "list_accounts_rows")
}

func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table,
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Role,
		t.OrganizationID, t.EmailNotificationsEnabled, t.NotificationDaysBefore,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.OrganizationID, user.EmailNotificationsEnabled,
		user.NotificationDaysBefore,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_account")
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6
		RETURNING %s
	`,
		t.Table,
		t.FirstName, t.LastName, t.Role,
		t.EmailNotificationsEnabled, t.NotificationDaysBefore, t.UpdatedAt,
		t.ID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.FirstName, user.LastName, user.Role,
		user.EmailNotificationsEnabled, user.NotificationDaysBefore,
		user.ID,
	).Scan(&user.UpdatedAt)

	return dberr.Wrap(err, "update_account")
}

func (repository *PostgresRepository) Delete(context context.Context, organizationID, id string) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.ID, t.OrganizationID,
	)

	_, err := repository.db.Exec(context, query, id, organizationID)
	return dberr.Wrap(err, "delete_account")
}
