// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/database/schema"
	"github.com/fleetdesk/fleetdesk/internal/platform/dberr"
	"github.com/fleetdesk/fleetdesk/internal/users/organization"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new Postgres-backed UserRepository.
func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the stable SELECT column list for scanning a [User].
func userColumns() string {
	t := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Role,
		t.OrganizationID, t.EmailNotificationsEnabled, t.NotificationDaysBefore,
		t.CreatedAt, t.UpdatedAt,
	)
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.OrganizationID, &user.EmailNotificationsEnabled,
		&user.NotificationDaysBefore, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_id")
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.UserAccount.Table, schema.UserAccount.Email,
	)

	user, err := scanUser(repository.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_email")
	}
	return user, nil
}

// ListWithNotificationsEnabled returns every provisioned account that opted
// into expiry emails, across all organizations. Used by the daily scan.
func (repository *PostgresUserRepository) ListWithNotificationsEnabled(context context.Context) ([]*User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = true AND %s IS NOT NULL
		ORDER BY %s
	`,
		userColumns(), t.Table,
		t.EmailNotificationsEnabled, t.OrganizationID,
		t.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_notifiable_users")
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	return users, dberr.Wrap(rows.Err(), "list_notifiable_users_rows")
}

// CreateWithOrganization inserts the tenant and its founding director in one
// transaction. Either both rows exist afterwards or neither does.
func (repository *PostgresUserRepository) CreateWithOrganization(context context.Context, user *User, org *organization.Organization) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "signup_begin_tx")
	}
	defer func() { _ = transaction.Rollback(context) }()

	orgQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Organization.Table,
		schema.Organization.ID, schema.Organization.Name, schema.Organization.Slug,
		schema.Organization.CreatedAt, schema.Organization.UpdatedAt,
		schema.Organization.CreatedAt, schema.Organization.UpdatedAt,
	)

	if err := transaction.QueryRow(context, orgQuery, org.ID, org.Name, org.Slug).
		Scan(&org.CreatedAt, &org.UpdatedAt); err != nil {
		return dberr.Wrap(err, "signup_insert_organization")
	}

	t := schema.UserAccount
	userQuery := fmt.Sprintf(`
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

	if err := transaction.QueryRow(context, userQuery,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.OrganizationID, user.EmailNotificationsEnabled,
		user.NotificationDaysBefore,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return dberr.Wrap(err, "signup_insert_user")
	}

	return dberr.Wrap(transaction.Commit(context), "signup_commit")
}
