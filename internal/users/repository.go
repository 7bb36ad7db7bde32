package users

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/LEULEX-404/Health-Tracker/pkg/database"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

const userSelectColumns = `
	id, email, first_name, last_name, role, health_conditions, is_active, created_at, updated_at`

// Repository is the read side of the users table. It backs the background
// loops through the UserDirectory interface and the admin listing endpoints.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates the user repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// ListUserIDs returns the IDs of all active users
func (r *Repository) ListUserIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM users WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, types.NewStorageError("failed to list user IDs", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, types.NewStorageError("failed to scan user ID", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetUser returns a single user by ID
func (r *Repository) GetUser(id string) (*types.User, error) {
	query := `SELECT` + userSelectColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError("user not found")
		}
		return nil, types.NewStorageError("failed to get user", err)
	}
	return user, nil
}

// ListUsers returns all users, active and inactive
func (r *Repository) ListUsers() ([]*types.User, error) {
	query := `SELECT` + userSelectColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, types.NewStorageError("failed to list users", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, types.NewStorageError("failed to scan user", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*types.User, error) {
	var user types.User
	var conditions pq.StringArray

	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role,
		&conditions, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.HealthConditions = conditions
	return &user, nil
}
