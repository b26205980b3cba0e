package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"shortspan/internal/entities"
)

// ErrUserNotFound is returned when no admin account matches the query
var ErrUserNotFound = errors.New("admin user not found")

// AdminRepository defines the database operations for admin console accounts
type AdminRepository interface {
	Create(email, passwordHash string, name *string) (*entities.AdminUser, error)
	FindByEmail(email string) (*entities.AdminUser, error)
	FindByID(id string) (*entities.AdminUser, error)
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new admin account repository
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create inserts a new admin account
func (r *adminRepository) Create(email, passwordHash string, name *string) (*entities.AdminUser, error) {
	query := `
		INSERT INTO admin_users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, name, created_at, updated_at
	`

	var user entities.AdminUser
	err := r.db.QueryRow(query, email, passwordHash, name).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return &user, nil
}

// FindByEmail finds an admin account by email
func (r *adminRepository) FindByEmail(email string) (*entities.AdminUser, error) {
	return r.findOne(`
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`, email)
}

// FindByID finds an admin account by ID (UUID)
func (r *adminRepository) FindByID(id string) (*entities.AdminUser, error) {
	return r.findOne(`
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`, id)
}

func (r *adminRepository) findOne(query string, arg any) (*entities.AdminUser, error) {
	var user entities.AdminUser
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	return &user, nil
}
