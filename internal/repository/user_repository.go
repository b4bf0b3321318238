package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/query"
)

const userColumns = `id, employee_id, name, email, password_hash, role, department, designation, is_active, created_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ExistsByEmailOrEmployeeID reports whether any account already claims the
// email or employee identifier.
func (r *UserRepository) ExistsByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR employee_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, email, employeeID); err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return exists, nil
}

// List returns users based on filters with the total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	qb := query.New(userColumns, "users").
		Equal("role", filter.Role).
		Equal("is_active", filter.Active).
		Search(filter.Search, "name", "email", "employee_id")

	dataSQL, countSQL, args := qb.Build(filter.Page, filter.Limit)

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, dataSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Create inserts a new account and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO users (employee_id, name, email, password_hash, role, department, designation, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		user.EmployeeID, user.Name, user.Email, user.PasswordHash,
		user.Role, user.Department, user.Designation, user.IsActive, user.CreatedAt,
	).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile updates the self-editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, email, department, designation string) error {
	const q = `UPDATE users SET name = $2, email = $3, department = $4, designation = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, name, email, department, designation); err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

// UpdateRole changes an account's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.UserRole) error {
	const q = `UPDATE users SET role = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, role); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

// SetActive toggles an account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE users SET is_active = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, active); err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}
