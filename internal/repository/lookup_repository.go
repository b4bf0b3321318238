package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dnothi-api/internal/models"
)

// LookupRepository reads the static dropdown tables. Lookup rows have no
// behavior beyond a name and an active flag; only active rows are served.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository creates a new instance of LookupRepository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Categories returns active categories ordered by name.
func (r *LookupRepository) Categories(ctx context.Context) ([]models.Lookup, error) {
	return r.lookups(ctx, "categories")
}

// Offices returns active offices ordered by name.
func (r *LookupRepository) Offices(ctx context.Context) ([]models.Lookup, error) {
	return r.lookups(ctx, "offices")
}

// Sources returns active sources ordered by name.
func (r *LookupRepository) Sources(ctx context.Context) ([]models.Lookup, error) {
	return r.lookups(ctx, "sources")
}

// Services returns active services, optionally restricted to one category.
func (r *LookupRepository) Services(ctx context.Context, categoryID *int64) ([]models.ServiceItem, error) {
	q := `SELECT id, category_id, name, is_active FROM services WHERE is_active = TRUE`
	args := []interface{}{}
	if categoryID != nil {
		q += ` AND category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY name`

	items := []models.ServiceItem{}
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return items, nil
}

// LeaveTypes returns active leave types ordered by name.
func (r *LookupRepository) LeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	const q = `SELECT id, name, max_days, is_active FROM leave_types WHERE is_active = TRUE ORDER BY name`
	items := []models.LeaveType{}
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	return items, nil
}

// FindLeaveType returns an active leave type by id.
func (r *LookupRepository) FindLeaveType(ctx context.Context, id int64) (*models.LeaveType, error) {
	const q = `SELECT id, name, max_days, is_active FROM leave_types WHERE id = $1 AND is_active = TRUE LIMIT 1`
	var lt models.LeaveType
	if err := r.db.GetContext(ctx, &lt, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find leave type: %w", err)
	}
	return &lt, nil
}

func (r *LookupRepository) lookups(ctx context.Context, table string) ([]models.Lookup, error) {
	q := fmt.Sprintf(`SELECT id, name, is_active FROM %s WHERE is_active = TRUE ORDER BY name`, table)
	items := []models.Lookup{}
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return items, nil
}
