package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, id int64, name, email, department, designation string) error
	UpdateRole(ctx context.Context, id int64, role models.UserRole) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// UserService provides user administration use cases.
type UserService struct {
	repo      userRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns a page of users matching the filter.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *response.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, response.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// UpdateProfile updates descriptive fields on a user. Callers may edit their
// own profile; editing someone else requires Admin or above.
func (s *UserService) UpdateProfile(ctx context.Context, caller policy.Caller, id int64, req models.UpdateProfileRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	if !policy.CanEditProfile(caller, id) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to edit this profile")
	}

	before, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, id, req.Name, req.Email, req.Department, req.Designation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	after, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, "users", models.AuditActionUpdate, &id, before, after, meta)

	return after, nil
}

// UpdateRole changes a user's role. Granting or revoking SystemAdmin requires
// a SystemAdmin caller.
func (s *UserService) UpdateRole(ctx context.Context, caller policy.Caller, id int64, role models.UserRole, meta models.RequestMeta) (*models.User, error) {
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}

	before, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanChangeRole(caller, before.Role, role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a SystemAdmin may assign or revoke the SystemAdmin role")
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	after, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, "users", models.AuditActionUpdateRole, &id, before, after, meta)

	return after, nil
}

// SetActive toggles a user's active flag. A caller may never deactivate their
// own account.
func (s *UserService) SetActive(ctx context.Context, caller policy.Caller, id int64, active bool, meta models.RequestMeta) (*models.User, error) {
	if !active && caller.ID == id {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "cannot deactivate your own account")
	}

	before, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update active status")
	}

	after, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, "users", models.AuditActionUpdateStatus, &id, before, after, meta)

	return after, nil
}
