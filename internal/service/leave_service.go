package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

type leaveRepository interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, int, error)
	FindByID(ctx context.Context, id int64) (*models.Leave, error)
	Create(ctx context.Context, leave *models.Leave) error
	UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, approvedBy int64, comments *string) error
	HasOverlap(ctx context.Context, userID int64, start, end time.Time, excludeID *int64) (bool, error)
}

type leaveTypeLookup interface {
	FindLeaveType(ctx context.Context, id int64) (*models.LeaveType, error)
}

// LeaveService provides leave request use cases. Decisions are one-shot: once
// a request leaves Pending it never changes again.
type LeaveService struct {
	repo          leaveRepository
	leaveTypes    leaveTypeLookup
	audit         auditRecorder
	notifications notifier
	validator     *validator.Validate
	logger        *zap.Logger
	overlapCheck  bool
}

// NewLeaveService constructs a LeaveService instance.
func NewLeaveService(repo leaveRepository, leaveTypes leaveTypeLookup, audit auditRecorder, notifications notifier, validate *validator.Validate, logger *zap.Logger, overlapCheck bool) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeaveService{
		repo:          repo,
		leaveTypes:    leaveTypes,
		audit:         audit,
		notifications: notifications,
		validator:     validate,
		logger:        logger,
		overlapCheck:  overlapCheck,
	}
}

// List returns a page of leave requests visible to the caller. Agents only
// ever see their own requests.
func (s *LeaveService) List(ctx context.Context, caller policy.Caller, filter models.LeaveFilter) ([]models.Leave, *response.Pagination, error) {
	filter.UserID = policy.ScopeOwner(caller, filter.UserID)

	leaves, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return leaves, response.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single leave request if the caller may see it.
func (s *LeaveService) GetByID(ctx context.Context, caller policy.Caller, id int64) (*models.Leave, error) {
	leave, err := s.findLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadLeave(caller, leave.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this leave request")
	}
	return leave, nil
}

// Create stores a new Pending leave request for the caller.
func (s *LeaveService) Create(ctx context.Context, caller policy.Caller, req models.CreateLeaveRequest, meta models.RequestMeta) (*models.Leave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}

	leaveType, err := s.leaveTypes.FindLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule, "unknown or inactive leave type")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave type")
	}

	if leaveType.MaxDays > 0 {
		days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
		if days > leaveType.MaxDays {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule,
				fmt.Sprintf("%s allows at most %d days", leaveType.Name, leaveType.MaxDays))
		}
	}

	if s.overlapCheck {
		overlap, err := s.repo.HasOverlap(ctx, caller.ID, req.StartDate, req.EndDate, nil)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check overlapping leave")
		}
		if overlap {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule, "an overlapping leave request already exists")
		}
	}

	leave := &models.Leave{
		UserID:      caller.ID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.LeavePending,
		Reason:      req.Reason,
	}

	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}

	s.audit.Record(ctx, caller.ID, "leaves", models.AuditActionCreate, &leave.ID, nil, leave, meta)

	return leave, nil
}

// Decide approves or rejects a Pending leave request. A request that already
// received a decision cannot be decided again.
func (s *LeaveService) Decide(ctx context.Context, caller policy.Caller, id int64, req models.LeaveDecisionRequest, meta models.RequestMeta) (*models.Leave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	if !req.Status.Decision() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be Approved or Rejected")
	}

	before, err := s.findLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanDecideLeave(caller, before.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to decide this leave request")
	}

	if before.Status != models.LeavePending {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule,
			fmt.Sprintf("leave request is already %s", before.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, caller.ID, req.Comments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave status")
	}

	after := *before
	after.Status = req.Status
	after.ApprovedBy = &caller.ID
	after.Comments = req.Comments

	s.audit.Record(ctx, caller.ID, "leaves", models.AuditActionUpdateStatus, &id, before, &after, meta)

	related := "leave"
	s.notifications.Notify(ctx, before.UserID, fmt.Sprintf("Leave request %s", req.Status),
		fmt.Sprintf("Your leave request from %s to %s has been %s",
			before.StartDate.Format("2006-01-02"), before.EndDate.Format("2006-01-02"), req.Status),
		"leave_decision", &id, &related)

	return &after, nil
}

func (s *LeaveService) findLeave(ctx context.Context, id int64) (*models.Leave, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	return leave, nil
}
