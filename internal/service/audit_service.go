package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditService appends immutable before/after records for every mutation.
// Recording is a best-effort side channel: a failed write is logged and never
// fails the triggering business operation.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an audit entry. Old and new values are JSON-marshalled; an
// absent value is stored as NULL, not omitted.
func (s *AuditService) Record(ctx context.Context, actorID int64, table, action string, recordID *int64, oldValue, newValue interface{}, meta models.RequestMeta) {
	entry := &models.AuditLog{
		UserID:     &actorID,
		TableName:  table,
		ActionType: action,
		RecordID:   recordID,
		OldValues:  s.snapshot(oldValue),
		NewValues:  s.snapshot(newValue),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("table", table),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// List returns the audit trail for admin consumption.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *response.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return entries, response.NewPagination(filter.Page, filter.Limit, total), nil
}

// Recent returns the latest entries for the statistics view.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent audit logs")
	}
	return entries, nil
}

// PurgeOlderThan removes entries older than the given horizon in days.
func (s *AuditService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.PurgeOlderThan(ctx, cutoff)
}

func (s *AuditService) snapshot(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to marshal audit snapshot", zap.Error(err))
		return nil
	}
	return raw
}
