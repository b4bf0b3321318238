package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/export"
)

type reportTaskRepository interface {
	ListAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
}

type reportLeaveRepository interface {
	ListAll(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportService builds task and leave report extracts and renders them as
// CSV or PDF. JSON output returns the raw rows through the usual envelope.
type ReportService struct {
	tasks  reportTaskRepository
	leaves reportLeaveRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(tasks reportTaskRepository, leaves reportLeaveRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{tasks: tasks, leaves: leaves, csv: csv, pdf: pdf, logger: logger}
}

// TaskRows returns the raw task rows for a JSON report.
func (s *ReportService) TaskRows(ctx context.Context, caller policy.Caller, filter models.TaskFilter) ([]models.Task, error) {
	if !policy.CanViewReports(caller) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to run reports")
	}
	rows, err := s.tasks.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build task report")
	}
	return rows, nil
}

// TaskReport returns the JSON report: raw rows plus status/priority tallies.
func (s *ReportService) TaskReport(ctx context.Context, caller policy.Caller, filter models.TaskFilter) (*models.TaskReport, error) {
	rows, err := s.TaskRows(ctx, caller, filter)
	if err != nil {
		return nil, err
	}

	report := &models.TaskReport{Total: len(rows), Rows: rows}
	byStatus := map[string]int{}
	byPriority := map[string]int{}
	for _, t := range rows {
		byStatus[string(t.Status)]++
		byPriority[string(t.Priority)]++
	}
	report.ByStatus = tally(byStatus)
	report.ByPriority = tally(byPriority)
	return report, nil
}

// TaskFile renders the task report in the requested file format.
func (s *ReportService) TaskFile(ctx context.Context, caller policy.Caller, filter models.TaskFilter, format models.ReportFormat) (*models.ReportFile, error) {
	rows, err := s.TaskRows(ctx, caller, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Title", "Status", "Priority", "Due Date", "Assigned To", "Assigned By", "Created At"},
	}
	for _, t := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			string(t.Status),
			string(t.Priority),
			t.DueDate.Format("2006-01-02"),
			derefName(t.AssignedToName),
			derefName(t.AssignedByName),
			t.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "Task Report", "task_report", format)
}

// LeaveRows returns the raw leave rows for a JSON report.
func (s *ReportService) LeaveRows(ctx context.Context, caller policy.Caller, filter models.LeaveFilter) ([]models.Leave, error) {
	if !policy.CanViewReports(caller) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to run reports")
	}
	rows, err := s.leaves.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build leave report")
	}
	return rows, nil
}

// LeaveReport returns the JSON report: raw rows plus status/type tallies.
func (s *ReportService) LeaveReport(ctx context.Context, caller policy.Caller, filter models.LeaveFilter) (*models.LeaveReport, error) {
	rows, err := s.LeaveRows(ctx, caller, filter)
	if err != nil {
		return nil, err
	}

	report := &models.LeaveReport{Total: len(rows), Rows: rows}
	byStatus := map[string]int{}
	byType := map[string]int{}
	for _, l := range rows {
		byStatus[string(l.Status)]++
		byType[derefName(l.LeaveTypeName)]++
	}
	report.ByStatus = tally(byStatus)
	report.ByType = tally(byType)
	return report, nil
}

// LeaveFile renders the leave report in the requested file format.
func (s *ReportService) LeaveFile(ctx context.Context, caller policy.Caller, filter models.LeaveFilter, format models.ReportFormat) (*models.ReportFile, error) {
	rows, err := s.LeaveRows(ctx, caller, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Requested By", "Leave Type", "Start Date", "End Date", "Status", "Decided By", "Created At"},
	}
	for _, l := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			strconv.FormatInt(l.ID, 10),
			derefName(l.UserName),
			derefName(l.LeaveTypeName),
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
			string(l.Status),
			derefName(l.ApprovedByName),
			l.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "Leave Report", "leave_report", format)
}

func (s *ReportService) render(dataset export.Dataset, title, stem string, format models.ReportFormat) (*models.ReportFile, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")

	switch format {
	case models.ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &models.ReportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", stem, timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case models.ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &models.ReportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", stem, timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
}

func tally(counts map[string]int) []models.StatusCount {
	out := make([]models.StatusCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, models.StatusCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func derefName(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
