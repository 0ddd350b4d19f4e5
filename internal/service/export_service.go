package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/export"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
)

type exportStateReader interface {
	ListAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	ListCalendarEvents(ctx context.Context, rng models.CalendarRange) []models.CalendarEvent
	Location() *time.Location
	Now() time.Time
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders assignment and calendar listings as CSV or PDF.
// Files are returned in memory and never written to disk.
type ExportService struct {
	state  exportStateReader
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers use the defaults.
func NewExportService(state exportStateReader, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{state: state, csv: csv, pdf: pdf, logger: logger}
}

// Assignments exports the assignments matching filter.
func (s *ExportService) Assignments(ctx context.Context, filter models.AssignmentFilter, format export.Format) (*ExportFile, error) {
	items, err := s.state.ListAssignments(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.state.Now()
	loc := s.state.Location()

	data := export.Dataset{
		Title:   "Assignments",
		Headers: []string{"Title", "Course", "Lecturer", "Due", "Status", "Priority", "Due Category", "Grade"},
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, a := range items {
		data.Rows = append(data.Rows, map[string]string{
			"Title":        a.Title,
			"Course":       a.CourseCode,
			"Lecturer":     a.LecturerName,
			"Due":          a.DueDate.In(loc).Format("2006-01-02 15:04"),
			"Status":       string(a.Status),
			"Priority":     string(a.Priority),
			"Due Category": string(a.DueCategory(now, loc)),
			"Grade":        formatGrade(a),
		})
	}
	return s.render(data, "assignments", now.In(loc), format)
}

// Calendar exports events in rng.
func (s *ExportService) Calendar(ctx context.Context, rng models.CalendarRange, format export.Format) (*ExportFile, error) {
	if !rng.From.IsZero() && !rng.To.IsZero() && !rng.To.After(rng.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "calendar range end must be after start")
	}
	loc := s.state.Location()
	events := s.state.ListCalendarEvents(ctx, rng)

	data := export.Dataset{
		Title:   "Calendar",
		Headers: []string{"Date", "Start", "End", "Title", "Type", "Location"},
		Rows:    make([]map[string]string, 0, len(events)),
	}
	for _, ev := range events {
		start, end := "", ""
		if !ev.IsAllDay {
			start = ev.StartTime.In(loc).Format("15:04")
			end = ev.EndTime.In(loc).Format("15:04")
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":     ev.Date.In(loc).Format("2006-01-02"),
			"Start":    start,
			"End":      end,
			"Title":    ev.Title,
			"Type":     string(ev.Type),
			"Location": ev.Location,
		})
	}
	return s.render(data, "calendar", s.state.Now().In(loc), format)
}

func (s *ExportService) render(data export.Dataset, base string, at time.Time, format export.Format) (*ExportFile, error) {
	var renderer datasetRenderer
	switch format {
	case export.FormatCSV:
		renderer = s.csv
	case export.FormatPDF:
		renderer = s.pdf
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	payload, err := renderer.Render(data)
	if err != nil {
		s.logger.Error("export render failed", zap.String("dataset", base), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("export rendered", zap.String("dataset", base), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)), zap.Int("bytes", len(payload)))
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", base, at.Format("20060102"), format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func formatGrade(a models.Assignment) string {
	if a.Grade == nil {
		return ""
	}
	return strconv.FormatFloat(*a.Grade, 'f', -1, 64) + "/" + strconv.FormatFloat(a.MaxGrade, 'f', -1, 64)
}
