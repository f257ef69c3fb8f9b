package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
)

// ── export errors ──

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

// ExportService spreadsheet exports. Results come back as a buffer plus a
// suggested file name; the handler sets the download headers.
type ExportService interface {
	// ExportEvent writes the event's ledger, newest scan first, as .xlsx
	ExportEvent(ctx context.Context, caller *policy.Caller, eventID uint64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const attendanceSheet = "Attendance"

var attendanceColumns = []struct {
	title string
	width float64
}{
	{"ID", 8},
	{"Roll", 16},
	{"Name", 24},
	{"Branch", 14},
	{"Scanned At", 24},
	{"Conductor", 10},
	{"Status", 12},
	{"HOD", 8},
	{"HOD Action At", 24},
}

// ════════════════════════════════════════
// ExportEvent
// ════════════════════════════════════════
//
// Row 1 is the event title merged across the table, row 2 the header,
// then one row per attendance record. Unknown rolls get empty name/branch.

func (s *exportService) ExportEvent(ctx context.Context, caller *policy.Caller, eventID uint64) (*bytes.Buffer, string, error) {
	if err := policy.Authorize(caller, policy.OpExportEvent); err != nil {
		return nil, "", err
	}

	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.Uint64("event_id", eventID), zap.Error(err))
		return nil, "", err
	}

	rows, err := s.repo.Attendance.ListForEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Uint64("event_id", eventID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(attendanceSheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for i, c := range attendanceColumns {
		col := colName(i)
		_ = f.SetColWidth(attendanceSheet, col, col, c.width)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	lastCol := colName(len(attendanceColumns) - 1)
	_ = f.SetCellValue(attendanceSheet, "A1", event.Title)
	_ = f.MergeCell(attendanceSheet, "A1", cell(lastCol, 1))
	_ = f.SetCellStyle(attendanceSheet, "A1", "A1", headerStyle)

	for i, c := range attendanceColumns {
		_ = f.SetCellValue(attendanceSheet, cell(colName(i), 2), c.title)
	}
	_ = f.SetCellStyle(attendanceSheet, "A2", cell(lastCol, 2), headerStyle)

	for i, r := range toAttendanceRowResponses(rows) {
		values := []interface{}{
			r.ID,
			r.Roll,
			derefOr(r.StudentName, ""),
			derefOr(r.StudentBranch, ""),
			r.ScannedAt,
			r.ConductorID,
			r.Status,
			"",
			derefOr(r.HodActionAt, ""),
		}
		if r.HodID != nil {
			values[7] = *r.HodID
		}
		row := i + 3
		for j, v := range values {
			_ = f.SetCellValue(attendanceSheet, cell(colName(j), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write spreadsheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_event_%d.xlsx", event.ID)
	return buf, filename, nil
}

// ── helpers ──

// colName zero-based column index to letters
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
