package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
)

// ── roster errors ──

var (
	ErrEmptyRoll         = fmt.Errorf("%w: roll is required", pkgerrors.ErrInvalidInput)
	ErrImportNoData      = fmt.Errorf("%w: roster file has no data rows", pkgerrors.ErrInvalidInput)
	ErrImportBadHeader   = fmt.Errorf("%w: roster header must contain a roll column", pkgerrors.ErrInvalidInput)
	ErrImportTooManyRows = fmt.Errorf("%w: roster file exceeds %d rows", pkgerrors.ErrInvalidInput, maxImportRows)
)

const (
	maxImportRows    = 20000
	defaultBadgeSize = 256
	maxBadgeSize     = 1024
)

// RosterService read side of the student roster, plus out-of-band import
type RosterService interface {
	// Lookup never fails on an unknown roll: name and branch come back nil
	Lookup(ctx context.Context, caller *policy.Caller, roll string) (*dto.ScanLookupResponse, error)
	// Badge renders the roll as a QR code PNG for printing
	Badge(ctx context.Context, caller *policy.Caller, roll string, size int) ([]byte, error)
	ParseImportFile(reader io.Reader) ([]model.Student, error)
	Import(ctx context.Context, students []model.Student) (int, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates a RosterService
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

func (s *rosterService) Lookup(ctx context.Context, caller *policy.Caller, roll string) (*dto.ScanLookupResponse, error) {
	if err := policy.Authorize(caller, policy.OpLookupRoster); err != nil {
		return nil, err
	}

	roll = strings.TrimSpace(roll)
	if roll == "" {
		return nil, ErrEmptyRoll
	}

	st, err := s.repo.Student.GetByRoll(ctx, roll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ScanLookupResponse{Roll: roll}, nil
		}
		s.logger.Error("roster lookup failed", zap.String("roll", roll), zap.Error(err))
		return nil, err
	}

	return &dto.ScanLookupResponse{Roll: st.Roll, Name: st.Name, Branch: st.Branch}, nil
}

func (s *rosterService) Badge(ctx context.Context, caller *policy.Caller, roll string, size int) ([]byte, error) {
	if err := policy.Authorize(caller, policy.OpStudentBadge); err != nil {
		return nil, err
	}

	roll = strings.TrimSpace(roll)
	if roll == "" {
		return nil, ErrEmptyRoll
	}
	if size <= 0 {
		size = defaultBadgeSize
	}
	if size > maxBadgeSize {
		size = maxBadgeSize
	}

	png, err := qrcode.Encode(roll, qrcode.Medium, size)
	if err != nil {
		s.logger.Error("encode qr badge failed", zap.String("roll", roll), zap.Error(err))
		return nil, err
	}
	return png, nil
}

// ────────────────────── import ──────────────────────

// ParseImportFile reads the first sheet of an .xlsx roster. Columns are located
// by header name (roll, name, branch) in any order; only roll is mandatory.
func (s *rosterService) ParseImportFile(reader io.Reader) ([]model.Student, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read roster file: %v", pkgerrors.ErrInvalidInput, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read roster sheet: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseRosterHeader(excelRows[0])
	if colIndex["roll"] < 0 {
		return nil, ErrImportBadHeader
	}

	seen := make(map[string]int)
	var students []model.Student
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		roll := cellAt(row, colIndex["roll"])
		if roll == "" {
			continue
		}

		st := model.Student{Roll: roll}
		if name := cellAt(row, colIndex["name"]); name != "" {
			st.Name = &name
		}
		if branch := cellAt(row, colIndex["branch"]); branch != "" {
			st.Branch = &branch
		}

		// a roll listed twice keeps its last row
		if idx, dup := seen[roll]; dup {
			students[idx] = st
			continue
		}
		seen[roll] = len(students)
		students = append(students, st)
	}

	if len(students) == 0 {
		return nil, ErrImportNoData
	}
	if len(students) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return students, nil
}

func (s *rosterService) Import(ctx context.Context, students []model.Student) (int, error) {
	if len(students) == 0 {
		return 0, ErrImportNoData
	}
	if err := s.repo.Student.Upsert(ctx, students); err != nil {
		s.logger.Error("roster upsert failed", zap.Int("rows", len(students)), zap.Error(err))
		return 0, err
	}
	s.logger.Info("roster imported", zap.Int("rows", len(students)))
	return len(students), nil
}

// parseRosterHeader maps known column names to their index, -1 when absent
func parseRosterHeader(header []string) map[string]int {
	index := map[string]int{"roll": -1, "name": -1, "branch": -1}
	aliases := map[string]string{
		"roll":        "roll",
		"roll no":     "roll",
		"roll number": "roll",
		"name":        "name",
		"student":     "name",
		"branch":      "branch",
		"department":  "branch",
	}
	for i, h := range header {
		key, ok := aliases[strings.ToLower(strings.TrimSpace(h))]
		if ok && index[key] < 0 {
			index[key] = i
		}
	}
	return index
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
