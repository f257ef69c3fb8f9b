package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/metrics"
)

// ── attendance errors ──

var (
	ErrAttendanceNotFound = fmt.Errorf("%w: attendance record", pkgerrors.ErrNotFound)
	ErrAttendanceConflict = fmt.Errorf("%w: attendance record was changed by another action", pkgerrors.ErrOptimisticLock)
)

// AttendanceService attendance ledger
type AttendanceService interface {
	// RecordScan appends a Pending record. Neither the event nor the roll has
	// to exist, and repeated scans of the same roll each add a row.
	RecordScan(ctx context.Context, caller *policy.Caller, req *dto.AddScanRequest) (*dto.AddScanResponse, error)
	// ApplyHodAction sets the record's status. An action outside
	// Pending/Approved/Rejected leaves the record untouched and still succeeds.
	ApplyHodAction(ctx context.Context, caller *policy.Caller, req *dto.HodActionRequest) (*dto.AttendanceResponse, error)
	ListForEvent(ctx context.Context, caller *policy.Caller, eventID uint64) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAttendanceService creates an AttendanceService; m may be nil
func NewAttendanceService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, metrics: m, logger: logger, now: utcNow}
}

// ────────────────────── RecordScan ──────────────────────

func (s *attendanceService) RecordScan(ctx context.Context, caller *policy.Caller, req *dto.AddScanRequest) (*dto.AddScanResponse, error) {
	if err := policy.Authorize(caller, policy.OpRecordScan); err != nil {
		return nil, err
	}

	roll := strings.TrimSpace(req.Roll)
	if roll == "" {
		return nil, ErrEmptyRoll
	}

	rec := model.NewScan(req.EventID, roll, caller.ID, s.now())
	if err := s.repo.Attendance.Create(ctx, rec); err != nil {
		s.logger.Error("record scan failed",
			zap.Uint64("event_id", req.EventID),
			zap.String("roll", roll),
			zap.Error(err),
		)
		return nil, err
	}
	s.metrics.ScanRecorded()

	s.logger.Info("scan recorded",
		zap.Uint64("attendance_id", rec.ID),
		zap.Uint64("event_id", rec.EventID),
		zap.String("roll", rec.Roll),
		zap.Uint64("conductor_id", caller.ID),
	)

	return &dto.AddScanResponse{
		OK:        true,
		ID:        rec.ID,
		ScannedAt: formatTime(rec.ScannedAt),
	}, nil
}

// ────────────────────── ApplyHodAction ──────────────────────

func (s *attendanceService) ApplyHodAction(ctx context.Context, caller *policy.Caller, req *dto.HodActionRequest) (*dto.AttendanceResponse, error) {
	if err := policy.Authorize(caller, policy.OpApplyHodAction); err != nil {
		return nil, err
	}

	rec, err := s.getRecord(ctx, req.AttendanceID)
	if err != nil {
		return nil, err
	}

	status, ok := model.ParseAttendanceStatus(req.Action)
	if !ok {
		s.logger.Warn("unrecognized hod action ignored",
			zap.Uint64("attendance_id", rec.ID),
			zap.String("action", req.Action),
			zap.Uint64("hod_id", caller.ID),
		)
		s.metrics.HodActionApplied("ignored")
		resp := toAttendanceResponse(rec)
		return &resp, nil
	}

	if req.Version != nil && *req.Version != rec.Version {
		return nil, ErrAttendanceConflict
	}

	rec.Apply(status, caller.ID, s.now())
	if err := s.repo.Attendance.UpdateStatus(ctx, rec, req.Version); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return nil, ErrAttendanceConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("apply hod action failed", zap.Uint64("attendance_id", rec.ID), zap.Error(err))
		return nil, err
	}
	s.metrics.HodActionApplied(string(status))

	s.logger.Info("hod action applied",
		zap.Uint64("attendance_id", rec.ID),
		zap.String("status", string(status)),
		zap.Uint64("hod_id", caller.ID),
	)

	updated, err := s.getRecord(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	resp := toAttendanceResponse(updated)
	return &resp, nil
}

// ────────────────────── ListForEvent ──────────────────────

func (s *attendanceService) ListForEvent(ctx context.Context, caller *policy.Caller, eventID uint64) ([]dto.AttendanceResponse, error) {
	if err := policy.Authorize(caller, policy.OpListAttendance); err != nil {
		return nil, err
	}

	rows, err := s.repo.Attendance.ListForEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Uint64("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return toAttendanceRowResponses(rows), nil
}

func (s *attendanceService) getRecord(ctx context.Context, id uint64) (*model.Attendance, error) {
	rec, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("get attendance failed", zap.Uint64("attendance_id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}
