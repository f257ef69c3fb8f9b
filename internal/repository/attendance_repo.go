package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
)

// AttendanceRepository ledger storage
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id uint64) (*model.Attendance, error)
	// UpdateStatus writes status, hod_id and hod_action_at of a in one statement
	// and bumps version. With expectedVersion set the write only happens when
	// the stored version still matches, otherwise ErrOptimisticLock.
	UpdateStatus(ctx context.Context, a *model.Attendance, expectedVersion *int) error
	// ListForEvent returns every row of the event, newest scan first, left-joined with the roster
	ListForEvent(ctx context.Context, eventID uint64) ([]model.AttendanceRow, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id uint64) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) UpdateStatus(ctx context.Context, a *model.Attendance, expectedVersion *int) error {
	db := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ?", a.ID)
	if expectedVersion != nil {
		db = db.Where("version = ?", *expectedVersion)
	}

	result := db.Updates(map[string]interface{}{
		"status":        a.Status,
		"hod_id":        a.HodID,
		"hod_action_at": a.HodActionAt,
		"version":       gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if expectedVersion != nil {
			return pkgerrors.ErrOptimisticLock
		}
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepo) ListForEvent(ctx context.Context, eventID uint64) ([]model.AttendanceRow, error) {
	var rows []model.AttendanceRow
	err := r.db.WithContext(ctx).
		Table("attendance AS a").
		Select("a.*, s.name AS student_name, s.branch AS student_branch").
		Joins("LEFT JOIN students s ON s.roll = a.roll").
		Where("a.event_id = ?", eventID).
		Order("a.scanned_at DESC, a.id DESC").
		Scan(&rows).Error
	return rows, err
}
