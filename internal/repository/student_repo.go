package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
)

// StudentRepository roster storage
type StudentRepository interface {
	GetByRoll(ctx context.Context, roll string) (*model.Student, error)
	// Upsert inserts or refreshes roster rows keyed by roll
	Upsert(ctx context.Context, students []model.Student) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByRoll(ctx context.Context, roll string) (*model.Student, error) {
	var st model.Student
	err := r.db.WithContext(ctx).
		Where("roll = ?", roll).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *studentRepo) Upsert(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "roll"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "branch"}),
		}).
		CreateInBatches(&students, 500).Error
}
