package repository

import "gorm.io/gorm"

// Repository aggregates every repository
type Repository struct {
	User       UserRepository
	Student    StudentRepository
	Event      EventRepository
	Attendance AttendanceRepository
}

// NewRepository builds the gorm-backed aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Student:    NewStudentRepo(db),
		Event:      NewEventRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}
