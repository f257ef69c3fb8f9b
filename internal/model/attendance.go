package model

import "time"

// Attendance one scan of a roll for an event, table attendance
//
// EventID and Roll are not foreign keys: a scan is recorded even when the
// event or the student is unknown.
type Attendance struct {
	ID          uint64           `gorm:"primaryKey;autoIncrement"                 json:"id"`
	EventID     uint64           `gorm:"not null;index:idx_attendance_event_scanned,priority:1" json:"event_id"`
	Roll        string           `gorm:"type:text;not null"                       json:"roll"`
	ScannedAt   time.Time        `gorm:"not null;index:idx_attendance_event_scanned,priority:2,sort:desc" json:"scanned_at"`
	ConductorID uint64           `gorm:"not null"                                 json:"conductor_id"`
	Status      AttendanceStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	HodID       *uint64          `gorm:"column:hod_id"                            json:"hod_id"`
	HodActionAt *time.Time       `gorm:"column:hod_action_at"                     json:"hod_action_at"`
	Version     int              `gorm:"not null;default:1"                       json:"version"`
}

// TableName table name
func (Attendance) TableName() string { return "attendance" }

// NewScan builds the initial Pending record for a confirmed scan
func NewScan(eventID uint64, roll string, conductorID uint64, at time.Time) *Attendance {
	return &Attendance{
		EventID:     eventID,
		Roll:        roll,
		ScannedAt:   at,
		ConductorID: conductorID,
		Status:      StatusPending,
		Version:     1,
	}
}

// Apply moves the record to status on behalf of hodID.
// Every state may move to every state; hod and timestamp are always stamped together.
func (a *Attendance) Apply(status AttendanceStatus, hodID uint64, at time.Time) {
	a.Status = status
	a.HodID = &hodID
	a.HodActionAt = &at
	a.Version++
}

// AttendanceRow ledger row joined with roster enrichment (nil when the roll is unknown)
type AttendanceRow struct {
	Attendance    `gorm:"embedded"`
	StudentName   *string `gorm:"column:student_name"`
	StudentBranch *string `gorm:"column:student_branch"`
}
