package model

import "strings"

// Role closed set of account roles
type Role string

const (
	RoleConductor Role = "conductor"
	RoleHOD       Role = "hod"
)

// ParseRole accepts exactly the known roles (case and surrounding space are ignored)
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleConductor, RoleHOD:
		return r, true
	default:
		return "", false
	}
}

// AttendanceStatus approval state of an attendance record
type AttendanceStatus string

const (
	StatusPending  AttendanceStatus = "Pending"
	StatusApproved AttendanceStatus = "Approved"
	StatusRejected AttendanceStatus = "Rejected"
)

// ParseAttendanceStatus matches the exact action strings posted by the HOD view
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch st := AttendanceStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}
