package dto

// ── scanning ──

// ScanLookupRequest roster lookup from the scanner
type ScanLookupRequest struct {
	Roll string `json:"roll"`
}

// ScanLookupResponse roster enrichment; name/branch are null for unknown rolls
type ScanLookupResponse struct {
	Roll   string  `json:"roll"`
	Name   *string `json:"name"`
	Branch *string `json:"branch"`
}

// AddScanRequest confirmed scan
type AddScanRequest struct {
	EventID uint64 `json:"event_id"`
	Roll    string `json:"roll"`
}

// AddScanResponse confirmed scan result
type AddScanResponse struct {
	OK        bool   `json:"ok"`
	ID        uint64 `json:"id"`
	ScannedAt string `json:"scanned_at"`
}

// ── hod ──

// HodActionRequest approval action. Version, when set, makes the update a compare-and-swap.
type HodActionRequest struct {
	AttendanceID uint64 `json:"attendance_id" binding:"required"`
	Action       string `json:"action"`
	Version      *int   `json:"version"`
}

// HodActionResponse action result
type HodActionResponse struct {
	OK     bool               `json:"ok"`
	Record AttendanceResponse `json:"record"`
}

// AttendanceResponse ledger row
type AttendanceResponse struct {
	ID            uint64  `json:"id"`
	EventID       uint64  `json:"event_id"`
	Roll          string  `json:"roll"`
	ScannedAt     string  `json:"scanned_at"`
	ConductorID   uint64  `json:"conductor_id"`
	Status        string  `json:"status"`
	HodID         *uint64 `json:"hod_id"`
	HodActionAt   *string `json:"hod_action_at"`
	Version       int     `json:"version"`
	StudentName   *string `json:"student_name"`
	StudentBranch *string `json:"student_branch"`
}
