package dto

// ── events ──

// CreateEventRequest new event. When accepts RFC3339 or an HTML datetime-local value.
type CreateEventRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Location    string `json:"location"    binding:"omitempty,max=200"`
	When        string `json:"when"`
}

// EventResponse event view
type EventResponse struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	When        *string `json:"when,omitempty"`
	CreatorID   uint64  `json:"creator_id"`
	CreatedAt   string  `json:"created_at"`
}

// EventDetailResponse event with its ledger
type EventDetailResponse struct {
	Event      EventResponse        `json:"event"`
	Attendance []AttendanceResponse `json:"attendance"`
}
