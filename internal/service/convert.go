package service

import (
	"time"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(dto.TimeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Branch: u.Branch,
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		When:        formatTimePtr(e.WhenAt),
		CreatorID:   e.CreatorID,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:          a.ID,
		EventID:     a.EventID,
		Roll:        a.Roll,
		ScannedAt:   formatTime(a.ScannedAt),
		ConductorID: a.ConductorID,
		Status:      string(a.Status),
		HodID:       a.HodID,
		HodActionAt: formatTimePtr(a.HodActionAt),
		Version:     a.Version,
	}
}

func toAttendanceRowResponses(rows []model.AttendanceRow) []dto.AttendanceResponse {
	result := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		r := toAttendanceResponse(&rows[i].Attendance)
		r.StudentName = rows[i].StudentName
		r.StudentBranch = rows[i].StudentBranch
		result = append(result, r)
	}
	return result
}
