package handler

import (
	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
)

// Handler aggregates every HTTP handler
type Handler struct {
	Auth    *AuthHandler
	Event   *EventHandler
	Scan    *ScanHandler
	Hod     *HodHandler
	Student *StudentHandler
}

// NewHandler wires handlers over svc
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, &cfg.Auth),
		Event:   NewEventHandler(svc.Event, svc.Attendance, svc.Export),
		Scan:    NewScanHandler(svc.Roster, svc.Attendance),
		Hod:     NewHodHandler(svc.Attendance),
		Student: NewStudentHandler(svc.Roster),
	}
}
