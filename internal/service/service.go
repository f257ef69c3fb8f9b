package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/metrics"
)

// TokenBlacklist revoked token store (redis in production). May be nil.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service aggregates every service
type Service struct {
	Auth       AuthService
	Roster     RosterService
	Event      EventService
	Attendance AttendanceService
	Export     ExportService
}

// NewService wires the services over repo
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Roster:     NewRosterService(repo, logger),
		Event:      NewEventService(repo, logger),
		Attendance: NewAttendanceService(repo, m, logger),
		Export:     NewExportService(repo, logger),
	}
}

// utcNow default clock of the services
func utcNow() time.Time {
	return time.Now().UTC()
}
