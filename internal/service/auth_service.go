package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
)

// ── auth errors ──

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRefreshTokenInvalid = fmt.Errorf("%w: refresh token invalid or expired", pkgerrors.ErrUnauthenticated)
	ErrInvalidRole         = fmt.Errorf("%w: role must be conductor or hod", pkgerrors.ErrInvalidInput)
	ErrPasswordMismatch    = fmt.Errorf("%w: passwords do not match", pkgerrors.ErrInvalidInput)
	ErrEmailExists         = fmt.Errorf("%w: email already registered", pkgerrors.ErrInvalidInput)
	ErrUserNotFound        = fmt.Errorf("%w: user", pkgerrors.ErrNotFound)
)

// AuthService identity store: registration, login and token lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, caller *policy.Caller) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout and refresh rotation are best-effort.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if branch := strings.TrimSpace(req.Branch); branch != "" {
		user.Branch = &branch
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("role", string(role)))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user, req.RememberMe)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenInvalid
	}
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshTokenInvalid
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed, accepting refresh token", zap.Error(err))
		} else if revoked {
			return nil, ErrRefreshTokenInvalid
		}
	}

	// role is re-read so the new access token reflects the stored account
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		s.logger.Error("lookup user failed", zap.Uint64("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user, claims.RememberMe)
	if err != nil {
		return nil, err
	}

	// rotate: the consumed refresh token cannot be replayed
	if s.blacklist != nil && claims.ExpiresAt != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
			s.logger.Warn("revoke consumed refresh token failed", zap.Error(err))
		}
	}

	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, expiresAt.Sub(s.now())); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, caller *policy.Caller) (*dto.UserResponse, error) {
	if caller == nil {
		return nil, pkgerrors.ErrUnauthenticated
	}
	user, err := s.repo.User.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Uint64("user_id", caller.ID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ── helpers ──

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	id := jwt.Identity{UserID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)}

	accessToken, err := s.jwtMgr.GenerateAccessToken(id)
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(id, rememberMe)
	if err != nil {
		s.logger.Error("issue refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		RememberMe:   rememberMe,
		User:         toUserResponse(user),
	}, nil
}
