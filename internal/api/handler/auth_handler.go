package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/api/middleware"
	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler identity endpoints
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.AuthConfig
}

// NewAuthHandler creates an AuthHandler; cfg may be nil (session cookie, not Secure)
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	if cfg == nil {
		cfg = &config.AuthConfig{}
	}
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Register creates an account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "validation failed", err.Error())
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, user)
}

// Login issues tokens; the refresh token is also set as an HttpOnly cookie
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	h.setRefreshCookie(c, result)
	response.OK(c, result)
}

// RefreshToken rotates the refresh token; the cookie wins over the body
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var req dto.RefreshTokenRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		handleError(c, err)
		return
	}

	h.setRefreshCookie(c, result)
	response.OK(c, result)
}

// Logout revokes the access token in use and drops the refresh cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := middleware.TokenFromContext(c)
	if jti != "" {
		if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
			handleError(c, err)
			return
		}
	}
	h.clearRefreshCookie(c)
	response.OK(c, nil)
}

// Me current account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), callerOf(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, user)
}

// ── cookie helpers ──

func (h *AuthHandler) setRefreshCookie(c *gin.Context, tokens *dto.TokenResponse) {
	maxAge := 0
	if tokens.RememberMe {
		maxAge = int(h.cfg.RefreshTokenTTLRemember.Seconds())
	}
	c.SetSameSite(parseSameSite(h.cfg.Cookie.SameSite))
	c.SetCookie(refreshCookieName, tokens.RefreshToken, maxAge, refreshCookiePath, h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cfg.Cookie.SameSite))
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
