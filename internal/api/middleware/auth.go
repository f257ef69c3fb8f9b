package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

// context keys set by JWTAuth
const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextName     = "name"
	ContextEmail    = "email"
	ContextTokenJTI = "token_jti"
	ContextTokenExp = "token_exp"
)

// TokenRevocation answers whether a token id has been revoked
type TokenRevocation interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates the Bearer access token and loads the caller into the context.
// revoked may be nil; a failing revocation store lets the token through.
func JWTAuth(jwtMgr *jwt.Manager, revoked TokenRevocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "wrong token type")
			c.Abort()
			return
		}

		// tokens minted for a role outside the enum are not a session
		role, ok := model.ParseRole(claims.Role)
		if !ok {
			response.Unauthorized(c, 10002, "token carries an unknown role")
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && isRevoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Set(ContextName, claims.Name)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireOperation rejects callers the access policy does not allow to perform op
func RequireOperation(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := policy.Authorize(CallerFromContext(c), op)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, pkgerrors.ErrUnauthenticated):
			response.Unauthorized(c, 10002, "authentication required")
			c.Abort()
		default:
			response.Forbidden(c, 10003, "not allowed for this role")
			c.Abort()
		}
	}
}

// CallerFromContext rebuilds the authenticated caller, nil when JWTAuth did not run or failed
func CallerFromContext(c *gin.Context) *policy.Caller {
	uid, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := uid.(uint64)
	if !ok {
		return nil
	}
	role, _ := c.Get(ContextRole)
	r, ok := role.(model.Role)
	if !ok {
		return nil
	}
	return &policy.Caller{
		ID:    id,
		Name:  c.GetString(ContextName),
		Email: c.GetString(ContextEmail),
		Role:  r,
	}
}

// TokenFromContext id and expiry of the access token in use
func TokenFromContext(c *gin.Context) (string, time.Time) {
	return c.GetString(ContextTokenJTI), c.GetTime(ContextTokenExp)
}
