package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "middleware-test-secret-0123456789",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  time.Hour,
		RefreshTokenTTLRemember: 24 * time.Hour,
	})
}

type stubRevocation struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocation) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

type stubLimiter struct {
	allowed int
	calls   int
	err     error
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	s.calls++
	return s.calls <= s.allowed, s.err
}

// bucketLimiter counts per key, like the redis sliding window
type bucketLimiter struct {
	hits map[string]int
}

func (b *bucketLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	b.hits[key]++
	return b.hits[key] <= limit, nil
}

// authedRouter echoes the resolved caller
func authedRouter(mgr *jwt.Manager, revoked TokenRevocation) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, revoked), func(c *gin.Context) {
		caller := CallerFromContext(c)
		if caller == nil {
			c.String(http.StatusInternalServerError, "no caller")
			return
		}
		c.String(http.StatusOK, "%d:%s", caller.ID, caller.Role)
	})
	return r
}

func get(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_ValidAccessToken(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken(jwt.Identity{UserID: 4, Name: "Hana", Role: "hod"})

	w := get(authedRouter(mgr, nil), "/me", token)
	if w.Code != http.StatusOK || w.Body.String() != "4:hod" {
		t.Errorf("got %d %q, want 200 4:hod", w.Code, w.Body.String())
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := testManager()
	refresh, _ := mgr.GenerateRefreshToken(jwt.Identity{UserID: 4, Role: "hod"}, false)
	badRole, _ := mgr.GenerateAccessToken(jwt.Identity{UserID: 4, Role: "admin"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-token"},
		{"refresh token", refresh},
		{"unknown role", badRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(authedRouter(mgr, nil), "/me", tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken(jwt.Identity{UserID: 1, Role: "conductor"})
	claims, _ := mgr.ParseToken(token)

	w := get(authedRouter(mgr, &stubRevocation{revoked: map[string]bool{claims.ID: true}}), "/me", token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", w.Code)
	}

	// a failing store lets the token through
	w = get(authedRouter(mgr, &stubRevocation{err: errors.New("redis down")}), "/me", token)
	if w.Code != http.StatusOK {
		t.Errorf("store failure: expected 200, got %d", w.Code)
	}
}

// ── RequireOperation ──

func TestRequireOperation(t *testing.T) {
	mgr := testManager()
	conductor, _ := mgr.GenerateAccessToken(jwt.Identity{UserID: 1, Role: "conductor"})
	hod, _ := mgr.GenerateAccessToken(jwt.Identity{UserID: 2, Role: "hod"})

	r := gin.New()
	r.GET("/hod-only", JWTAuth(mgr, nil), RequireOperation(policy.OpApplyHodAction), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/open", RequireOperation(policy.OpListEvents), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if w := get(r, "/hod-only", hod); w.Code != http.StatusNoContent {
		t.Errorf("hod: expected 204, got %d", w.Code)
	}
	if w := get(r, "/hod-only", conductor); w.Code != http.StatusForbidden {
		t.Errorf("conductor: expected 403, got %d", w.Code)
	}
	if w := get(r, "/open", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no auth: expected 401, got %d", w.Code)
	}
}

func TestCallerFromContext_WrongTypes(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CallerFromContext(c) != nil {
		t.Error("empty context must yield nil caller")
	}

	c.Set(ContextUserID, "1")
	c.Set(ContextRole, model.RoleHOD)
	if CallerFromContext(c) != nil {
		t.Error("string user id must yield nil caller")
	}

	c.Set(ContextUserID, uint64(1))
	c.Set(ContextRole, "hod")
	if CallerFromContext(c) != nil {
		t.Error("untyped role must yield nil caller")
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	limiter := &stubLimiter{allowed: 2}
	r := gin.New()
	r.GET("/x", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := get(r, "/x", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := get(r, "/x", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/nil", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/err", RateLimit(&stubLimiter{err: errors.New("down")}, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/nil", "/err", "/err"} {
		if w := get(r, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestRateLimit_AuthenticatedCallersHaveOwnBuckets(t *testing.T) {
	mgr := testManager()
	limiter := &bucketLimiter{hits: map[string]int{}}
	r := gin.New()
	r.POST("/scan/add", JWTAuth(mgr, nil), RateLimit(limiter, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/scan/add", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.RemoteAddr = "203.0.113.7:4000"
		r.ServeHTTP(w, req)
		return w.Code
	}

	first, err := mgr.GenerateAccessToken(jwt.Identity{UserID: 1, Role: string(model.RoleConductor)})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	second, err := mgr.GenerateAccessToken(jwt.Identity{UserID: 2, Role: string(model.RoleConductor)})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if code := post(first); code != http.StatusOK {
		t.Fatalf("first conductor: expected 200, got %d", code)
	}
	// same client IP, different caller
	if code := post(second); code != http.StatusOK {
		t.Errorf("second conductor: expected 200, got %d", code)
	}
	if code := post(first); code != http.StatusTooManyRequests {
		t.Errorf("first conductor again: expected 429, got %d", code)
	}
	if _, ok := limiter.hits["rate_limit:user:1:/scan/add"]; !ok {
		t.Errorf("expected a per-user key, got %v", limiter.hits)
	}
}

// ── BodyLimit / RequestID ──

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("request id = %q, want abc", got)
	}

	w = get(r, "/x", "")
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("generated request id = %q", got)
	}
}

func TestRequestID_RejectsUnprintable(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	for _, rid := range []string{"has space", "tab\tid", strings.Repeat("a", 65)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", rid)
		r.ServeHTTP(w, req)
		got := w.Header().Get("X-Request-ID")
		if got == rid || len(got) != 36 {
			t.Errorf("id %q should be replaced, got %q", rid, got)
		}
		if w.Body.String() != got {
			t.Errorf("context id %q differs from header %q", w.Body.String(), got)
		}
	}
}

// ── CORS / SecurityHeaders ──

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://attend.example.edu/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://attend.example.edu")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://attend.example.edu" {
		t.Errorf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("expose headers = %q, want Content-Disposition", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://attend.example.edu")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("preflight: code=%d methods=%q", w.Code, w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestSecurityHeaders_NoStoreUnlessOverridden(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ledger", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/badge", func(c *gin.Context) {
		c.Header("Cache-Control", "private, max-age=86400")
		c.Status(http.StatusOK)
	})

	if got := get(r, "/ledger", "").Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("ledger Cache-Control = %q, want no-store", got)
	}
	if got := get(r, "/badge", "").Header().Get("Cache-Control"); got != "private, max-age=86400" {
		t.Errorf("badge Cache-Control = %q", got)
	}
	if got := get(r, "/ledger", "").Header().Get("Permissions-Policy"); !strings.Contains(got, "camera=(self)") {
		t.Errorf("Permissions-Policy = %q", got)
	}
}
