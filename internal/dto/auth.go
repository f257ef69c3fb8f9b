package dto

// ── auth ──

// RegisterRequest account registration
type RegisterRequest struct {
	Name            string `json:"name"             binding:"required,min=2,max=100"`
	Email           string `json:"email"            binding:"required,email"`
	Password        string `json:"password"         binding:"required,min=4,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role"             binding:"required"`
	Branch          string `json:"branch"           binding:"omitempty,max=50"`
}

// LoginRequest login
type LoginRequest struct {
	Email      string `json:"email"    binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest refresh; the cookie takes precedence when present
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse public account view
type UserResponse struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Branch *string `json:"branch,omitempty"`
}

// TokenResponse login/refresh result
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"`
	RememberMe   bool         `json:"-"`
	User         UserResponse `json:"user"`
}
