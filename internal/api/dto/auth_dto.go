package dto

import (
	"time"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// AuthResponse carries the token binding the client to the session.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse mirrors the auth state for clients.
type SessionResponse struct {
	Status          domain.AuthStatus `json:"status"`
	IsAuthenticated bool              `json:"is_authenticated"`
	Loading         bool              `json:"loading"`
	Error           string            `json:"error,omitempty"`
	Session         *domain.Session   `json:"session"`
	Home            string            `json:"home,omitempty"`
}

// NewSessionResponse converts a snapshot.
func NewSessionResponse(state domain.AuthState) SessionResponse {
	resp := SessionResponse{
		Status:          state.Status(),
		IsAuthenticated: state.IsAuthenticated(),
		Loading:         state.Loading,
		Error:           state.Error,
		Session:         state.Session,
	}
	if state.Session != nil {
		resp.Home = state.Session.Role.HomePath()
	}
	return resp
}
