package dto

import (
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
)

// SignupRequest carries the shared fields plus the variant matching Role.
type SignupRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Fullname string        `json:"fullname"`
	Role     models.Role   `json:"role"`
	Agency   *AgencyFields `json:"agency,omitempty"`
	Admin    *AdminFields  `json:"admin,omitempty"`
}

type AgencyFields struct {
	AgencyName    string `json:"agency_name"`
	ContactNumber string `json:"contact_number"`
	Website       string `json:"website"`
	Description   string `json:"description"`
}

type AdminFields struct {
	AdminCode string `json:"admin_code"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateMeRequest struct {
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

type PasswordUpdateRequest struct {
	Password string `json:"password"`
}

type SigninResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	Fullname string      `json:"fullname,omitempty"`
	Avatar   string      `json:"avatar,omitempty"`
	Role     models.Role `json:"role"`
	AgencyID *uuid.UUID  `json:"agency_id,omitempty"`
}

type SessionResponse struct {
	SignedIn  bool          `json:"signed_in"`
	User      *UserResponse `json:"user,omitempty"`
	ExpiresAt string        `json:"expires_at,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
