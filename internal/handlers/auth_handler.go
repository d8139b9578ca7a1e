package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/config"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

type AuthHandler struct {
	authService *services.AuthService
	client      identity.Client
	resolver    *session.Resolver
	dir         session.Directory
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, client identity.Client, resolver *session.Resolver, dir session.Directory, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, client: client, resolver: resolver, dir: dir, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	signup := services.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
		Role:     req.Role,
	}
	if req.Agency != nil {
		signup.Agency = &services.AgencySignup{
			AgencyName:    req.Agency.AgencyName,
			ContactNumber: req.Agency.ContactNumber,
			Website:       req.Agency.Website,
			Description:   req.Agency.Description,
		}
	}
	if req.Admin != nil {
		signup.Admin = &services.AdminSignup{AdminCode: req.Admin.AdminCode}
	}

	if err := h.authService.Signup(c.UserContext(), signup); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAdminCode):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid admin secret code",
			})
		case errors.Is(err, identity.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Email already registered",
			})
		case errors.Is(err, services.ErrProfileInsertFailed):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Signup failed. Please try again.",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	// Signup does not sign in; the caller authenticates separately.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Signup successful. Please sign in."})
}

func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.authService.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid email or password",
			})
		case errors.Is(err, services.ErrAgencyPendingApproval):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Your agency account is pending approval by an admin.",
			})
		case errors.Is(err, services.ErrRoleNotFound):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "No account record exists for this identity",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
	}

	// The tokens come from this call's result, never from the client's
	// current-session handle: a concurrent signin would have replaced it.
	return c.JSON(dto.SigninResponse{
		AccessToken:  result.Session.AccessToken,
		RefreshToken: result.Session.RefreshToken,
		User: dto.UserResponse{
			ID:       result.Session.Identity.ID,
			Email:    result.Session.Identity.Email,
			Role:     result.Role,
			AgencyID: result.AgencyID,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "refresh_token is required",
		})
	}

	sess, err := h.client.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid or expired refresh token",
		})
	}

	res := h.resolver.Resolve(c.UserContext(), sess.Identity)
	return c.JSON(dto.SigninResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User: dto.UserResponse{
			ID:       sess.Identity.ID,
			Email:    sess.Identity.Email,
			Role:     res.Role,
			AgencyID: res.AgencyID,
		},
	})
}

// Logout revokes every refresh token of the bearer. It deliberately keys off
// the presented token, not the client's current-session handle.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.client.SignOutUser(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to logout",
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	account, err := h.dir.AccountByID(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Account not found",
		})
	}

	res := h.resolver.Resolve(c.UserContext(), identity.Identity{ID: account.ID, Email: account.Email})
	return c.JSON(dto.UserResponse{
		ID:       account.ID,
		Email:    account.Email,
		Fullname: account.Fullname,
		Avatar:   account.Avatar,
		Role:     account.Role,
		AgencyID: res.AgencyID,
	})
}

// UpdateMe updates the bearer's own account profile. Email and role stay as
// they were at signup.
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil || req.Fullname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "fullname is required",
		})
	}

	if err := h.authService.UpdateProfile(c.UserContext(), userID, req.Fullname, req.Avatar); err != nil {
		if errors.Is(err, session.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update profile",
		})
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.PasswordUpdateRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "password is required",
		})
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, req.Password); err != nil {
		if errors.Is(err, identity.ErrWeakPassword) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Password must be at least 8 characters",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update password",
		})
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// Session reports the state of the token presented in the Authorization
// header. A missing or invalid bearer is a signed-out answer, not an error,
// so anonymous clients can poll it.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims, ok := h.bearerClaims(c)
	if !ok {
		return c.JSON(dto.SessionResponse{SignedIn: false})
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return c.JSON(dto.SessionResponse{SignedIn: false})
	}
	email, _ := claims["email"].(string)

	res := h.resolver.Resolve(c.UserContext(), identity.Identity{ID: userID, Email: email})
	if res.Role == "" {
		return c.JSON(dto.SessionResponse{SignedIn: false})
	}

	resp := dto.SessionResponse{
		SignedIn: true,
		User: &dto.UserResponse{
			ID:       userID,
			Email:    email,
			Role:     res.Role,
			AgencyID: res.AgencyID,
		},
	}
	if exp, ok := claims["exp"].(float64); ok {
		resp.ExpiresAt = time.Unix(int64(exp), 0).UTC().Format(time.RFC3339)
	}
	return c.JSON(resp)
}

// bearerClaims parses and verifies the Authorization header. The route is
// public, so verification happens here instead of in the JWT middleware.
func (h *AuthHandler) bearerClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.authService.DeleteAccount(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete account",
		})
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
