package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

var (
	ErrIdentityCreationFailed = errors.New("auth: identity creation failed")
	ErrProfileInsertFailed    = errors.New("auth: profile insert failed")
	ErrInvalidAdminCode       = errors.New("auth: invalid admin secret code")
	ErrInvalidCredentials     = errors.New("auth: invalid email or password")
	ErrRoleNotFound           = errors.New("auth: no account record for this identity")
	ErrAgencyPendingApproval  = errors.New("auth: agency account is pending admin approval")
	ErrInvalidSignupRole      = errors.New("auth: invalid signup role")
)

// AgencySignup carries the agency-only signup fields.
type AgencySignup struct {
	AgencyName    string
	ContactNumber string
	Website       string
	Description   string
}

// AdminSignup carries the admin-only signup fields.
type AdminSignup struct {
	AdminCode string
}

// SignupRequest is a role-tagged signup: exactly the variant matching Role
// must be populated.
type SignupRequest struct {
	Email    string
	Password string
	Fullname string
	Role     models.Role
	Agency   *AgencySignup
	Admin    *AdminSignup
}

// SigninResult carries the session minted for this call plus the resolved
// role. Callers must use Session rather than the client's current-session
// handle: concurrent signins on a shared client overwrite the handle.
type SigninResult struct {
	Session  *identity.Session
	Role     models.Role
	AgencyID *uuid.UUID
}

// AuthStore is the write side the signup/signin flows need.
type AuthStore interface {
	CreateAccount(ctx context.Context, user *models.User) error
	CreateAgency(ctx context.Context, agency *models.Agency) error
	CreateAdminProfile(ctx context.Context, profile *models.AdminProfile) error
	AgencyByUserID(ctx context.Context, userID uuid.UUID) (*models.Agency, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, avatar string) error
	DeleteAccountData(ctx context.Context, userID uuid.UUID) error
}

// AuthService orchestrates the identity provider, the account tables and the
// role resolver for signup, signin and account deletion.
type AuthService struct {
	client    identity.Client
	store     AuthStore
	resolver  *session.Resolver
	adminCode string
}

func NewAuthService(client identity.Client, store AuthStore, resolver *session.Resolver, adminCode string) *AuthService {
	return &AuthService{
		client:    client,
		store:     store,
		resolver:  resolver,
		adminCode: adminCode,
	}
}

// Signup creates identity + account record + role profile as one logical
// unit. The admin code is validated before anything is created, so a wrong
// code leaves no artifacts at all. Signup never establishes a session; the
// caller signs in separately.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	if !req.Role.Valid() {
		return ErrInvalidSignupRole
	}
	if req.Fullname == "" {
		return fmt.Errorf("auth: fullname is required")
	}
	if req.Role == models.RoleAgency && (req.Agency == nil || req.Agency.AgencyName == "") {
		return fmt.Errorf("auth: agency name is required for agency signup")
	}
	if req.Role == models.RoleAdmin {
		if req.Admin == nil || req.Admin.AdminCode != s.adminCode {
			return ErrInvalidAdminCode
		}
	}

	ident, err := s.client.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentityCreationFailed, err)
	}

	account := models.User{
		ID:       ident.ID,
		Email:    req.Email,
		Fullname: req.Fullname,
		Role:     req.Role,
	}
	if err := s.store.CreateAccount(ctx, &account); err != nil {
		// No compensating delete of the identity; the orphan is logged so it
		// lands in system_logs for reconciliation.
		slog.Error("account insert failed after identity creation",
			"user_id", ident.ID.String(), "action", "signup", "error", err.Error())
		return fmt.Errorf("%w: %w", ErrProfileInsertFailed, err)
	}

	switch req.Role {
	case models.RoleAgency:
		agency := models.Agency{
			UserID:        ident.ID,
			AgencyName:    req.Agency.AgencyName,
			ContactNumber: req.Agency.ContactNumber,
			Website:       req.Agency.Website,
			Description:   orDefault(req.Agency.Description, "N/A"),
			Status:        models.AgencyStatusPending,
		}
		if err := s.store.CreateAgency(ctx, &agency); err != nil {
			slog.Error("agency profile insert failed",
				"user_id", ident.ID.String(), "action", "signup", "error", err.Error())
			return fmt.Errorf("%w: %w", ErrProfileInsertFailed, err)
		}
	case models.RoleAdmin:
		profile := models.AdminProfile{
			UserID:    ident.ID,
			AdminCode: req.Admin.AdminCode,
			Email:     req.Email,
		}
		if err := s.store.CreateAdminProfile(ctx, &profile); err != nil {
			slog.Error("admin profile insert failed",
				"user_id", ident.ID.String(), "action", "signup", "error", err.Error())
			return fmt.Errorf("%w: %w", ErrProfileInsertFailed, err)
		}
	}

	return nil
}

// Signin authenticates, resolves the role and enforces the agency approval
// gate.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	sess, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	res := s.resolver.Resolve(ctx, sess.Identity)
	if res.Role == "" {
		return nil, ErrRoleNotFound
	}

	if res.Role == models.RoleAgency {
		agency, err := s.store.AgencyByUserID(ctx, sess.Identity.ID)
		if err != nil || agency.Status != models.AgencyStatusApproved {
			// Authenticated but not yet authorized to use the app: revoke the
			// tokens just minted. Only this identity's tokens are touched.
			if soErr := s.client.SignOutUser(ctx, sess.Identity.ID); soErr != nil {
				slog.Warn("sign-out after pending-approval gate failed", "error", soErr.Error())
			}
			return nil, ErrAgencyPendingApproval
		}
	}

	return &SigninResult{
		Session:  sess,
		Role:     res.Role,
		AgencyID: res.AgencyID,
	}, nil
}

// UpdateProfile changes the account-owned profile fields. Role and email are
// immutable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullname, avatar string) error {
	if fullname == "" {
		return fmt.Errorf("auth: fullname is required")
	}
	return s.store.UpdateAccount(ctx, userID, fullname, avatar)
}

// ChangePassword replaces the credential through the identity provider.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	return s.client.UpdatePassword(ctx, userID, newPassword)
}

// DeleteAccount removes the user's application rows and then the identity.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteAccountData(ctx, userID); err != nil {
		return fmt.Errorf("auth: delete account data: %w", err)
	}
	return s.client.DeleteUser(ctx, userID)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
