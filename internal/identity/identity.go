package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("identity: email already registered")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrInvalidToken       = errors.New("identity: invalid or expired refresh token")
	ErrNoSession          = errors.New("identity: no active session")
	ErrWeakPassword       = errors.New("identity: password must be at least 8 characters")
)

// Identity is the authenticated principal issued by the provider. The
// application never mints or validates identities itself; it only consumes
// them through this package.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Session holds the token pair for a signed-in identity.
type Session struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Client is the identity-provider contract the rest of the application
// consumes. A client instance carries the current session state and emits an
// auth-state notification on every sign-in and sign-out.
type Client interface {
	// SignUp registers credentials and returns the new identity. It does not
	// establish a session.
	SignUp(ctx context.Context, email, password string) (*Identity, error)

	// SignInWithPassword authenticates and makes the resulting session the
	// client's current session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignOut revokes the current session's refresh token and clears local
	// session state. Calling it with no active session is a no-op.
	SignOut(ctx context.Context) error

	// SignOutUser revokes every refresh token issued to the identity. Unlike
	// SignOut it does not go through the current-session handle, so one user
	// signing out never touches another user's tokens.
	SignOutUser(ctx context.Context, id uuid.UUID) error

	// Refresh rotates a refresh token: the old token is revoked and a fresh
	// session becomes the current one. Reuse of a rotated token fails with
	// ErrInvalidToken.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)

	// GetUser returns the identity of the current session, or ErrNoSession.
	GetUser(ctx context.Context) (*Identity, error)

	// GetSession returns the current session, or nil when signed out. The
	// current-session handle is for single-user consumers such as the session
	// store; request-scoped flows must use the session returned by the call
	// that minted it.
	GetSession() *Session

	// OnAuthStateChange registers a callback fired with the new identity on
	// sign-in and nil on sign-out. The returned func unregisters it.
	OnAuthStateChange(fn func(*Identity)) (unsubscribe func())

	// UpdatePassword replaces the identity's credential. The caller is already
	// authenticated by bearer token; no current password is required.
	UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error

	// DeleteUser removes an identity and its refresh tokens. Used by the
	// account-deletion flow after the application rows are gone.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
