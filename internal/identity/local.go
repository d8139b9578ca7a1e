package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/config"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Local is the Postgres-backed identity provider. Credentials live in the
// identities table, owned exclusively by this package; access tokens are
// HS256 JWTs and refresh tokens are stored as SHA-256 hashes.
type Local struct {
	db  *gorm.DB
	cfg *config.Config

	mu      sync.Mutex
	current *Session
	subs    map[int]func(*Identity)
	nextSub int
}

func NewLocal(db *gorm.DB, cfg *config.Config) *Local {
	return &Local{
		db:   db,
		cfg:  cfg,
		subs: make(map[int]func(*Identity)),
	}
}

func (l *Local) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	if email == "" {
		return nil, fmt.Errorf("identity: email is required")
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}

	record := models.Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	// Uniqueness is enforced by the email index, not a pre-check, so two
	// concurrent signups for one email both surface ErrEmailTaken.
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("identity: create identity: %w", err)
	}

	return &Identity{ID: record.ID, Email: record.Email}, nil
}

func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var record models.Identity
	if err := l.db.WithContext(ctx).Where("email = ?", email).First(&record).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := l.mintSession(ctx, &record)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = sess
	l.mu.Unlock()

	ident := sess.Identity
	l.notify(&ident)
	return sess, nil
}

func (l *Local) SignOut(ctx context.Context) error {
	l.mu.Lock()
	sess := l.current
	l.current = nil
	l.mu.Unlock()

	if sess == nil {
		return nil
	}

	err := l.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(sess.RefreshToken)).
		Update("revoked", true).Error

	l.notify(nil)
	return err
}

// SignOutUser revokes every refresh token issued to the identity. It never
// reads the current-session handle, so server-side flows can sign out one
// user without touching anyone else's tokens.
func (l *Local) SignOutUser(ctx context.Context, id uuid.UUID) error {
	if err := l.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("identity_id = ? AND revoked = false", id).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("identity: revoke refresh tokens: %w", err)
	}

	l.mu.Lock()
	cleared := l.current != nil && l.current.Identity.ID == id
	if cleared {
		l.current = nil
	}
	l.mu.Unlock()

	if cleared {
		l.notify(nil)
	}
	return nil
}

func (l *Local) GetUser(ctx context.Context) (*Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil, ErrNoSession
	}
	if time.Now().After(l.current.ExpiresAt) {
		return nil, ErrNoSession
	}
	ident := l.current.Identity
	return &ident, nil
}

func (l *Local) GetSession() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	sess := *l.current
	return &sess
}

func (l *Local) OnAuthStateChange(fn func(*Identity)) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Refresh rotates a refresh token: the presented token is revoked whether or
// not a new pair is minted.
func (l *Local) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	tokenHash := hashToken(refreshToken)

	var stored models.RefreshToken
	if err := l.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Single use: the rotation is off unless the revoke actually committed.
	if err := l.db.WithContext(ctx).Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, fmt.Errorf("identity: revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var record models.Identity
	if err := l.db.WithContext(ctx).First(&record, "id = ?", stored.IdentityID).Error; err != nil {
		return nil, fmt.Errorf("identity: identity not found: %w", err)
	}

	sess, err := l.mintSession(ctx, &record)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = sess
	l.mu.Unlock()
	return sess, nil
}

func (l *Local) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("identity: hash password: %w", err)
	}

	result := l.db.WithContext(ctx).Model(&models.Identity{}).
		Where("id = ?", id).
		Update("password_hash", string(hash))
	if result.Error != nil {
		return fmt.Errorf("identity: update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("identity: identity %s not found", id)
	}
	return nil
}

func (l *Local) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identity_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Identity{}, "id = ?", id).Error
	})
}

func (l *Local) mintSession(ctx context.Context, record *models.Identity) (*Session, error) {
	expiresAt := time.Now().Add(l.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":   record.ID.String(),
		"email": record.Email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(l.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("identity: sign access token: %w", err)
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, fmt.Errorf("identity: generate refresh token: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	stored := models.RefreshToken{
		ID:         uuid.New(),
		IdentityID: record.ID,
		TokenHash:  hashToken(rawToken),
		ExpiresAt:  time.Now().Add(l.cfg.JWTRefreshExpiry),
	}
	if err := l.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("identity: store refresh token: %w", err)
	}

	return &Session{
		Identity:     Identity{ID: record.ID, Email: record.Email},
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// notify fires auth-state callbacks outside the lock; callback order is
// unspecified.
func (l *Local) notify(ident *Identity) {
	l.mu.Lock()
	fns := make([]func(*Identity), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
