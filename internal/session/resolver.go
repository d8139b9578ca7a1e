package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound means the identity has no account record yet. Not
	// fatal: signup races can leave an identity briefly without one.
	ErrProfileNotFound = errors.New("session: account record not found")
	// ErrAgencyProfileMissing means an agency account has no agency row.
	ErrAgencyProfileMissing = errors.New("session: agency profile missing")
)

// Directory is the read side the resolver needs from the relational store.
type Directory interface {
	AccountByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AgencyByUserID(ctx context.Context, userID uuid.UUID) (*models.Agency, error)
}

// Resolution maps an identity to its role and role-specific attributes.
// Role is empty when no account record exists.
type Resolution struct {
	Role     models.Role
	AgencyID *uuid.UUID
}

// Resolver turns identities into resolutions. It never fails past its own
// boundary: lookups that miss degrade to null fields so the session store
// always lands in a well-defined state.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve looks up the account record by the identity's id (the key used at
// insert time; email is mutable and not trusted here). When the account is an
// agency, the agency profile is fetched for its id; a missing agency profile
// is a warning, and agency-only features stay gated until it resolves.
func (r *Resolver) Resolve(ctx context.Context, ident identity.Identity) Resolution {
	account, err := r.dir.AccountByID(ctx, ident.ID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			slog.Error("account lookup failed", "user_id", ident.ID.String(), "error", err.Error())
		}
		return Resolution{}
	}

	res := Resolution{Role: account.Role}
	if account.Role != models.RoleAgency {
		return res
	}

	agency, err := r.dir.AgencyByUserID(ctx, ident.ID)
	if err != nil {
		slog.Warn("agency profile missing for agency account", "user_id", ident.ID.String())
		return res
	}
	agencyID := agency.ID
	res.AgencyID = &agencyID
	return res
}

// GormDirectory implements Directory over the application database.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) AccountByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) AgencyByUserID(ctx context.Context, userID uuid.UUID) (*models.Agency, error) {
	var agency models.Agency
	if err := d.db.WithContext(ctx).First(&agency, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyProfileMissing
		}
		return nil, err
	}
	return &agency, nil
}
