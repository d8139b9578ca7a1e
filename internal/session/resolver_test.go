package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
)

func TestResolveUserRole(t *testing.T) {
	dir := newFakeDirectory()
	id := uuid.New()
	dir.users[id] = &models.User{ID: id, Email: "bob@example.com", Role: models.RoleUser}

	res := NewResolver(dir).Resolve(context.Background(), identity.Identity{ID: id, Email: "bob@example.com"})
	require.Equal(t, models.RoleUser, res.Role)
	require.Nil(t, res.AgencyID)
}

func TestResolveAgencyRoleCarriesAgencyID(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()

	res := NewResolver(dir).Resolve(context.Background(), ident)
	require.Equal(t, models.RoleAgency, res.Role)
	require.NotNil(t, res.AgencyID)
	require.Equal(t, dir.agencies[ident.ID].ID, *res.AgencyID)
}

// An agency account with no agency row still resolves its role; only the
// agency id stays null.
func TestResolveAgencyProfileMissing(t *testing.T) {
	dir := newFakeDirectory()
	id := uuid.New()
	dir.users[id] = &models.User{ID: id, Email: "a@example.com", Role: models.RoleAgency}

	res := NewResolver(dir).Resolve(context.Background(), identity.Identity{ID: id})
	require.Equal(t, models.RoleAgency, res.Role)
	require.Nil(t, res.AgencyID)
}

// An identity with no account record resolves to the zero value rather than
// an error: the signup race leaves identities briefly recordless.
func TestResolveMissingAccountRecord(t *testing.T) {
	dir := newFakeDirectory()

	res := NewResolver(dir).Resolve(context.Background(), identity.Identity{ID: uuid.New()})
	require.Empty(t, res.Role)
	require.Nil(t, res.AgencyID)
}
