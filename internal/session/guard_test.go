package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
)

func TestDecide(t *testing.T) {
	signedIn := func(role models.Role) State {
		return State{Identity: &identity.Identity{}, Role: role}
	}

	tests := []struct {
		name    string
		state   State
		allowed []models.Role
		want    Decision
	}{
		{
			name:    "loading suspends even with identity",
			state:   State{Identity: &identity.Identity{}, Role: models.RoleAdmin, Loading: true},
			allowed: []models.Role{models.RoleAdmin},
			want:    Suspend,
		},
		{
			name:    "signed out redirects",
			state:   State{},
			allowed: []models.Role{models.RoleUser},
			want:    RedirectSignIn,
		},
		{
			name:    "role on allow list",
			state:   signedIn(models.RoleAgency),
			allowed: []models.Role{models.RoleAgency, models.RoleAdmin},
			want:    Allow,
		},
		{
			name:    "role off allow list redirects",
			state:   signedIn(models.RoleUser),
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectSignIn,
		},
		{
			name:    "unresolved role redirects",
			state:   signedIn(""),
			allowed: []models.Role{models.RoleUser},
			want:    RedirectSignIn,
		},
		{
			name:    "empty allow list redirects everyone",
			state:   signedIn(models.RoleAdmin),
			allowed: nil,
			want:    RedirectSignIn,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Decide(tc.state, tc.allowed...))
		})
	}
}

func TestDecideIsStateless(t *testing.T) {
	st := State{Identity: &identity.Identity{}, Role: models.RoleUser}
	first := Decide(st, models.RoleUser)
	second := Decide(st, models.RoleUser)
	require.Equal(t, first, second)
	require.Equal(t, Allow, second)
}
