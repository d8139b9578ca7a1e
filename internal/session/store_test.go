package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
)

type fakeClient struct {
	mu         sync.Mutex
	ident      *identity.Identity
	subs       []func(*identity.Identity)
	signOutErr error
	signOuts   int
	unsubs     int
}

func (f *fakeClient) SignUp(_ context.Context, _, _ string) (*identity.Identity, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) SignInWithPassword(_ context.Context, _, _ string) (*identity.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Refresh(_ context.Context, _ string) (*identity.Session, error) {
	return nil, identity.ErrInvalidToken
}

func (f *fakeClient) SignOut(_ context.Context) error {
	f.mu.Lock()
	f.signOuts++
	f.ident = nil
	f.mu.Unlock()
	return f.signOutErr
}

func (f *fakeClient) SignOutUser(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeClient) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return errors.New("not implemented")
}

func (f *fakeClient) GetUser(_ context.Context) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ident == nil {
		return nil, identity.ErrNoSession
	}
	return f.ident, nil
}

func (f *fakeClient) GetSession() *identity.Session { return nil }

func (f *fakeClient) OnAuthStateChange(fn func(*identity.Identity)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubs++
		f.mu.Unlock()
	}
}

func (f *fakeClient) DeleteUser(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeClient) emit(ident *identity.Identity) {
	f.mu.Lock()
	subs := append([]func(*identity.Identity){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ident)
	}
}

type fakeDirectory struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	agencies map[uuid.UUID]*models.Agency

	// gate, when set, blocks the next AccountByID until closed; entered is
	// closed once the lookup has started.
	gate    chan struct{}
	entered chan struct{}
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:    make(map[uuid.UUID]*models.User),
		agencies: make(map[uuid.UUID]*models.Agency),
	}
}

func (d *fakeDirectory) AccountByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	d.mu.Lock()
	gate, entered := d.gate, d.entered
	d.gate, d.entered = nil, nil
	d.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return user, nil
}

func (d *fakeDirectory) AgencyByUserID(_ context.Context, userID uuid.UUID) (*models.Agency, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	agency, ok := d.agencies[userID]
	if !ok {
		return nil, ErrAgencyProfileMissing
	}
	return agency, nil
}

func (d *fakeDirectory) addAgencyAccount() identity.Identity {
	id := uuid.New()
	agencyID := uuid.New()
	d.mu.Lock()
	d.users[id] = &models.User{ID: id, Email: "agency@example.com", Role: models.RoleAgency}
	d.agencies[id] = &models.Agency{ID: agencyID, UserID: id, Status: models.AgencyStatusApproved}
	d.mu.Unlock()
	return identity.Identity{ID: id, Email: "agency@example.com"}
}

func TestStoreInitializeSignedOut(t *testing.T) {
	fc := &fakeClient{}
	store := NewStore(fc, NewResolver(newFakeDirectory()))

	require.True(t, store.Snapshot().Loading)

	store.Initialize(context.Background())

	st := store.Snapshot()
	require.False(t, st.Loading)
	require.False(t, st.SignedIn())
	require.Empty(t, st.Role)
	require.Nil(t, st.AgencyID)
}

func TestStoreInitializeResolvesRole(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()
	fc := &fakeClient{ident: &ident}
	store := NewStore(fc, NewResolver(dir))

	store.Initialize(context.Background())

	st := store.Snapshot()
	require.False(t, st.Loading)
	require.True(t, st.SignedIn())
	require.Equal(t, ident.ID, st.Identity.ID)
	require.Equal(t, models.RoleAgency, st.Role)
	require.NotNil(t, st.AgencyID)
}

func TestStoreAuthChangeUpdatesState(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()
	fc := &fakeClient{}
	store := NewStore(fc, NewResolver(dir))
	store.Initialize(context.Background())

	var mu sync.Mutex
	var seen []State
	store.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	fc.emit(&ident)
	require.True(t, store.Snapshot().SignedIn())
	require.Equal(t, models.RoleAgency, store.Snapshot().Role)

	fc.emit(nil)
	st := store.Snapshot()
	require.False(t, st.SignedIn())
	require.Empty(t, st.Role)
	require.Nil(t, st.AgencyID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	require.True(t, seen[0].SignedIn())
	require.False(t, seen[1].SignedIn())
}

// A resolution pass that completes after a newer pass has begun must be
// discarded, so a slow sign-in lookup cannot overwrite a later sign-out.
func TestStoreStaleResolutionDiscarded(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()
	fc := &fakeClient{ident: &ident}
	store := NewStore(fc, NewResolver(dir))

	gate := make(chan struct{})
	entered := make(chan struct{})
	dir.mu.Lock()
	dir.gate, dir.entered = gate, entered
	dir.mu.Unlock()

	done := make(chan struct{})
	go func() {
		store.Initialize(context.Background())
		close(done)
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("resolution pass never started")
	}

	// Sign-out arrives while the first pass is still resolving.
	fc.emit(nil)
	require.False(t, store.Snapshot().SignedIn())

	close(gate)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("initialize never returned")
	}

	st := store.Snapshot()
	require.False(t, st.SignedIn(), "stale sign-in resolution overwrote sign-out")
	require.False(t, st.Loading)
}

func TestStoreSignOutResetsStateOnProviderError(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()
	fc := &fakeClient{ident: &ident}
	store := NewStore(fc, NewResolver(dir))
	store.Initialize(context.Background())
	require.True(t, store.Snapshot().SignedIn())

	fc.signOutErr = errors.New("provider unavailable")
	err := store.SignOut(context.Background())
	require.Error(t, err)

	st := store.Snapshot()
	require.False(t, st.SignedIn())
	require.False(t, st.Loading)
	require.Nil(t, st.AgencyID)
}

func TestStoreSignOutIdempotent(t *testing.T) {
	fc := &fakeClient{}
	store := NewStore(fc, NewResolver(newFakeDirectory()))
	store.Initialize(context.Background())

	require.NoError(t, store.SignOut(context.Background()))
	require.NoError(t, store.SignOut(context.Background()))
	require.Equal(t, 2, fc.signOuts)
	require.False(t, store.Snapshot().SignedIn())
}

func TestStoreTeardown(t *testing.T) {
	dir := newFakeDirectory()
	ident := dir.addAgencyAccount()
	fc := &fakeClient{}
	store := NewStore(fc, NewResolver(dir))
	store.Initialize(context.Background())

	store.Teardown()
	store.Teardown()
	require.Equal(t, 1, fc.unsubs)

	// Events after teardown must not mutate state.
	fc.emit(&ident)
	require.False(t, store.Snapshot().SignedIn())
}
