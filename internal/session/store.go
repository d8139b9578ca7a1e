package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
)

// State is the client-held projection of "who is using this client right
// now". Invariant: AgencyID is non-nil only when Role is agency. While
// Loading is true no authorization decision may be rendered.
type State struct {
	Identity *identity.Identity
	Role     models.Role
	AgencyID *uuid.UUID
	Loading  bool
}

// SignedIn reports whether the state carries an identity.
func (s State) SignedIn() bool { return s.Identity != nil }

// Store is the single source of truth for session state. It is single-writer:
// all mutations funnel through resolution passes guarded by a sequence token,
// so a stale pass that completes after a newer one began is discarded.
type Store struct {
	client   identity.Client
	resolver *Resolver

	mu          sync.Mutex
	state       State
	seq         uint64
	torn        bool
	unsubscribe func()
	subs        map[int]func(State)
	nextSub     int

	teardownOnce sync.Once
}

func NewStore(client identity.Client, resolver *Resolver) *Store {
	return &Store{
		client:   client,
		resolver: resolver,
		state:    State{Loading: true},
		subs:     make(map[int]func(State)),
	}
}

// Initialize registers the auth-state subscription and runs the first
// resolution pass. Consumers must not render authorization decisions until
// the pass completes (Loading flips to false either way).
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	if s.unsubscribe == nil {
		s.unsubscribe = s.client.OnAuthStateChange(func(ident *identity.Identity) {
			s.onAuthChange(ctx, ident)
		})
	}
	s.mu.Unlock()

	pass := s.beginPass()
	ident, err := s.client.GetUser(ctx)
	if err != nil || ident == nil {
		s.commit(pass, State{Loading: false})
		return
	}
	s.resolveAndCommit(ctx, pass, *ident)
}

// SignOut tells the provider to end the session and then unconditionally
// resets local state: a stale session representation must not survive an
// expressed intent to sign out, even when the provider call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.client.SignOut(ctx)
	pass := s.beginPass()
	s.commit(pass, State{Loading: false})
	return err
}

// Teardown unregisters the auth-state subscription. Safe to call more than
// once; after it returns no further state writes or callbacks occur.
func (s *Store) Teardown() {
	s.teardownOnce.Do(func() {
		s.mu.Lock()
		s.torn = true
		unsub := s.unsubscribe
		s.unsubscribe = nil
		s.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}

// Subscribe registers a consumer callback invoked with every committed state.
// The returned func unregisters it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) onAuthChange(ctx context.Context, ident *identity.Identity) {
	pass := s.beginPass()
	if ident == nil {
		s.commit(pass, State{Loading: false})
		return
	}
	s.resolveAndCommit(ctx, pass, *ident)
}

func (s *Store) resolveAndCommit(ctx context.Context, pass uint64, ident identity.Identity) {
	res := s.resolver.Resolve(ctx, ident)
	s.commit(pass, State{
		Identity: &ident,
		Role:     res.Role,
		AgencyID: res.AgencyID,
		Loading:  false,
	})
}

// beginPass allocates the next resolution sequence token. Any pass started
// earlier becomes stale from this point on.
func (s *Store) beginPass() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// commit installs the state produced by pass unless a newer pass has begun or
// the store was torn down. Consumer callbacks fire outside the lock.
func (s *Store) commit(pass uint64, st State) {
	s.mu.Lock()
	if s.torn || pass != s.seq {
		s.mu.Unlock()
		return
	}
	s.state = st
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
