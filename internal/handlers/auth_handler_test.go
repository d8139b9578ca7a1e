package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseapp/tripwise-backend/internal/config"
	"github.com/tripwiseapp/tripwise-backend/internal/identity"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

const testJWTSecret = "test-secret"

type memCredential struct {
	id       uuid.UUID
	password string
}

type memIdentityClient struct {
	mu        sync.Mutex
	accounts  map[string]memCredential
	session   *identity.Session
	signedOut []uuid.UUID
}

func newMemIdentityClient() *memIdentityClient {
	return &memIdentityClient{accounts: make(map[string]memCredential)}
}

func (m *memIdentityClient) SignUp(_ context.Context, email, password string) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[email]; exists {
		return nil, identity.ErrEmailTaken
	}
	if len(password) < 8 {
		return nil, identity.ErrWeakPassword
	}
	cred := memCredential{id: uuid.New(), password: password}
	m.accounts[email] = cred
	return &identity.Identity{ID: cred.id, Email: email}, nil
}

func (m *memIdentityClient) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.accounts[email]
	if !ok || cred.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	// Per-identity tokens so a test can tell whose session a response holds.
	sess := &identity.Session{
		Identity:     identity.Identity{ID: cred.id, Email: email},
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
	}
	m.session = sess
	return sess, nil
}

func (m *memIdentityClient) Refresh(_ context.Context, _ string) (*identity.Session, error) {
	return nil, identity.ErrInvalidToken
}

func (m *memIdentityClient) SignOut(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

func (m *memIdentityClient) SignOutUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedOut = append(m.signedOut, id)
	if m.session != nil && m.session.Identity.ID == id {
		m.session = nil
	}
	return nil
}

func (m *memIdentityClient) UpdatePassword(_ context.Context, id uuid.UUID, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(newPassword) < 8 {
		return identity.ErrWeakPassword
	}
	for email, cred := range m.accounts {
		if cred.id == id {
			cred.password = newPassword
			m.accounts[email] = cred
			return nil
		}
	}
	return identity.ErrNoSession
}

func (m *memIdentityClient) GetUser(_ context.Context) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, identity.ErrNoSession
	}
	ident := m.session.Identity
	return &ident, nil
}

func (m *memIdentityClient) GetSession() *identity.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *memIdentityClient) OnAuthStateChange(_ func(*identity.Identity)) func() {
	return func() {}
}

func (m *memIdentityClient) DeleteUser(_ context.Context, _ uuid.UUID) error { return nil }

type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	agencies map[uuid.UUID]*models.Agency
	admins   map[uuid.UUID]*models.AdminProfile

	// gate, when set, blocks the next AccountByID until closed; entered is
	// closed once that lookup has started.
	gate    chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*models.User),
		agencies: make(map[uuid.UUID]*models.Agency),
		admins:   make(map[uuid.UUID]*models.AdminProfile),
	}
}

func (s *memStore) CreateAccount(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *memStore) CreateAgency(_ context.Context, agency *models.Agency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agency.ID == uuid.Nil {
		agency.ID = uuid.New()
	}
	s.agencies[agency.UserID] = agency
	return nil
}

func (s *memStore) CreateAdminProfile(_ context.Context, profile *models.AdminProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[profile.UserID] = profile
	return nil
}

func (s *memStore) AgencyByUserID(_ context.Context, userID uuid.UUID) (*models.Agency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agency, ok := s.agencies[userID]
	if !ok {
		return nil, session.ErrAgencyProfileMissing
	}
	return agency, nil
}

func (s *memStore) AccountByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	gate, entered := s.gate, s.entered
	s.gate, s.entered = nil, nil
	s.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, session.ErrProfileNotFound
	}
	return user, nil
}

func (s *memStore) UpdateAccount(_ context.Context, userID uuid.UUID, fullname, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return session.ErrProfileNotFound
	}
	user.Fullname = fullname
	user.Avatar = avatar
	return nil
}

func (s *memStore) DeleteAccountData(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	delete(s.agencies, userID)
	delete(s.admins, userID)
	return nil
}

func (s *memStore) userIDByEmail(email string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, user := range s.users {
		if user.Email == email {
			return id
		}
	}
	return uuid.Nil
}

func newAuthTestApp(t *testing.T) (*fiber.App, *memStore, *memIdentityClient) {
	t.Helper()
	client := newMemIdentityClient()
	store := newMemStore()
	resolver := session.NewResolver(store)
	cfg := &config.Config{JWTSecret: testJWTSecret, AdminSignupCode: "SECRET123"}
	svc := services.NewAuthService(client, store, resolver, cfg.AdminSignupCode)
	h := NewAuthHandler(svc, client, resolver, store, cfg)

	app := fiber.New()
	app.Post("/api/auth/signup", h.Signup)
	app.Post("/api/auth/signin", h.Signin)
	app.Get("/api/auth/session", h.Session)

	protected := middleware.JWTProtected(cfg)
	app.Post("/api/auth/logout", protected, h.Logout)
	app.Put("/api/auth/me", protected, h.UpdateMe)
	app.Put("/api/auth/password", protected, h.UpdatePassword)
	return app, store, client
}

func mintToken(t *testing.T, id uuid.UUID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	return sendJSON(t, app, "POST", path, body, "")
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any, bearer string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, app *fiber.App, path, bearer string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func signupUser(t *testing.T, app *fiber.App, email, fullname string) {
	t.Helper()
	status, _ := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": email, "password": "supersafe", "fullname": fullname, "role": "user",
	})
	require.Equal(t, fiber.StatusCreated, status)
}

func TestSignupThenSigninOverHTTP(t *testing.T) {
	app, _, _ := newAuthTestApp(t)

	status, body := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "bob@example.com", "password": "supersafe",
		"fullname": "Bob Traveler", "role": "user",
	})
	require.Equal(t, fiber.StatusCreated, status)
	require.Contains(t, body["message"], "sign in")

	status, body = postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "bob@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]any)
	require.Equal(t, "user", user["role"])
}

func TestSigninRejectionsOverHTTP(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "tours@example.com", "password": "supersafe",
		"fullname": "Maya Tours", "role": "agency",
		"agency": fiber.Map{"agency_name": "Maya Tours"},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "tours@example.com", "password": "wrong-one",
	})
	require.Equal(t, fiber.StatusUnauthorized, status)

	// Correct credentials but the agency is still pending.
	status, body := postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "tours@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusForbidden, status)
	require.Contains(t, body["message"], "pending approval")

	for _, agency := range store.agencies {
		agency.Status = models.AgencyStatusApproved
	}

	status, body = postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "tours@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusOK, status)
	user := body["user"].(map[string]any)
	require.Equal(t, "agency", user["role"])
	require.NotEmpty(t, user["agency_id"])
}

func TestAdminSignupWrongCodeOverHTTP(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "root@example.com", "password": "supersafe",
		"fullname": "Root", "role": "admin",
		"admin": fiber.Map{"admin_code": "GUESS"},
	})
	require.Equal(t, fiber.StatusForbidden, status)
	require.Empty(t, store.users)
}

// Two users signing in at the same time must each receive their own token
// pair. The first signin is paused mid role-resolution while the second one
// runs to completion, so any read of shared client state would hand the
// first caller the second caller's tokens.
func TestSigninConcurrentUsersKeepOwnTokens(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	signupUser(t, app, "alice@example.com", "Alice")
	signupUser(t, app, "bob@example.com", "Bob")

	gate := make(chan struct{})
	entered := make(chan struct{})
	store.mu.Lock()
	store.gate, store.entered = gate, entered
	store.mu.Unlock()

	type signinReply struct {
		status int
		body   map[string]any
		err    error
	}
	replies := make(chan signinReply, 1)
	go func() {
		raw, err := json.Marshal(fiber.Map{"email": "alice@example.com", "password": "supersafe"})
		if err != nil {
			replies <- signinReply{err: err}
			return
		}
		req := httptest.NewRequest("POST", "/api/auth/signin", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			replies <- signinReply{err: err}
			return
		}
		var body map[string]any
		err = json.NewDecoder(resp.Body).Decode(&body)
		replies <- signinReply{status: resp.StatusCode, body: body, err: err}
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first signin never reached role resolution")
	}

	// The second signin completes while the first is paused.
	status, body := postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "bob@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "access-bob@example.com", body["access_token"])

	close(gate)
	var reply signinReply
	select {
	case reply = <-replies:
	case <-time.After(2 * time.Second):
		t.Fatal("first signin never finished")
	}
	require.NoError(t, reply.err)
	require.Equal(t, fiber.StatusOK, reply.status)
	require.Equal(t, "access-alice@example.com", reply.body["access_token"])
	require.Equal(t, "refresh-alice@example.com", reply.body["refresh_token"])
}

// The session endpoint answers for the presented bearer only. An anonymous
// caller is signed out even when someone else signed in moments ago.
func TestSessionReflectsBearerOnly(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	signupUser(t, app, "alice@example.com", "Alice")
	signupUser(t, app, "bob@example.com", "Bob")

	status, _ := postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "alice@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body := getJSON(t, app, "/api/auth/session", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["signed_in"])

	bobID := store.userIDByEmail("bob@example.com")
	status, body = getJSON(t, app, "/api/auth/session", mintToken(t, bobID, "bob@example.com"))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["signed_in"])
	user := body["user"].(map[string]any)
	require.Equal(t, bobID.String(), user["id"])
	require.Equal(t, "bob@example.com", user["email"])
	require.NotEmpty(t, body["expires_at"])

	status, body = getJSON(t, app, "/api/auth/session", "not-a-token")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["signed_in"])
}

func TestLogoutRevokesOnlyBearer(t *testing.T) {
	app, store, client := newAuthTestApp(t)

	signupUser(t, app, "alice@example.com", "Alice")
	signupUser(t, app, "bob@example.com", "Bob")
	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		status, _ := postJSON(t, app, "/api/auth/signin", fiber.Map{
			"email": email, "password": "supersafe",
		})
		require.Equal(t, fiber.StatusOK, status)
	}

	aliceID := store.userIDByEmail("alice@example.com")
	status, _ := sendJSON(t, app, "POST", "/api/auth/logout", nil, mintToken(t, aliceID, "alice@example.com"))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, []uuid.UUID{aliceID}, client.signedOut)

	status, _ = sendJSON(t, app, "POST", "/api/auth/logout", nil, "")
	require.Equal(t, fiber.StatusUnauthorized, status)
}

func TestUpdateOwnProfileOverHTTP(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	signupUser(t, app, "alice@example.com", "Alice")
	aliceID := store.userIDByEmail("alice@example.com")
	token := mintToken(t, aliceID, "alice@example.com")

	status, _ := sendJSON(t, app, "PUT", "/api/auth/me", fiber.Map{
		"fullname": "Alice Blogger", "avatar": "https://cdn.example.com/alice.png",
	}, token)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Alice Blogger", store.users[aliceID].Fullname)
	require.Equal(t, "https://cdn.example.com/alice.png", store.users[aliceID].Avatar)

	status, _ = sendJSON(t, app, "PUT", "/api/auth/me", fiber.Map{"fullname": ""}, token)
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _ = sendJSON(t, app, "PUT", "/api/auth/me", fiber.Map{"fullname": "No Token"}, "")
	require.Equal(t, fiber.StatusUnauthorized, status)
}

func TestChangePasswordOverHTTP(t *testing.T) {
	app, store, _ := newAuthTestApp(t)

	signupUser(t, app, "alice@example.com", "Alice")
	aliceID := store.userIDByEmail("alice@example.com")
	token := mintToken(t, aliceID, "alice@example.com")

	status, _ := sendJSON(t, app, "PUT", "/api/auth/password", fiber.Map{"password": "short"}, token)
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _ = sendJSON(t, app, "PUT", "/api/auth/password", fiber.Map{"password": "evensafer"}, token)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "alice@example.com", "password": "supersafe",
	})
	require.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = postJSON(t, app, "/api/auth/signin", fiber.Map{
		"email": "alice@example.com", "password": "evensafer",
	})
	require.Equal(t, fiber.StatusOK, status)
}
