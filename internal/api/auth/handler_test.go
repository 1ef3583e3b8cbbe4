package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner-app/database"
	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/users"
	"planner-app/internal/lib/password"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	users  map[uint]*users.User
	nextID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[uint]*users.User{}, nextID: 1}
}

func (f *fakeStore) add(u users.User) *users.User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = &u
	return &u
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return users.User{}, database.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id uint) (users.User, error) {
	if u, ok := f.users[id]; ok {
		return *u, nil
	}
	return users.User{}, database.ErrNotFound
}

func (f *fakeStore) GetUserByGoogleSub(_ context.Context, sub string) (users.User, error) {
	for _, u := range f.users {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return *u, nil
		}
	}
	return users.User{}, database.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, u *users.User) error {
	created := f.add(*u)
	u.ID = created.ID
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return database.ErrNotFound
	}
	if v, ok := updates["google_sub"].(string); ok {
		u.GoogleSub = &v
	}
	if v, ok := updates["password"].(string); ok {
		u.Password = &v
	}
	return nil
}

func (f *fakeStore) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return f.UpdateUser(ctx, id, map[string]interface{}{"password": hash})
}

func newTestHandler(store Store) *Handler {
	return NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)), testSecret)
}

func post(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }

func bcryptOf(t *testing.T, pw string) *string {
	t.Helper()
	h, err := password.Hash(pw)
	require.NoError(t, err)
	return &h
}

func TestRegister(t *testing.T) {
	store := newFakeStore()
	store.add(users.User{Email: "taken@example.com"})
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/register", h.Register)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{"ok", map[string]string{"name": "Ana", "email": "Ana@Example.com", "password": "secret123"}, http.StatusCreated},
		{"weak password", map[string]string{"name": "Bo", "email": "bo@example.com", "password": "short"}, http.StatusBadRequest},
		{"bad email", map[string]string{"name": "Bo", "email": "bo@", "password": "secret123"}, http.StatusBadRequest},
		{"duplicate", map[string]string{"name": "Cy", "email": "taken@example.com", "password": "secret123"}, http.StatusConflict},
		{"missing name", map[string]string{"email": "cy@example.com", "password": "secret123"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, "/register", tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}

	u, err := store.GetUserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "free", u.SubscriptionTier)
	assert.Equal(t, "inactive", u.SubscriptionStatus)
	assert.Equal(t, users.ProviderLocal, u.AuthProvider)
	require.NotNil(t, u.Password)
	assert.False(t, password.IsLegacy(*u.Password))
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	store.add(users.User{Email: "ana@example.com", Role: users.RoleUser, Password: bcryptOf(t, "secret123")})
	store.add(users.User{Email: "g@example.com", AuthProvider: users.ProviderGoogle})
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/login", h.Login)

	w := post(t, r, "/login", map[string]string{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	w = post(t, r, "/login", map[string]string{"email": "ana@example.com", "password": "wrong123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/login", map[string]string{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/login", map[string]string{"email": "g@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Google")
}

func TestLogin_MigratesLegacyHash(t *testing.T) {
	sum := sha256.Sum256([]byte("oldpass99"))
	store := newFakeStore()
	u := store.add(users.User{Email: "old@example.com", Password: strPtr(hex.EncodeToString(sum[:]))})
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/login", h.Login)

	w := post(t, r, "/login", map[string]string{"email": "old@example.com", "password": "oldpass99"})
	require.Equal(t, http.StatusOK, w.Code)

	stored := *store.users[u.ID].Password
	assert.False(t, password.IsLegacy(stored))
	needsRehash, err := password.Verify(stored, "oldpass99")
	require.NoError(t, err)
	assert.False(t, needsRehash)

	// the migrated account keeps working
	w = post(t, r, "/login", map[string]string{"email": "old@example.com", "password": "oldpass99"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_LegacyHashWithMarkupCharacters(t *testing.T) {
	const secret = "Tom&Jerry<3x1"
	sum := sha256.Sum256([]byte(secret))
	store := newFakeStore()
	u := store.add(users.User{Email: "tj@example.com", Password: strPtr(hex.EncodeToString(sum[:]))})
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/login", middleware.SanitizeAndCleanInputMiddleware(), h.Login)

	w := post(t, r, "/login", map[string]string{"email": "tj@example.com", "password": secret})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	needsRehash, err := password.Verify(*store.users[u.ID].Password, secret)
	require.NoError(t, err)
	assert.False(t, needsRehash)
}

func TestRegisterThenChangePassword_PunctuatedPassword(t *testing.T) {
	const secret = "it's&<fine>42"
	store := newFakeStore()
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/register", middleware.SanitizeAndCleanInputMiddleware(), h.Register)
	r.POST("/login", middleware.SanitizeAndCleanInputMiddleware(), h.Login)
	r.POST("/change-password", func(c *gin.Context) {
		u, err := store.GetUserByEmail(c.Request.Context(), "pat@example.com")
		require.NoError(t, err)
		c.Set(middleware.KeyUserID, u.ID)
		c.Next()
	}, h.ChangePassword)

	w := post(t, r, "/register", map[string]string{"name": "Pat", "email": "pat@example.com", "password": secret})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = post(t, r, "/login", map[string]string{"email": "pat@example.com", "password": secret})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(t, r, "/change-password", map[string]string{"old_password": secret, "new_password": "newpass123"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestChangePassword(t *testing.T) {
	store := newFakeStore()
	u := store.add(users.User{Email: "ana@example.com", Password: bcryptOf(t, "secret123")})
	h := newTestHandler(store)
	r := gin.New()
	r.POST("/change-password", func(c *gin.Context) {
		c.Set(middleware.KeyUserID, u.ID)
		c.Next()
	}, h.ChangePassword)

	w := post(t, r, "/change-password", map[string]string{"old_password": "nope1234", "new_password": "newpass123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/change-password", map[string]string{"old_password": "secret123", "new_password": "weak"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, r, "/change-password", map[string]string{"old_password": "secret123", "new_password": "newpass123"})
	require.Equal(t, http.StatusOK, w.Code)
	_, err := password.Verify(*store.users[u.ID].Password, "newpass123")
	assert.NoError(t, err)
}

func TestIssueAppJWT(t *testing.T) {
	now := time.Now()
	s, err := issueAppJWT(users.User{ID: 12, Email: "a@b.co", Role: users.RoleAdmin}, testSecret, now)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(s, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, float64(12), claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, float64(now.Add(tokenTTL).Unix()), claims["exp"])
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	store := newFakeStore()
	existing := store.add(users.User{Email: "ana@example.com", Password: strPtr("x")})
	h := newTestHandler(store)
	ctx := context.Background()

	linked, err := h.findOrCreateGoogleUser(ctx, &googleIDClaims{Sub: "sub-1", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)
	require.NotNil(t, store.users[existing.ID].GoogleSub)
	assert.Equal(t, "sub-1", *store.users[existing.ID].GoogleSub)

	again, err := h.findOrCreateGoogleUser(ctx, &googleIDClaims{Sub: "sub-1", Email: "changed@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.ID)

	created, err := h.findOrCreateGoogleUser(ctx, &googleIDClaims{Sub: "sub-2", Email: "new@example.com", Name: "New Person"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, created.ID)
	assert.Equal(t, users.ProviderGoogle, created.AuthProvider)
	assert.Equal(t, "free", created.SubscriptionTier)
	assert.Nil(t, created.Password)
	assert.Equal(t, "New Person", created.Name)
}
