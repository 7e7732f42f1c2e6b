package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/services"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]types.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	f.users[id] = user
	return nil
}

func (f *fakeUserRepo) List(context.Context) ([]types.User, error) {
	var out []types.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func newAuthRouter(repo *fakeUserRepo) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, services.NewUserService(repo), testSecret)
	})
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := postJSON(t, router, "/api/auth/register", RegisterRequest{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "sekret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/auth/login", LoginRequest{
		Username: "asha",
		Password: "sekret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())
	token := registerAndLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user types.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, types.RoleUser, user.Role)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())

	body := RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "sekret123"}
	rec := postJSON(t, router, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())
	registerAndLogin(t, router)

	rec := postJSON(t, router, "/api/auth/login", LoginRequest{
		Username: "asha",
		Password: "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithoutTokenUnauthorized(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithGarbageTokenUnauthorized(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordFlow(t *testing.T) {
	router := newAuthRouter(newFakeUserRepo())
	token := registerAndLogin(t, router)

	rec := postJSON(t, router, "/api/auth/change-password", ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsekret",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/api/auth/change-password", ChangePasswordRequest{
		OldPassword: "sekret123",
		NewPassword: "newsekret",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/auth/login", LoginRequest{
		Username: "asha",
		Password: "newsekret",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
