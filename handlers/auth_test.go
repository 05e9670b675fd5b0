package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sihmcb/backend/auth"
	"github.com/sihmcb/backend/models"
	"github.com/sihmcb/backend/repository"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) Insert(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return "", repository.ErrUsernameTaken
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.Username] = &copied
	return user.ID.Hex(), nil
}

func (r *memoryUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryUserRepo) List(ctx context.Context, limit int64) ([]*models.User, error) {
	return nil, nil
}

// newTestRouter builds the auth/dashboard routes the way main does, backed
// by an in-memory store.
func newTestRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := auth.NewService(newMemoryUserRepo(), auth.NewTokenIssuer("test-secret", 30*time.Minute))
	h := NewAuthHandler(service, nil)

	router := gin.New()
	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", h.Login)
	authRoutes.POST("/logout", h.Logout)
	authRoutes.POST("/register", h.Register)
	authRoutes.GET("/me", h.AuthMiddleware(), h.Me)
	api.GET("/dashboard/stats", h.AuthMiddleware(), GetDashboardStats)
	return router, service
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerAlice(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterLoginMe_Scenario(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["user_id"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "s3cret!",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "user", user["role"])
	require.NotContains(t, w.Body.String(), "hashed_password")

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)
	require.Equal(t, "alice", me["username"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	wrongPw := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	unknown := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nobody", "password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.JSONEq(t, wrongPw.Body.String(), unknown.Body.String())
	require.Equal(t, "Invalid username or password", decodeBody(t, wrongPw)["message"])
}

func TestLogin_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	router, service := newTestRouter(t)
	registerAlice(t, router)

	// No token at all.
	w := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["success"])

	// Garbage token.
	w = doJSON(t, router, http.MethodPost, "/api/auth/logout", "not.a.jwt", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Valid token gets the personalized acknowledgment.
	result, err := service.Login(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)
	w = doJSON(t, router, http.MethodPost, "/api/auth/logout", result.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decodeBody(t, w)["message"], "alice")
}

func TestMe_Unauthenticated(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, decodeBody(t, w)["success"])
}

func TestMe_ExpiredToken(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	expired, err := auth.NewTokenIssuer("test-secret", time.Minute).Issue("alice", -1*time.Second)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", expired, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Conflict(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "password": "other-pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Username already exists", body["message"])
}

func TestRegister_InvalidInput(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ab", "password": "s3cret!",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "carol", "password": "s3cret!", "email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardStats_RequiresAuth(t *testing.T) {
	router, service := newTestRouter(t)
	registerAlice(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/dashboard/stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	result, err := service.Login(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodGet, "/api/dashboard/stats", result.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.EqualValues(t, 1247, data["testsExecuted"])
}
