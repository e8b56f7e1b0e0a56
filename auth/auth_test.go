package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyzerkul/youtube-monitor/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(db)
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/dev-login", h.DevLogin)
	r.GET("/auth/me", AuthMiddleware(), h.GetCurrentUser)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(12, "user@example.com", "User", true)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.EqualValues(t, 12, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(1, "user@example.com", "User", false)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestSignupAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(testDB(t))

	w := postJSON(r, "/auth/signup", gin.H{
		"name":     "New User",
		"email":    "New@Example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var signup struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.NotEmpty(t, signup.Token)
	// Emails are normalized to lowercase
	assert.Equal(t, "new@example.com", signup.User.Email)

	// Duplicate signup
	w = postJSON(r, "/auth/signup", gin.H{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Successful login
	w = postJSON(r, "/auth/login", gin.H{"email": "new@example.com", "password": "supersecret"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password
	w = postJSON(r, "/auth/login", gin.H{"email": "new@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown user
	w = postJSON(r, "/auth/login", gin.H{"email": "ghost@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	r := testRouter(testDB(t))
	w := postJSON(r, "/auth/signup", gin.H{
		"name":     "User",
		"email":    "user@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_BYPASS", "")
	r := testRouter(testDB(t))

	// No token
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	token, err := GenerateJWT(3, "user@example.com", "User", false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "user@example.com", me["email"])
}

func TestAuthBypassRequiresDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(testDB(t))

	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_BYPASS", "true")
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	t.Setenv("APP_ENV", "development")
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDevLoginOnlyInDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(testDB(t))

	t.Setenv("APP_ENV", "production")
	w := postJSON(r, "/auth/dev-login", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Setenv("APP_ENV", "development")
	w = postJSON(r, "/auth/dev-login", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
}
