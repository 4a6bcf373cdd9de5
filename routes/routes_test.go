package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogcms/models"
	"blogcms/routes"
	"blogcms/testutil"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.NewDBWithConfig(t, cfg)
	tokens := testutil.NewTokenService(nil)
	clock := utils.NewRealClock()

	return &testServer{
		t:      t,
		db:     db,
		router: routes.NewRouter(cfg, db, tokens, clock),
		tokens: tokens,
	}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) registerAndLogin(name, email, password string) (models.User, string) {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/auth/register", gin.H{"name": name, "email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var user models.User
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &user))

	w = s.do(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var login models.LoginResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(s.t, login.Token)

	return user, login.Token
}

func (s *testServer) createCategory(name string) models.Category {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/Category", gin.H{"name": name}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &category))
	return category
}

func (s *testServer) postCount() int64 {
	var count int64
	require.NoError(s.t, s.db.Model(&models.Post{}).Count(&count).Error)
	return count
}

func TestEndToEnd_RegisterLoginCategoryPost(t *testing.T) {
	s := newTestServer(t)

	alice, token := s.registerAndLogin("Alice", "alice@example.com", "wonderland")
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"title": "Hello", "content": "First post", "categoryId": tech.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, fmt.Sprintf("/api/Post/%d", created.ID), w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/api/Post", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, models.StatusDraft, posts[0].Status)
	assert.Equal(t, alice.ID, posts[0].UserID)
	require.NotNil(t, posts[0].Category)
	assert.Equal(t, "Tech", posts[0].Category.Name)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "alice@example.com", posts[0].User.Email)
}

func TestLoginTokenCarriesUserID(t *testing.T) {
	s := newTestServer(t)

	user, token := s.registerAndLogin("Bob", "bob@example.com", "builder")

	claims := &utils.Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(user.ID), claims.NameID)

	principal, err := s.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
}

func TestRegister_NeverExposesPasswordHash(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", gin.H{"name": "C", "email": "c@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin("Dee", "dee@example.com", "pw")

	w := s.do(http.MethodPost, "/api/auth/register", gin.H{"name": "Dee 2", "email": "dee@example.com", "password": "other"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "dee@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", gin.H{"name": "NoMail", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_InvalidCredentialsLookAlike(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin("Eve", "eve@example.com", "right")

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "eve@example.com", "password": "wrong"}, "")
	unknownUser := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "right"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Invalid credentials")
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	user, token := s.registerAndLogin("Fay", "fay@example.com", "pw")

	w := s.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)

	w = s.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"title": "Sneaky", "categoryId": tech.ID, "userId": 1}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/Post", gin.H{"title": "Sneaky", "categoryId": tech.ID}, "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/Post", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Zero(t, s.postCount())
}

func TestCreatePost_IgnoresClientUserID(t *testing.T) {
	s := newTestServer(t)
	victim, _ := s.registerAndLogin("Victim", "victim@example.com", "pw")
	attacker, token := s.registerAndLogin("Attacker", "attacker@example.com", "pw")
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"title": "Spoofed", "categoryId": tech.ID, "userId": victim.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, attacker.ID, post.UserID)
}

func TestCreatePost_Validation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.registerAndLogin("Val", "val@example.com", "pw")
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"categoryId": tech.ID}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/Post", gin.H{"title": "Bad status", "categoryId": tech.ID, "status": "Archived"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, s.postCount())
}

func TestPostOwnership(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.registerAndLogin("Owner", "owner@example.com", "pw")
	intruder, intruderToken := s.registerAndLogin("Intruder", "intruder@example.com", "pw")
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"title": "Mine", "content": "original", "categoryId": tech.ID}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	path := fmt.Sprintf("/api/Post/%d", post.ID)

	update := gin.H{"title": "Defaced", "content": "x", "status": "Published", "categoryId": tech.ID, "userId": intruder.ID}
	w = s.do(http.MethodPut, path, update, intruderToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("%s?userId=%d", path, post.UserID), nil, intruderToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// looks exactly like a post that does not exist
	missing := s.do(http.MethodDelete, "/api/Post/99999", nil, intruderToken)
	assert.Equal(t, w.Code, missing.Code)
	assert.JSONEq(t, w.Body.String(), missing.Body.String())

	w = s.do(http.MethodGet, path, nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Mine", stored.Title)
	assert.Equal(t, "original", stored.Content)
	assert.Equal(t, models.StatusDraft, stored.Status)

	w = s.do(http.MethodPut, path, gin.H{"title": "Mine, edited", "content": "new", "status": "Published", "categoryId": tech.ID}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Mine, edited", stored.Title)
	assert.Equal(t, models.StatusPublished, stored.Status)
	assert.Equal(t, post.UserID, stored.UserID)
	assert.True(t, post.CreatedAt.Equal(stored.CreatedAt))

	w = s.do(http.MethodDelete, path, nil, ownerToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, s.postCount())
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestServer(t)
	tech := s.createCategory("Tech")

	w := s.do(http.MethodGet, fmt.Sprintf("/api/Category/%d", tech.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/Category/%d", tech.ID), gin.H{"name": "Technology"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var renamed models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renamed))
	assert.Equal(t, tech.ID, renamed.ID)
	assert.Equal(t, "Technology", renamed.Name)
	assert.True(t, tech.CreatedAt.Equal(renamed.CreatedAt))

	w = s.do(http.MethodGet, "/api/Category", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/Category/%d", tech.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = s.do(method, fmt.Sprintf("/api/Category/%d", tech.ID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w = s.do(http.MethodPut, fmt.Sprintf("/api/Category/%d", tech.ID), gin.H{"name": "Ghost"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/Category/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryWithPosts(t *testing.T) {
	s := newTestServer(t)
	_, token := s.registerAndLogin("Gus", "gus@example.com", "pw")
	tech := s.createCategory("Tech")

	w := s.do(http.MethodPost, "/api/Post", gin.H{"title": "Filed under Tech", "categoryId": tech.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/Category/%d", tech.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, s.postCount())
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blogcms_http_requests_total")

	w = s.do(http.MethodGet, "/swagger/doc.json", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/Post/{id}")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/Post", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
