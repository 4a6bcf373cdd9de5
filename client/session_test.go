package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"blogcms/client"
	"blogcms/models"
	"blogcms/routes"
	"blogcms/testutil"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config(t)
	db := testutil.NewDBWithConfig(t, cfg)
	router := routes.NewRouter(cfg, db, testutil.NewTokenService(nil), utils.NewRealClock())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	baseURL := newBackend(t)
	store := &client.FileTokenStore{Path: filepath.Join(t.TempDir(), "session")}

	session := client.NewSession(baseURL, store, nil)
	require.NoError(t, session.Init())
	assert.False(t, session.Authenticated())
	assert.Zero(t, session.DisplayUserID())

	user, err := session.Register(ctx, "Alice", "alice@example.com", "wonderland")
	require.NoError(t, err)

	require.NoError(t, session.Login(ctx, "alice@example.com", "wonderland"))
	assert.True(t, session.Authenticated())
	assert.Equal(t, user.ID, session.DisplayUserID())

	// a fresh session picks the token up from the store
	restored := client.NewSession(baseURL, store, nil)
	require.NoError(t, restored.Init())
	me, err := restored.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	require.NoError(t, restored.Teardown())
	assert.False(t, restored.Authenticated())

	afterLogout := client.NewSession(baseURL, store, nil)
	require.NoError(t, afterLogout.Init())
	assert.False(t, afterLogout.Authenticated())
}

func TestSession_ContentRoundTrip(t *testing.T) {
	ctx := context.Background()
	session := client.NewSession(newBackend(t), &client.MemoryTokenStore{}, nil)

	_, err := session.Register(ctx, "Bob", "bob@example.com", "builder")
	require.NoError(t, err)
	require.NoError(t, session.Login(ctx, "bob@example.com", "builder"))

	tech, err := session.CreateCategory(ctx, "Tech")
	require.NoError(t, err)

	post, err := session.CreatePost(ctx, models.CreatePostRequest{Title: "Hello", CategoryID: tech.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, post.Status)

	updated, err := session.UpdatePost(ctx, post.ID, models.UpdatePostRequest{
		Title:      "Hello again",
		Status:     models.StatusPublished,
		CategoryID: tech.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)

	posts, err := session.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].Category)
	assert.Equal(t, "Tech", posts[0].Category.Name)

	require.NoError(t, session.DeletePost(ctx, post.ID))
	_, err = session.GetPost(ctx, post.ID)
	assert.True(t, client.IsNotFound(err))

	renamed, err := session.UpdateCategory(ctx, tech.ID, "Technology")
	require.NoError(t, err)
	assert.Equal(t, "Technology", renamed.Name)

	require.NoError(t, session.DeleteCategory(ctx, tech.ID))
	categories, err := session.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestSession_Errors(t *testing.T) {
	ctx := context.Background()
	session := client.NewSession(newBackend(t), &client.MemoryTokenStore{}, nil)

	_, err := session.ListPosts(ctx)
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	err = session.Login(ctx, "ghost@example.com", "nope")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, session.Authenticated())
}

func TestSession_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	session := client.NewSession(url, &client.MemoryTokenStore{}, nil)
	_, err := session.ListCategories(context.Background())
	assert.ErrorIs(t, err, client.ErrUnreachable)
}
