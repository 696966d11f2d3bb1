package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"github.com/golang-jwt/jwt/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type stubVerifier map[string]*auth.Token

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := s[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("rejected")
}

type testApp struct {
	t  *testing.T
	e  *echo.Echo
	db *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	e := echo.New()
	ConfigureEcho(e)
	require.NoError(t, SetupRoutes(e, Dependencies{
		DB:         db,
		Activities: repositories.NewNopActivityRepository(),
		FirebaseVerifier: stubVerifier{
			"firebase-token": {UID: "fb-1", Claims: map[string]interface{}{"email": "carol@example.com"}},
		},
		JWTSecret: testSecret,
	}))
	return &testApp{t: t, e: e, db: db}
}

func (a *testApp) token(user models.User) string {
	a.t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(a.t, err)
	return signed
}

// do sends a request; token may be empty and body may be nil.
func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct horse",
		"bio":      "hi there",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered struct {
		Token   string                 `json:"token"`
		Profile models.ProfileResponse `json:"profile"`
	}
	decode(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.Profile.Username)
	assert.Equal(t, "hi there", registered.Profile.Bio)

	rec = app.do(http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"username": "alice", "email": "a2@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"username": "a b", "email": "nope", "password": "x",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &verr)
	assert.Contains(t, verr.Errors, "username")
	assert.Contains(t, verr.Errors, "email")
	assert.Contains(t, verr.Errors, "password")

	rec = app.do(http.MethodPost, "/api/v1/auth/login", "", echo.Map{"username": "alice", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)

	rec = app.do(http.MethodGet, "/api/v1/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = app.do(http.MethodPost, "/api/v1/auth/login", "", echo.Map{"username": "alice", "password": "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFirebaseLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/v1/auth/firebase-login", "firebase-token", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)

	rec = app.do(http.MethodGet, "/api/v1/profile", out.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"carol"`)

	rec = app.do(http.MethodPost, "/api/v1/auth/firebase-login", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodPost, "/api/v1/posts", "", echo.Map{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = app.do(http.MethodGet, "/api/v1/feed", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := testutil.CreateUser(t, app.db, "alice")
	bob := testutil.CreateUser(t, app.db, "bob")

	rec := app.do(http.MethodPost, "/api/v1/posts", app.token(alice), echo.Map{
		"title": "Cats and Go", "content": "body", "tags": "go, Machine Learning, go",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.PostResponse
	decode(t, rec, &post)
	assert.Equal(t, "alice", post.Author)
	assert.ElementsMatch(t, []string{"go", "Machine Learning"}, post.Tags)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/posts/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodGet, "/api/v1/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var list []models.PostResponse
	rec = app.do(http.MethodGet, "/api/v1/tags/machine-learning/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = app.do(http.MethodGet, "/api/v1/posts?tag=go", "", nil)
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = app.do(http.MethodGet, "/api/v1/posts/search?q=CAT", "", nil)
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = app.do(http.MethodGet, "/api/v1/posts/search?q=learning", "", nil)
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID), app.token(bob), echo.Map{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID), app.token(alice), echo.Map{"tags": "rust"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &post)
	assert.Equal(t, []string{"rust"}, post.Tags)
	assert.Equal(t, "Cats and Go", post.Title)

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID), app.token(alice), echo.Map{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), app.token(bob), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), app.token(alice), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	app := newTestApp(t)
	alice := testutil.CreateUser(t, app.db, "alice")
	bob := testutil.CreateUser(t, app.db, "bob")
	post := testutil.CreatePost(t, app.db, alice.ID, "p", time.Time{})
	path := fmt.Sprintf("/api/v1/posts/%d/comments", post.ID)

	rec := app.do(http.MethodPost, path, app.token(bob), echo.Map{"content": "too short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 10")

	rec = app.do(http.MethodPost, path, app.token(bob), echo.Map{"content": "long enough to keep"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment models.CommentResponse
	decode(t, rec, &comment)
	assert.Equal(t, "bob", comment.Author)
	assert.Equal(t, post.ID, comment.Post)

	rec = app.do(http.MethodGet, path, "", nil)
	var comments []models.CommentResponse
	decode(t, rec, &comments)
	assert.Len(t, comments, 1)

	commentPath := fmt.Sprintf("/api/v1/comments/%d", comment.ID)
	rec = app.do(http.MethodPut, commentPath, app.token(alice), echo.Map{"content": "rewritten by alice"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(http.MethodDelete, commentPath, app.token(bob), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/posts/999/comments", app.token(bob), echo.Map{"content": "long enough to keep"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikesAndNotifications(t *testing.T) {
	app := newTestApp(t)
	author := testutil.CreateUser(t, app.db, "author")
	fan := testutil.CreateUser(t, app.db, "fan")
	post := testutil.CreatePost(t, app.db, author.ID, "p", time.Time{})
	likePath := fmt.Sprintf("/api/v1/posts/%d/like", post.ID)
	unlikePath := fmt.Sprintf("/api/v1/posts/%d/unlike", post.ID)

	rec := app.do(http.MethodPost, likePath, app.token(fan), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"post liked"}`, rec.Body.String())

	rec = app.do(http.MethodPost, likePath, app.token(fan), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"post already liked"}`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/v1/notifications/unread-count", app.token(author), nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = app.do(http.MethodGet, likePath, app.token(fan), nil)
	assert.JSONEq(t, `{"liked":true}`, rec.Body.String())
	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/likes", post.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes struct {
		Count int64         `json:"count"`
		Likes []models.Like `json:"likes"`
	}
	decode(t, rec, &likes)
	assert.Equal(t, int64(1), likes.Count)
	require.Len(t, likes.Likes, 1)
	assert.Equal(t, fan.ID, likes.Likes[0].UserID)

	rec = app.do(http.MethodGet, "/api/v1/notifications", app.token(author), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Notifications []models.Notification `json:"notifications"`
	}
	decode(t, rec, &page)
	require.Len(t, page.Notifications, 1)
	n := page.Notifications[0]
	assert.Equal(t, "liked your post", n.Verb)
	assert.Equal(t, fan.ID, n.ActorID)

	rec = app.do(http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", n.ID), app.token(fan), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", n.ID), app.token(author), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/notifications/grouped", app.token(author), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unreadCount":0`)

	rec = app.do(http.MethodPut, "/api/v1/notifications/read-all", app.token(author), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodPost, unlikePath, app.token(fan), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"post unliked"}`, rec.Body.String())

	rec = app.do(http.MethodPost, unlikePath, app.token(fan), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"not liked"}`, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/v1/posts/999/like", app.token(fan), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowAndFeed(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateUser(t, app.db, "a")
	b := testutil.CreateUser(t, app.db, "b")
	c := testutil.CreateUser(t, app.db, "c")
	now := time.Now()
	testutil.CreatePost(t, app.db, b.ID, "from b", now.Add(-time.Hour))
	testutil.CreatePost(t, app.db, c.ID, "from c", now)

	rec := app.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", a.ID), app.token(a), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"You cannot follow yourself"}`, rec.Body.String())

	for _, target := range []models.User{b, c, c} {
		rec = app.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), app.token(a), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec = app.do(http.MethodGet, "/api/v1/feed", app.token(a), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.PostResponse
	decode(t, rec, &feed)
	require.Len(t, feed, 2)
	assert.Equal(t, "from c", feed[0].Title)
	assert.Equal(t, "from b", feed[1].Title)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/follow", c.ID), app.token(a), nil)
	assert.JSONEq(t, `{"following":true}`, rec.Body.String())
	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/follow-stats", a.ID), "", nil)
	assert.JSONEq(t, `{"followers":0,"following":2}`, rec.Body.String())

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/followers", c.ID), "", nil)
	var followers []models.UserCompact
	decode(t, rec, &followers)
	require.Len(t, followers, 1)
	assert.Equal(t, "a", followers[0].Username)

	rec = app.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/unfollow", c.ID), app.token(a), nil)
	assert.JSONEq(t, `{"status":"unfollowed"}`, rec.Body.String())
	rec = app.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/unfollow", c.ID), app.token(a), nil)
	assert.JSONEq(t, `{"status":"not following"}`, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/v1/users/999/follow", app.token(a), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/feed", app.token(c), nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProfileAndAccountDeletion(t *testing.T) {
	app := newTestApp(t)
	alice := testutil.CreateUser(t, app.db, "alice")
	testutil.CreatePost(t, app.db, alice.ID, "p", time.Time{})

	rec := app.do(http.MethodPut, "/api/v1/profile", app.token(alice), echo.Map{"bio": "writer", "image": "/img/a.png"})
	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.ProfileResponse
	decode(t, rec, &profile)
	assert.Equal(t, "writer", profile.Bio)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"image":"/img/a.png"`)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/activity", alice.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodDelete, "/api/v1/profile", app.token(alice), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodGet, "/api/v1/posts", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
