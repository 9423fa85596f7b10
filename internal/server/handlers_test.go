package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"easyshop/internal/config"
	"easyshop/internal/database"
	"easyshop/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

func setupTestApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		Port:              "0",
		Env:               "test",
		DBDriver:          "sqlite",
		DBPath:            ":memory:",
		AllowedOrigins:    "*",
		IdentityJWTSecret: secret,
		BodyLimitMB:       1,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return srv.NewApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

type userEnvelope struct {
	Message string               `json:"message"`
	User    models.Profile       `json:"user"`
	Stats   *models.ProfileStats `json:"stats"`
}

type postEnvelope struct {
	Message string      `json:"message"`
	Post    models.Post `json:"post"`
}

type postsEnvelope struct {
	Posts []models.Post `json:"posts"`
}

func signup(t *testing.T, app *fiber.App, uid, name, role string) {
	t.Helper()
	status, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"firebaseUid": uid,
		"name":        name,
		"email":       uid + "@example.com",
		"role":        role,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
}

func createPost(t *testing.T, app *fiber.App, owner, category string) models.Post {
	t.Helper()
	status, raw := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"userId":             owner,
		"username":           owner,
		"userProfilePicture": "avatar",
		"category":           category,
		"images":             []string{"img"},
		"description":        "hand-made bag",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[postEnvelope](t, raw).Post
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("x"), http.StatusBadRequest},
		{models.NewAlreadyExistsError("x"), http.StatusBadRequest},
		{models.NewNotFoundError("Post", "1"), http.StatusNotFound},
		{models.NewUnauthorizedError("x"), http.StatusUnauthorized},
		{models.NewForbiddenError("x"), http.StatusForbidden},
		{models.NewConflictError("x", nil), http.StatusConflict},
		{models.NewInternalError(errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestHealthEndpoints(t *testing.T) {
	app := setupTestApp(t, "")

	status, _ := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw := doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	body := decode[map[string]any](t, raw)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestProfileFlow(t *testing.T) {
	app := setupTestApp(t, "")

	status, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"firebaseUid":    "ana",
		"name":           "Ana",
		"email":          "ana@example.com",
		"profilePicture": "ana.png",
		"role":           "storeowner",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[userEnvelope](t, raw)
	assert.Equal(t, "ana", created.User.ExternalID)
	assert.Equal(t, "ana.png", created.User.AvatarRef)

	t.Run("duplicate signup", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
			"firebaseUid": "ana", "name": "Other", "email": "other@example.com", "role": "client",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, models.CodeAlreadyExists, decode[models.ErrorResponse](t, raw).Code)
	})

	t.Run("invalid email names the field", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
			"firebaseUid": "bob", "name": "Bob", "email": "not-an-email", "role": "client",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		resp := decode[models.ErrorResponse](t, raw)
		assert.Equal(t, models.CodeValidation, resp.Code)
		assert.Equal(t, "email", resp.Field)
	})

	t.Run("signin", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/auth/signin", fiber.Map{"firebaseUid": "ana"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Ana", decode[userEnvelope](t, raw).User.Name)

		status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signin", fiber.Map{"firebaseUid": "ghost"})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("fetch profile", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/profile", fiber.Map{"firebaseUid": "ana"})
		assert.Equal(t, http.StatusOK, status)

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/ana", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ana@example.com", decode[userEnvelope](t, raw).User.Email)
	})

	t.Run("update", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPut, "/api/profile/update", fiber.Map{
			"externalId": "ana",
			"bio":        "Leather goods",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		updated := decode[userEnvelope](t, raw).User
		assert.Equal(t, "Ana", updated.Name)
		assert.Equal(t, "Leather goods", updated.Bio)

		status, raw = doJSON(t, app, http.MethodPut, "/api/profile/update", fiber.Map{
			"externalId": "ana",
			"name":       " ",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "name", decode[models.ErrorResponse](t, raw).Field)

		status, _ = doJSON(t, app, http.MethodPut, "/api/profile/update", fiber.Map{
			"externalId": "ghost",
			"bio":        "x",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("stats and posts", func(t *testing.T) {
		createPost(t, app, "ana", "women")
		createPost(t, app, "ana", "men")

		status, raw := doJSON(t, app, http.MethodPost, "/api/profile/me", fiber.Map{"externalId": "ana"})
		require.Equal(t, http.StatusOK, status, string(raw))
		env := decode[userEnvelope](t, raw)
		require.NotNil(t, env.Stats)
		assert.Equal(t, int64(2), env.Stats.Posts)
		assert.Zero(t, env.Stats.Followers)

		status, raw = doJSON(t, app, http.MethodGet, "/api/profile/posts/ana", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[postsEnvelope](t, raw).Posts, 2)
	})
}

func TestPostEndpoints(t *testing.T) {
	app := setupTestApp(t, "")
	signup(t, app, "ana", "Ana", "storeowner")

	women := createPost(t, app, "ana", "femme")
	assert.Equal(t, models.CategoryWomen, women.Category)
	assert.NotEmpty(t, women.ID)
	assert.Empty(t, women.Likes)
	assert.Zero(t, women.CommentsCount)

	time.Sleep(10 * time.Millisecond)
	men := createPost(t, app, "ana", "men")

	t.Run("create without images", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
			"userId": "ana", "username": "Ana", "category": "men", "images": []string{}, "description": "x",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "images", decode[models.ErrorResponse](t, raw).Field)

		_, raw = doJSON(t, app, http.MethodGet, "/api/posts", nil)
		assert.Len(t, decode[postsEnvelope](t, raw).Posts, 2)
	})

	t.Run("feed newest first and filtered", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodGet, "/api/posts", nil)
		require.Equal(t, http.StatusOK, status)
		posts := decode[postsEnvelope](t, raw).Posts
		require.Len(t, posts, 2)
		assert.Equal(t, men.ID, posts[0].ID)

		status, raw = doJSON(t, app, http.MethodGet, "/api/posts?category=women", nil)
		require.Equal(t, http.StatusOK, status)
		posts = decode[postsEnvelope](t, raw).Posts
		require.Len(t, posts, 1)
		assert.Equal(t, women.ID, posts[0].ID)

		status, _ = doJSON(t, app, http.MethodGet, "/api/posts?category=shoes", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("by owner", func(t *testing.T) {
		_, raw := doJSON(t, app, http.MethodGet, "/api/posts/user/ana", nil)
		assert.Len(t, decode[postsEnvelope](t, raw).Posts, 2)

		_, raw = doJSON(t, app, http.MethodGet, "/api/posts/user/nobody", nil)
		assert.Empty(t, decode[postsEnvelope](t, raw).Posts)
	})

	t.Run("get post", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodGet, "/api/posts/"+women.ID, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "hand-made bag", decode[postEnvelope](t, raw).Post.Description)

		status, _ = doJSON(t, app, http.MethodGet, "/api/posts/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("delete requires owner when requester known", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodDelete, "/api/posts/"+men.ID+"?requesterId=u2", nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, models.CodeForbidden, decode[models.ErrorResponse](t, raw).Code)

		status, _ = doJSON(t, app, http.MethodDelete, "/api/posts/"+men.ID+"?requesterId=ana", nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodDelete, "/api/posts/"+men.ID, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestInteractionEndpoints(t *testing.T) {
	app := setupTestApp(t, "")
	signup(t, app, "ana", "Ana", "storeowner")
	signup(t, app, "u2", "Sam", "client")
	post := createPost(t, app, "ana", "women")

	t.Run("like toggles via body and path", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": post.ID, "userId": "u2"})
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, []string{"u2"}, decode[map[string][]string](t, raw)["likes"])

		status, raw = doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/like", fiber.Map{"userId": "u2"})
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, decode[map[string][]string](t, raw)["likes"])

		status, _ = doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": "missing", "userId": "u2"})
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": post.ID})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("save", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/posts/save", fiber.Map{"postId": post.ID, "userId": "u2"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{"u2"}, decode[map[string][]string](t, raw)["savedBy"])

		status, raw = doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/save", fiber.Map{"userId": "u2"})
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, decode[map[string][]string](t, raw)["savedBy"])
	})

	var commentID string
	t.Run("comment", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/posts/comment", fiber.Map{
			"postId": post.ID, "userId": "u2", "text": "Is it leather?",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		thread := decode[models.CommentThread](t, raw)
		require.Len(t, thread.Comments, 1)
		assert.Equal(t, 1, thread.CommentsCount)
		assert.Equal(t, "Sam", thread.Comments[0].AuthorName)
		commentID = thread.Comments[0].ID

		status, _ = doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/comment", fiber.Map{
			"userId": "u2", "text": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, status)

		status, raw = doJSON(t, app, http.MethodPost, "/api/posts/comment", fiber.Map{
			"postId": post.ID, "userId": "unregistered", "text": "hi",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, models.CodeNotFound, decode[models.ErrorResponse](t, raw).Code)

		status, raw = doJSON(t, app, http.MethodGet, "/api/posts/"+post.ID+"/comments", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 1, decode[models.CommentThread](t, raw).CommentsCount)
	})

	t.Run("delete comment", func(t *testing.T) {
		status, raw := doJSON(t, app, http.MethodPost, "/api/posts/delete-comment", fiber.Map{
			"postId": post.ID, "commentId": commentID, "userId": "ana",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 1, decode[models.CommentThread](t, raw).CommentsCount, "non-author delete is a no-op")

		status, raw = doJSON(t, app, http.MethodPost, "/api/posts/delete-comment", fiber.Map{
			"postId": post.ID, "commentId": commentID, "userId": "u2",
		})
		require.Equal(t, http.StatusOK, status)
		thread := decode[models.CommentThread](t, raw)
		assert.Empty(t, thread.Comments)
		assert.Zero(t, thread.CommentsCount)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/like", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestIdentityTokenGatesExplicitIDs(t *testing.T) {
	app := setupTestApp(t, testJWTSecret)
	signup(t, app, "ana", "Ana", "storeowner")
	signup(t, app, "u2", "Sam", "client")
	post := createPost(t, app, "ana", "women")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u2",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	status, raw := doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": post.ID, "userId": "ana"}, auth...)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.CodeForbidden, decode[models.ErrorResponse](t, raw).Code)

	status, raw = doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": post.ID}, auth...)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, []string{"u2"}, decode[map[string][]string](t, raw)["likes"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/posts/"+post.ID, nil, auth...)
	assert.Equal(t, http.StatusForbidden, status, "token identity is not the owner")

	status, _ = doJSON(t, app, http.MethodPost, "/api/posts/like", fiber.Map{"postId": post.ID, "userId": "u2"},
		"Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}
