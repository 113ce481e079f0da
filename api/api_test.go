package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"studio/auth"
	"studio/content"
	"studio/docstore"
	"studio/session"
)

type fakeBlobStore struct {
	uploads []string
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error { return nil }

type testEnv struct {
	router *gin.Engine
	blobs  *fakeBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	blobs := &fakeBlobStore{}

	authSvc := auth.NewService(store, auth.LogMailer{}, auth.Config{})
	if _, err := authSvc.CreateUser(context.Background(), "owner@example.com", "hunter22"); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	sessions := session.NewManager(authSvc)
	t.Cleanup(sessions.Close)

	contentSvc := content.NewService(store, content.Config{Blobs: blobs})
	if err := contentSvc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}

	server := NewServer(contentSvc, sessions, nil, tokens)
	return &testEnv{router: NewRouter(server, nil), blobs: blobs}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("unexpected login response: %s", w.Body.String())
	}
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ready":true`) {
		t.Fatalf("expected ready flag, got %s", w.Body.String())
	}
}

func TestStudioRoutesRejectAnonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/blogs", "", map[string]string{"title": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Fatalf("expected tagged failure, got %s", w.Body.String())
	}
}

func TestStudioRoutesRejectBadToken(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/api/blogs", "not-a-token", map[string]string{"title": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginWrongPasswordMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect password") {
		t.Fatalf("expected mapped message, got %s", w.Body.String())
	}
}

func TestBlogCRUDThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPost, "/api/blogs", token, map[string]any{
		"title":    "Hello",
		"excerpt":  "hi",
		"content":  "<p>hi</p>",
		"featured": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("unexpected create response: %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/blogs/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get failed: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"title":"Hello"`) {
		t.Fatalf("unexpected blog body: %s", w.Body.String())
	}

	w = env.do(t, http.MethodPut, "/api/blogs/"+created.ID, token, map[string]string{"title": "Hello again"})
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/blogs", "", nil)
	if !strings.Contains(w.Body.String(), "Hello again") {
		t.Fatalf("list missing updated title: %s", w.Body.String())
	}

	w = env.do(t, http.MethodDelete, "/api/blogs/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/blogs/"+created.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUpdateMissingBlogReturns404(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPut, "/api/blogs/ghost", token, map[string]string{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}
}

func TestCreateCategoryAcceptsBareString(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`"Foo"`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bare string create failed: %d %s", w.Code, w.Body.String())
	}

	list := env.do(t, http.MethodGet, "/api/categories", "", nil)
	if !strings.Contains(list.Body.String(), `"type":"blog"`) {
		t.Fatalf("expected defaulted blog type, got %s", list.Body.String())
	}
}

func TestUploadPrefixesTimestampedKey(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cover image.png")
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := part.Write([]byte("png bytes")); err != nil {
		t.Fatalf("multipart write: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}
	if len(env.blobs.uploads) != 1 {
		t.Fatalf("expected one stored object, got %v", env.blobs.uploads)
	}
	key := env.blobs.uploads[0]
	if !strings.HasPrefix(key, "uploads/") || !strings.HasSuffix(key, "_cover_image.png") {
		t.Fatalf("unexpected upload key %q", key)
	}
}

func TestProfileUpdateAndRead(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPut, "/api/profile", token, map[string]any{
		"name":    "Jo",
		"tagline": "writer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("profile update failed: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/profile", "", nil)
	if !strings.Contains(w.Body.String(), `"name":"Jo"`) {
		t.Fatalf("unexpected profile: %s", w.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}

	// Token is still cryptographically valid, but no identity is
	// signed in anymore.
	w = env.do(t, http.MethodPost, "/api/blogs", token, map[string]string{"title": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
