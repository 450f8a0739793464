package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-posts/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-posts/internal/repositories"
	"github.com/bionicotaku/lingo-services-posts/internal/server"
	"github.com/bionicotaku/lingo-services-posts/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

type postBody struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type testServer struct {
	*httptest.Server
	store repositories.PostBackend
}

func newTestServer(t *testing.T, store repositories.PostBackend) *testServer {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	if store == nil {
		store = repositories.NewMemoryPostRepository(logger)
	}

	tel, cleanup, err := server.NewTelemetry(loader.ServiceMetadata{Name: "posts-test", Version: "test"}, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc := services.NewPostService(store, logger)
	handler := controllers.NewPostHandler(svc, controllers.NewBaseHandler(controllers.HandlerTimeouts{}))
	srv := server.NewHTTPServer(&loader.Server{}, tel, handler, store, logger)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *stdhttp.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := stdhttp.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *stdhttp.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) create(t *testing.T, title, content string) postBody {
	t.Helper()
	resp := s.do(t, stdhttp.MethodPost, "/posts", fmt.Sprintf(`{"title":%q,"content":%q}`, title, content))
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	return decode[postBody](t, resp)
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, stdhttp.MethodGet, "/", "")
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "Hello World", body["message"])
}

func TestCreateThenGet(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.create(t, "t", "c")
	require.NotZero(t, created.ID)
	require.Equal(t, "t", created.Title)
	require.Equal(t, "c", created.Content)
	require.True(t, created.Published)

	resp := s.do(t, stdhttp.MethodGet, fmt.Sprintf("/posts/%d", created.ID), "")
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Equal(t, created, decode[postBody](t, resp))
}

func TestCreateResponseShape(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, stdhttp.MethodPost, "/posts", `{"title":"t","content":"c","published":false}`)
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)

	raw := decode[map[string]any](t, resp)
	require.ElementsMatch(t, []string{"id", "title", "content", "published"}, keys(raw))
	require.Equal(t, false, raw["published"])
}

func TestGetMissing(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, stdhttp.MethodGet, "/posts/999999", "")
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)

	body := decode[errorBody](t, resp)
	require.Equal(t, 404, body.Code)
	require.Equal(t, services.ReasonPostNotFound, body.Reason)
	require.Equal(t, "post with id: 999999 was not found", body.Message)
}

func TestDeleteLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.create(t, "t", "c")
	path := fmt.Sprintf("/posts/%d", created.ID)

	resp := s.do(t, stdhttp.MethodDelete, path, "")
	require.Equal(t, stdhttp.StatusNoContent, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Empty(t, payload)

	resp = s.do(t, stdhttp.MethodGet, path, "")
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)

	resp = s.do(t, stdhttp.MethodDelete, path, "")
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	body := decode[errorBody](t, resp)
	require.Equal(t, fmt.Sprintf("post with id: %d does not exist", created.ID), body.Message)
}

func TestDeleteMissingLeavesStoreUnchanged(t *testing.T) {
	s := newTestServer(t, nil)
	s.create(t, "a", "1")
	s.create(t, "b", "2")

	resp := s.do(t, stdhttp.MethodDelete, "/posts/999999", "")
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)

	posts, err := s.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestUpdatePartial(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.create(t, "t", "c")
	path := fmt.Sprintf("/posts/%d", created.ID)

	resp := s.do(t, stdhttp.MethodPut, path, `{"title":"renamed","id":4242}`)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	updated := decode[postBody](t, resp)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "c", updated.Content)
	require.True(t, updated.Published)

	resp = s.do(t, stdhttp.MethodGet, path, "")
	require.Equal(t, updated, decode[postBody](t, resp))

	resp = s.do(t, stdhttp.MethodPut, path, `{"TITLE":"other","Published":false}`)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Equal(t, updated, decode[postBody](t, resp))

	resp = s.do(t, stdhttp.MethodPut, path, `{}`)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Equal(t, updated, decode[postBody](t, resp))
}

func TestCreateIgnoresDifferentlyCasedKeys(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, stdhttp.MethodPost, "/posts", `{"title":"a","Title":"b","content":"c","Published":false,"PUBLISHED":"yes"}`)
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	created := decode[postBody](t, resp)
	require.Equal(t, "a", created.Title)
	require.True(t, created.Published)
}

func TestOversizedBodyRejected(t *testing.T) {
	s := newTestServer(t, nil)
	body := fmt.Sprintf(`{"title":"t","content":%q}`, strings.Repeat("x", controllers.MaxRequestBodyBytes))
	resp := s.do(t, stdhttp.MethodPost, "/posts", body)
	require.Equal(t, stdhttp.StatusRequestEntityTooLarge, resp.StatusCode)

	posts, err := s.store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestUpdateMissing(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(t, stdhttp.MethodPut, "/posts/31337", `{"title":"x","content":"y"}`)
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	body := decode[errorBody](t, resp)
	require.Equal(t, "post with id: 31337 does not exist", body.Message)
}

func TestListAfterCreates(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.do(t, stdhttp.MethodGet, "/posts", "")
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	empty := decode[map[string][]postBody](t, resp)
	require.Contains(t, empty, "data")
	require.Empty(t, empty["data"])

	const n = 5
	for i := 0; i < n; i++ {
		s.create(t, fmt.Sprintf("t%d", i), "c")
	}
	resp = s.do(t, stdhttp.MethodGet, "/posts", "")
	list := decode[map[string][]postBody](t, resp)
	require.Len(t, list["data"], n)

	ids := make(map[int64]struct{})
	for _, p := range list["data"] {
		ids[p.ID] = struct{}{}
	}
	require.Len(t, ids, n)
}

func TestInvalidPayloadsReturn422(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct {
		method, path, body string
	}{
		{stdhttp.MethodPost, "/posts", `{"content":"missing title"}`},
		{stdhttp.MethodPost, "/posts", `{"title":"t","content":"c","published":"yes"}`},
		{stdhttp.MethodPost, "/posts", `not json`},
		{stdhttp.MethodPost, "/posts", ``},
		{stdhttp.MethodPut, "/posts/1", `{"title":7}`},
		{stdhttp.MethodPost, "/posts", `{"TITLE":"t","CONTENT":"c"}`},
		{stdhttp.MethodGet, "/posts/abc", ``},
		{stdhttp.MethodDelete, "/posts/abc", ``},
		{stdhttp.MethodPut, "/posts/abc", `{"title":"x"}`},
	}
	for _, tc := range cases {
		resp := s.do(t, tc.method, tc.path, tc.body)
		require.Equal(t, stdhttp.StatusUnprocessableEntity, resp.StatusCode, "%s %s %s", tc.method, tc.path, tc.body)
	}

	posts, err := s.store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.do(t, stdhttp.MethodGet, "/posts", "")
	require.NotEmpty(t, resp.Header.Get(server.HeaderRequestID))

	req, err := stdhttp.NewRequest(stdhttp.MethodGet, s.URL+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set(server.HeaderRequestID, "client-supplied")
	resp2, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, "client-supplied", resp2.Header.Get(server.HeaderRequestID))
}

func TestProbesAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	require.Equal(t, stdhttp.StatusOK, s.do(t, stdhttp.MethodGet, "/healthz", "").StatusCode)
	require.Equal(t, stdhttp.StatusOK, s.do(t, stdhttp.MethodGet, "/readyz", "").StatusCode)

	s.do(t, stdhttp.MethodGet, "/posts", "")
	resp := s.do(t, stdhttp.MethodGet, "/metrics", "")
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(metrics), "server_requests")
}

type downStore struct {
	repositories.PostBackend
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestReadinessReflectsStoreHealth(t *testing.T) {
	s := newTestServer(t, downStore{PostBackend: repositories.NewMemoryPostRepository(log.NewStdLogger(io.Discard))})
	resp := s.do(t, stdhttp.MethodGet, "/readyz", "")
	require.Equal(t, stdhttp.StatusServiceUnavailable, resp.StatusCode)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
