package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"larder/internal/cache"

	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(NewStorage(cache.NewInMemoryCache())).Register(mux)
	return mux
}

func decodeBody(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchUser(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/users", `{"email":"Cook@Example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created User
	require.NoError(t, decodeBody(rec, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, []string{"cook@example.com"}, created.Email)

	rec = doJSON(t, mux, http.MethodGet, "/users?id="+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/users?email=cook@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched User
	require.NoError(t, decodeBody(rec, &fetched))
	require.Equal(t, created.ID, fetched.ID)
}

func TestCreateIsIdempotentPerEmail(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/users", `{"email":"cook@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var first User
	require.NoError(t, decodeBody(rec, &first))

	rec = doJSON(t, mux, http.MethodPost, "/users", `{"email":"COOK@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var second User
	require.NoError(t, decodeBody(rec, &second))

	require.Equal(t, first.ID, second.ID)
}

func TestUserBadRequests(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/users", `{"email":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/users?id=nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/users", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
