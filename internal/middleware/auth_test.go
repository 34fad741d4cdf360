package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"indexapi/internal/model"
	"indexapi/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeyRepo struct {
	records map[string]*model.KeyRecord
}

func (f *fakeKeyRepo) GetByHash(_ context.Context, hash string) (*model.KeyRecord, error) {
	return f.records[hash], nil
}

func (f *fakeKeyRepo) Insert(context.Context, *model.KeyRecord) error { return nil }

func (f *fakeKeyRepo) UpdateStatusBySubscription(context.Context, string, string, string) error {
	return nil
}

func authFixture(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	repo := &fakeKeyRepo{records: map[string]*model.KeyRecord{
		service.HashToken("good-token"):     {TokenHash: service.HashToken("good-token"), Plan: "pro", Status: model.KeyStatusActive},
		service.HashToken("inactive-token"): {TokenHash: service.HashToken("inactive-token"), Plan: "pro", Status: model.KeyStatusInactive},
	}}
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		rec, ok := KeyFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "pro", rec.Plan)
		w.WriteHeader(http.StatusOK)
	})
	return Auth(repo, zerolog.Nop())(next), &reached
}

func TestAuthMissingToken(t *testing.T) {
	h, reached := authFixture(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/index", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *reached)
	assert.JSONEq(t, `{"error": "Missing bearer token"}`, rr.Body.String())
}

func TestAuthMalformedHeader(t *testing.T) {
	h, reached := authFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.Header.Set("Authorization", "Basic abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *reached)
}

func TestAuthUnknownToken(t *testing.T) {
	h, reached := authFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, *reached)
}

func TestAuthInactiveKey(t *testing.T) {
	h, reached := authFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.Header.Set("Authorization", "Bearer inactive-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, *reached)
}

func TestAuthActiveKeyProceeds(t *testing.T) {
	h, reached := authFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, *reached)
}
