package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"indexapi/internal/middleware"
	"indexapi/internal/model"
	"indexapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlertRepo struct {
	subs []*model.AlertSubscription
}

func (f *fakeAlertRepo) Insert(_ context.Context, sub *model.AlertSubscription) error {
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeAlertRepo) ListTelegramChatIDs(context.Context) ([]string, error) { return nil, nil }

func alertFixture() (*AlertHandler, *fakeAlertRepo) {
	repo := &fakeAlertRepo{}
	svc := service.NewAlertService(repo, zerolog.Nop())
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAlertHandler(svc, validate, zerolog.Nop()), repo
}

func subscribeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/alerts/subscribe", strings.NewReader(body))
	rec := &model.KeyRecord{TokenHash: "hash", Plan: "pro", Status: model.KeyStatusActive}
	ctx := context.WithValue(req.Context(), middleware.KeyContextKey, rec)
	return req.WithContext(ctx)
}

func TestSubscribeEmptyBody(t *testing.T) {
	h, repo := alertFixture()
	rr := httptest.NewRecorder()
	h.Subscribe(rr, subscribeRequest(`{}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error": "Provide email or telegramChatId"}`, rr.Body.String())
	assert.Empty(t, repo.subs)
}

func TestSubscribeWithEmail(t *testing.T) {
	h, repo := alertFixture()
	rr := httptest.NewRecorder()
	h.Subscribe(rr, subscribeRequest(`{"email": "a@b.com"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())
	require.Len(t, repo.subs, 1)
	require.NotNil(t, repo.subs[0].Email)
	assert.Equal(t, "a@b.com", *repo.subs[0].Email)
	assert.Nil(t, repo.subs[0].TelegramChatID)
	assert.Equal(t, "hash", repo.subs[0].KeyHash)
}

func TestSubscribeWithTelegramChatID(t *testing.T) {
	h, repo := alertFixture()
	rr := httptest.NewRecorder()
	h.Subscribe(rr, subscribeRequest(`{"telegramChatId": "12345"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, repo.subs, 1)
	require.NotNil(t, repo.subs[0].TelegramChatID)
	assert.Equal(t, "12345", *repo.subs[0].TelegramChatID)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	h, repo := alertFixture()
	rr := httptest.NewRecorder()
	h.Subscribe(rr, subscribeRequest(`{"email": "not-an-email"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, repo.subs)
}

func TestSubscribeMalformedJSON(t *testing.T) {
	h, repo := alertFixture()
	rr := httptest.NewRecorder()
	h.Subscribe(rr, subscribeRequest(`{`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, repo.subs)
}
