package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/nickchat/internal/api"
	"github.com/mcoot/nickchat/internal/api/apierr"
	"github.com/mcoot/nickchat/internal/api/response"
	"github.com/mcoot/nickchat/internal/factory"
	"github.com/mcoot/nickchat/internal/middleware"
	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/services/admin"
	"github.com/mcoot/nickchat/internal/services/chat"
	"github.com/mcoot/nickchat/internal/services/nick"
	"github.com/mcoot/nickchat/internal/storage"
	"github.com/mcoot/nickchat/internal/testutil"
)

const testSecret = "s3cret"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, rl *middleware.RateLimiter) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		APISecretKey: testSecret,
		StorageType:  app.StorageType,
		NickService:  app.NickService,
		ChatService:  app.ChatService,
		AdminService: app.AdminService,
		Metrics:      app.Metrics,
		RateLimiter:  rl,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.HealthResponse](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.Storage)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestNickScenario(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/player/u1/nick", map[string]string{"nick": "Zed"}, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Nick updated successfully", decode[response.MessageResponse](t, rr).Message)

	rr = ts.request(http.MethodGet, "/player/u1/nick", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Zed", decode[response.NickResponse](t, rr).Nick)

	rr = ts.request(http.MethodDelete, "/admin/player/u1", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	del := decode[response.DeletePlayerResponse](t, rr)
	assert.Equal(t, "u1", del.AuthID)
	assert.Equal(t, int64(1), del.DeletedCount)
	assert.NotEmpty(t, del.Message)

	rr = ts.request(http.MethodGet, "/player/u1/nick", nil, testSecret)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, "Player not found", errResp.Error)
	assert.Equal(t, apierr.CodePlayerNotFound, errResp.Code)
}

func TestSetNickOverwrites(t *testing.T) {
	ts := newTestServer(t)

	for _, n := range []string{"Zed", "Zed", "Zoe"} {
		rr := ts.request(http.MethodPost, "/player/u1/nick", map[string]string{"nick": n}, testSecret)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/player/u1/nick", nil, testSecret)
	assert.Equal(t, "Zoe", decode[response.NickResponse](t, rr).Nick)
}

func TestSetNickValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{"missing nick", map[string]string{}, "Missing 'nick' in JSON body"},
		{"empty nick", map[string]string{"nick": ""}, "Missing 'nick' in JSON body"},
		{"empty body", nil, "Missing 'nick' in JSON body"},
		{"malformed json", `{"nick":`, "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/player/u1/nick", tt.body, testSecret)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decode[apierr.ErrorResponse](t, rr)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.Equal(t, apierr.CodeInvalidRequest, resp.Code)
		})
	}

	rr := ts.request(http.MethodGet, "/player/u1/nick", nil, testSecret)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNickCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/nicks/check?name=Alice", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[response.ExistsResponse](t, rr).Exists)

	rr = ts.request(http.MethodPost, "/player/x/nick", map[string]string{"nick": "ALICE"}, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)

	for _, name := range []string{"Alice", "alice", "ALICE"} {
		rr = ts.request(http.MethodGet, "/nicks/check?name="+name, nil, testSecret)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[response.ExistsResponse](t, rr).Exists, name)
	}

	rr = ts.request(http.MethodGet, "/nicks/check", nil, testSecret)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing 'name' query parameter", decode[apierr.ErrorResponse](t, rr).Error)
}

func TestChatPostAndList(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	for i := 1; i <= 35; i++ {
		body := map[string]string{"nick": "Zed", "message_text": fmt.Sprintf("m%d", i)}
		rr = ts.request(http.MethodPost, "/chat/message", body, testSecret)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, int64(i), decode[response.PostMessageResponse](t, rr).MessageID)
		ts.app.MockClock.Advance(time.Second)
	}

	rr = ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	msgs := decode[[]response.ChatMessage](t, rr)
	require.Len(t, msgs, 30)
	assert.Equal(t, "m6", msgs[0].MessageText)
	assert.Equal(t, "m35", msgs[29].MessageText)
	for i := 1; i < len(msgs); i++ {
		assert.Less(t, msgs[i-1].MessageID, msgs[i].MessageID)
	}
	assert.Equal(t, "Zed", msgs[0].Nick)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC), msgs[0].Timestamp)
}

func TestChatListFieldNames(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"nick": "Zed", "message_text": "hi"}
	require.Equal(t, http.StatusCreated, ts.request(http.MethodPost, "/chat/message", body, testSecret).Code)

	rr := ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Zed", raw[0]["nick"])
	assert.Equal(t, "hi", raw[0]["message_text"])
	assert.Equal(t, "2024-01-01T12:00:00Z", raw[0]["timestamp"])
	assert.Equal(t, float64(1), raw[0]["message_id"])
}

func TestChatPostValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []map[string]string{
		{"nick": "Zed"},
		{"message_text": "hi"},
		{"nick": "", "message_text": "hi"},
	} {
		rr := ts.request(http.MethodPost, "/chat/message", body, testSecret)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func postMessages(t *testing.T, ts *testServer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		body := map[string]string{"nick": "Zed", "message_text": fmt.Sprintf("m%d", i+1)}
		require.Equal(t, http.StatusCreated, ts.request(http.MethodPost, "/chat/message", body, testSecret).Code)
	}
}

func TestDeleteRange(t *testing.T) {
	ts := newTestServer(t)
	postMessages(t, ts, 10)

	rr := ts.request(http.MethodPost, "/admin/chat/delete_range", map[string]int{"start_id": 3, "end_id": 5}, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(3), decode[response.DeleteRangeResponse](t, rr).DeletedCount)

	// Numeric strings are accepted too
	rr = ts.request(http.MethodPost, "/admin/chat/delete_range", map[string]string{"start_id": "7", "end_id": "7"}, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), decode[response.DeleteRangeResponse](t, rr).DeletedCount)

	rr = ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	msgs := decode[[]response.ChatMessage](t, rr)
	require.Len(t, msgs, 6)
	for _, m := range msgs {
		assert.NotContains(t, []int64{3, 4, 5, 7}, m.MessageID)
	}
}

func TestDeleteRangeEmptyIsSuccess(t *testing.T) {
	ts := newTestServer(t)
	postMessages(t, ts, 2)

	rr := ts.request(http.MethodPost, "/admin/chat/delete_range", map[string]int{"start_id": 50, "end_id": 60}, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, decode[response.DeleteRangeResponse](t, rr).DeletedCount)
}

func TestDeleteRangeValidation(t *testing.T) {
	ts := newTestServer(t)
	postMessages(t, ts, 5)

	for _, body := range []string{
		`{"start_id": 5, "end_id": 3}`,
		`{"start_id": 5}`,
		`{"end_id": 3}`,
		`{"start_id": "a", "end_id": 3}`,
		`{"start_id": 1.5, "end_id": 3}`,
		`{"start_id": true, "end_id": 3}`,
		`not json`,
	} {
		rr := ts.request(http.MethodPost, "/admin/chat/delete_range", body, testSecret)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Code, body)
	}

	rr := ts.request(http.MethodGet, "/chat/messages", nil, testSecret)
	assert.Len(t, decode[[]response.ChatMessage](t, rr), 5)
}

func TestAdminDeleteUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/admin/player/ghost", nil, testSecret)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Player not found", decode[apierr.ErrorResponse](t, rr).Error)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/player/u1/nick"},
		{http.MethodPost, "/player/u1/nick"},
		{http.MethodGet, "/nicks/check?name=x"},
		{http.MethodGet, "/chat/messages"},
		{http.MethodPost, "/chat/message"},
		{http.MethodDelete, "/admin/player/u1"},
		{http.MethodPost, "/admin/chat/delete_range"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/does/not/exist"},
	} {
		rr := ts.request(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
		assert.Equal(t, "Missing Authorization Header", decode[apierr.ErrorResponse](t, rr).Error, tc.path)
	}
}

func TestWrongToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/chat/messages", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid API Key", decode[apierr.ErrorResponse](t, rr).Error)
}

func TestLowerCaseSchemeAccepted(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/messages", nil)
	req.Header.Set("Authorization", "bearer "+testSecret)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/does/not/exist", nil, testSecret)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorResponse](t, rr).Code)

	rr = ts.request(http.MethodPut, "/chat/messages", nil, testSecret)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, apierr.CodeMethodNotAllowed, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	postMessages(t, ts, 2)

	rr := ts.request(http.MethodGet, "/metrics", nil, testSecret)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "nickchat_chat_messages_total 2")
	assert.Contains(t, body, `path="/chat/message"`)
}

func TestMetricsCountRejectedRequests(t *testing.T) {
	ts := newTestServer(t)
	requests := ts.app.Metrics.HTTPRequestsTotal

	ts.request(http.MethodGet, "/chat/messages", nil, "")
	ts.request(http.MethodGet, "/does/not/exist", nil, testSecret)
	ts.request(http.MethodPut, "/chat/messages", nil, testSecret)
	ts.request(http.MethodGet, "/chat/messages", nil, testSecret)

	assert.Equal(t, float64(1), promtestutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "unmatched", "401")))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(requests.WithLabelValues(http.MethodPut, "unmatched", "405")))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "/chat/messages", "200")))
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2, time.Minute)
	ts := newTestServerWith(t, rl)

	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/", nil, "").Code)
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/", nil, "").Code)

	rr := ts.request(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, apierr.CodeTooManyRequests, decode[apierr.ErrorResponse](t, rr).Code)
}

// failingStorage returns the same error from every call
type failingStorage struct {
	storage.Storage
	err error
}

func (f failingStorage) GetNick(context.Context, model.AuthID) (*model.PlayerNick, error) {
	return nil, f.err
}

func (f failingStorage) RecentMessages(context.Context, int) ([]model.ChatMessage, error) {
	return nil, f.err
}

func TestStorageErrorsAre500WithMessage(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	store := failingStorage{err: errors.New("get nick: database is locked")}
	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		APISecretKey: testSecret,
		NickService:  nick.New(store, app.MockClock, logger),
		ChatService:  chat.New(store, app.MockClock, logger),
		AdminService: admin.New(store, logger),
	})

	req := httptest.NewRequest(http.MethodGet, "/player/u1/nick", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, "get nick: database is locked", resp.Error)
	assert.Equal(t, apierr.CodeInternalError, resp.Code)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "/player/u1/nick")
}
