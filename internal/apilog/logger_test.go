package apilog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/database"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/identity"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	entries []models.ExternalLog
	err     error
	onSave  func()
}

func (m *memStore) SaveExternalLog(_ context.Context, entry *models.ExternalLog) error {
	if m.onSave != nil {
		m.onSave()
	}
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

type panicStore struct{}

func (panicStore) SaveExternalLog(context.Context, *models.ExternalLog) error {
	panic("db gone")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func uintPtr(v uint) *uint { return &v }

func TestLogAPICall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"q":"go"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	store := &memStore{}
	l := New(srv.Client(), store, quietLog())

	resp, err := l.LogAPICall(context.Background(), Call{
		Service:     "adzuna",
		Endpoint:    srv.URL + "/search",
		Method:      http.MethodPost,
		RequestData: map[string]string{"q": "go"},
		UserID:      uintPtr(7),
	})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body), "caller still reads the body")

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, "adzuna", e.Service)
	assert.Equal(t, srv.URL+"/search", e.Endpoint)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.JSONEq(t, `{"q":"go"}`, string(e.RequestData))
	assert.JSONEq(t, `{"ok":true}`, string(e.ResponseData))
	assert.Equal(t, http.StatusOK, e.StatusCode)
	assert.True(t, e.Success)
	assert.Nil(t, e.ErrorMessage)
	require.NotNil(t, e.UserID)
	assert.Equal(t, uint(7), *e.UserID)
}

func TestLogAPICall_NonJSONAndErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	store := &memStore{}
	resp, err := New(srv.Client(), store, quietLog()).LogAPICall(context.Background(), Call{
		Service:  "adzuna",
		Endpoint: srv.URL,
	})
	require.NoError(t, err, "HTTP error statuses are responses, not errors")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, http.MethodGet, e.Method)
	assert.Nil(t, e.RequestData)
	assert.Nil(t, e.ResponseData, "unparseable payloads are stored as null")
	assert.False(t, e.Success)
	require.NotNil(t, e.ErrorMessage)
	assert.Contains(t, *e.ErrorMessage, "502")
	assert.Nil(t, e.UserID)
}

func TestLogAPICall_TransportErrorIsRecordedThenReturned(t *testing.T) {
	boom := errors.New("connection reset")
	sent := false
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		sent = true
		return nil, boom
	})}

	store := &memStore{onSave: func() {
		assert.True(t, sent, "network call must happen before the log write")
	}}
	resp, err := New(client, store, quietLog()).LogAPICall(context.Background(), Call{
		Service:  "llm",
		Endpoint: "http://upstream.invalid/v1",
		UserID:   uintPtr(3),
	})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, 0, e.StatusCode)
	assert.False(t, e.Success)
	require.NotNil(t, e.ErrorMessage)
	assert.Contains(t, *e.ErrorMessage, "connection reset")
}

func TestLogAPICall_StoreFailureDoesNotMaskOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"upstream"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	for _, store := range []Store{&memStore{err: errors.New("db unavailable")}, panicStore{}} {
		l := New(srv.Client(), store, quietLog())

		resp, err := l.LogAPICall(context.Background(), Call{Service: "s", Endpoint: srv.URL + "/ok"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"ok":true}`, string(body))

		resp, err = l.LogAPICall(context.Background(), Call{Service: "s", Endpoint: srv.URL + "/fail"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}

	boom := errors.New("dial tcp: refused")
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, boom })}
	_, err := New(client, &memStore{err: errors.New("db unavailable")}, quietLog()).
		LogAPICall(context.Background(), Call{Service: "s", Endpoint: "http://x.invalid"})
	assert.ErrorIs(t, err, boom, "the transport error wins over the log failure")
}

func TestLogAPICall_BadEndpoint(t *testing.T) {
	store := &memStore{}
	_, err := New(nil, store, quietLog()).LogAPICall(context.Background(), Call{Service: "s", Endpoint: "://nope"})
	require.Error(t, err)
	require.Len(t, store.entries, 1)
	assert.Equal(t, 0, store.entries[0].StatusCode)
}

func TestLogAPICall_RedactsSecrets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("app_key"), "upstream still receives the key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := &memStore{}
	_, err := New(srv.Client(), store, quietLog()).LogAPICall(context.Background(), Call{
		Service:  "adzuna",
		Endpoint: srv.URL + "/search?app_id=abc&app_key=secret&what=go",
	})
	require.NoError(t, err)
	require.Len(t, store.entries, 1)
	assert.NotContains(t, store.entries[0].Endpoint, "secret")
	assert.Contains(t, store.entries[0].Endpoint, "app_key=REDACTED")
	assert.Contains(t, store.entries[0].Endpoint, "what=go")
}

func TestDoer_RecordsRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"m"}`, string(body))
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	store := &memStore{}
	doer := New(srv.Client(), store, quietLog()).Doer("llm", uintPtr(9))

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"model":"m"}`))
	require.NoError(t, err)
	resp, err := doer.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, store.entries, 1)
	assert.Equal(t, "llm", store.entries[0].Service)
	assert.JSONEq(t, `{"model":"m"}`, string(store.entries[0].RequestData))
	assert.Equal(t, uint(9), *store.entries[0].UserID)
}

func TestGormStore_SaveAndList(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	store := NewGormStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveExternalLog(ctx, &models.ExternalLog{Service: "adzuna", Method: "GET", UserID: uintPtr(1)}))
	require.NoError(t, store.SaveExternalLog(ctx, &models.ExternalLog{Service: "llm", Method: "POST", UserID: uintPtr(1)}))
	require.NoError(t, store.SaveExternalLog(ctx, &models.ExternalLog{Service: "llm", Method: "POST", UserID: uintPtr(2)}))

	all, err := store.List(ctx, 1, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	llm, err := store.List(ctx, 1, "llm", 10)
	require.NoError(t, err)
	require.Len(t, llm, 1)
	assert.Equal(t, "POST", llm[0].Method)
}

func TestCallFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("body and user", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/settings/test/llm", strings.NewReader(`{"model":"x"}`))
		c.Set(identity.ContextKey, uint(5))

		call, err := CallFromRequest(c, "llm")
		require.NoError(t, err)
		assert.Equal(t, "llm", call.Service)
		assert.Equal(t, "/api/v1/settings/test/llm", call.Endpoint)
		assert.Equal(t, http.MethodPost, call.Method)
		require.NotNil(t, call.RequestData)
		require.NotNil(t, call.UserID)
		assert.Equal(t, uint(5), *call.UserID)

		rest, _ := io.ReadAll(c.Request.Body)
		assert.Equal(t, `{"model":"x"}`, string(rest), "body is restored")
	})

	t.Run("empty body and no user", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("  "))

		call, err := CallFromRequest(c, "adzuna")
		require.NoError(t, err)
		assert.Nil(t, call.RequestData)
		assert.Nil(t, call.UserID)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{"))

		_, err := CallFromRequest(c, "adzuna")
		assert.Error(t, err)
	})
}
