package assist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, generator Generator) (*Handler, http.Handler) {
	t.Helper()

	client := NewClient(generator, testClientConfig())
	sessions := NewSessionManager(client, time.Millisecond, time.Minute)
	t.Cleanup(sessions.Stop)

	h := NewHandler(sessions, NewChatbot(generator, time.Second))
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterAgentRoutes(r)
	return h, r
}

func TestHandler_SessionLifecycle(t *testing.T) {
	generator := &fakeGenerator{replies: []string{sampleCompletion}}
	_, router := newTestHandler(t, generator)

	body := strings.NewReader(`{"short_description":"Total Fiber outage","description":"Red LOS light"}`)
	req := httptest.NewRequest(http.MethodPut, "/assist/sessions/edit-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, SessionDebouncing, accepted.Data.State)
	assert.Nil(t, accepted.Data.Suggestion)

	// Poll until the cycle resolves
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/assist/sessions/edit-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var resp struct {
			Data SessionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if resp.Data.State != SessionResolved {
			return false
		}
		require.NotNil(t, resp.Data.Suggestion)
		assert.Equal(t, "EAL-04-FIBER-RACK", resp.Data.Suggestion.SuggestedCI)
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestHandler_GetUnknownSessionIsIdle(t *testing.T) {
	_, router := newTestHandler(t, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/assist/sessions/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, SessionIdle, resp.Data.State)
	assert.Nil(t, resp.Data.Suggestion)
}

func TestHandler_Chat(t *testing.T) {
	generator := &fakeGenerator{replies: []string{"Try rebooting the ONT."}}
	_, router := newTestHandler(t, generator)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"broadband down"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Try rebooting the ONT.", resp.Data["reply"])
}

func TestHandler_Chat_RequiresMessage(t *testing.T) {
	_, router := newTestHandler(t, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
