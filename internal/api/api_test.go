package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sala-livre/batepapo/internal/api"
	"github.com/sala-livre/batepapo/internal/api/response"
	"github.com/sala-livre/batepapo/internal/factory"
	"github.com/sala-livre/batepapo/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		PresenceService: app.PresenceService,
		ChatService:     app.ChatService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
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

// requestAsUser issues a request identified via the legacy User header
func (ts *testServer) requestAsUser(method, path string, body any, user string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User", user)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// join registers a participant and returns its session token
func (ts *testServer) join(t *testing.T, name string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/participants", map[string]string{"name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code    string   `json:"code"`
			Message string   `json:"message"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterParticipant(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/participants", map[string]string{"name": "Ana"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Ana", resp.Participant.Name)
	assert.NotEmpty(t, resp.SessionToken)

	// Join announcement lands in the message log
	ts.app.Announcer.Wait()
	rr = ts.request(http.MethodGet, "/messages", nil, resp.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "Ana", messages[0].From)
	assert.Equal(t, model.JoinText, messages[0].Text)
	assert.Equal(t, model.TypeStatus, messages[0].Type)
}

func TestRegisterDuplicateName(t *testing.T) {
	ts := newTestServer(t)
	ts.join(t, "Ana")

	rr := ts.request(http.MethodPost, "/participants", map[string]string{"name": "Ana"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NAME_TAKEN", errorCode(t, rr))
}

func TestRegisterBlankName(t *testing.T) {
	ts := newTestServer(t)

	// Markup-only names sanitize to empty and fail validation
	rr := ts.request(http.MethodPost, "/participants", map[string]string{"name": "<script>hi</script>"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rr))
}

func TestListParticipants(t *testing.T) {
	ts := newTestServer(t)
	ts.join(t, "Ana")
	ts.join(t, "Beto")

	rr := ts.request(http.MethodGet, "/participants", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var participants []response.Participant
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participants))
	require.Len(t, participants, 2)
	assert.Equal(t, "Beto", participants[0].Name)
	assert.Equal(t, "Ana", participants[1].Name)
}

func TestSendAndListMessages(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")
	betoToken := ts.join(t, "Beto")
	ts.app.Announcer.Wait()

	// Broadcast
	rr := ts.request(http.MethodPost, "/messages", map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "bom dia",
		"type": model.TypeMessage,
	}, anaToken)
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var sent response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sent))
	assert.Equal(t, "Ana", sent.From)
	assert.NotEmpty(t, sent.ID)

	// Private to Beto
	rr = ts.request(http.MethodPost, "/messages", map[string]string{
		"to":   "Beto",
		"text": "segredo",
		"type": model.TypePrivate,
	}, anaToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Beto sees both
	rr = ts.request(http.MethodGet, "/messages", nil, betoToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var visible []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &visible))

	texts := make([]string, 0, len(visible))
	for _, m := range visible {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, "bom dia")
	assert.Contains(t, texts, "segredo")
}

func TestPrivateMessageHiddenFromThirdParty(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")
	ts.join(t, "Beto")
	carlaToken := ts.join(t, "Carla")
	ts.app.Announcer.Wait()

	rr := ts.request(http.MethodPost, "/messages", map[string]string{
		"to":   "Beto",
		"text": "segredo",
		"type": model.TypePrivate,
	}, anaToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/messages", nil, carlaToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var visible []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &visible))
	for _, m := range visible {
		assert.NotEqual(t, "segredo", m.Text)
	}
}

func TestSendFromUnregisteredSender(t *testing.T) {
	ts := newTestServer(t)
	ts.join(t, "Ana")

	rr := ts.requestAsUser(http.MethodPost, "/messages", map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "oi",
		"type": model.TypeMessage,
	}, "Fantasma")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rr))
}

func TestSendWithoutIdentity(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/messages", map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "oi",
		"type": model.TypeMessage,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rr))
}

func TestLegacyUserHeaderIdentity(t *testing.T) {
	ts := newTestServer(t)
	ts.join(t, "Ana")

	rr := ts.requestAsUser(http.MethodPost, "/messages", map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "sem token",
		"type": model.TypeMessage,
	}, "Ana")
	assert.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
}

func TestListMessagesBadLimit(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")

	rr := ts.request(http.MethodGet, "/messages?limit=abc", nil, anaToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/messages?limit=-1", nil, anaToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHeartbeat(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")

	ts.app.MockClock.Advance(5 * time.Second)

	rr := ts.request(http.MethodPost, "/status", nil, anaToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	// The participant listing reflects the refreshed timestamp
	rr = ts.request(http.MethodGet, "/participants", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var participants []response.Participant
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participants))
	require.Len(t, participants, 1)
	assert.Equal(t, ts.app.MockClock.Now().UnixMilli(), participants[0].LastStatus)
}

func TestHeartbeatUnknownIdentity(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.requestAsUser(http.MethodPost, "/status", nil, "Fantasma")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PARTICIPANT_NOT_FOUND", errorCode(t, rr))
}

func TestEditAndDeleteOwnership(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")
	betoToken := ts.join(t, "Beto")

	rr := ts.request(http.MethodPost, "/messages", map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "original",
		"type": model.TypeMessage,
	}, anaToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var sent response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sent))

	// Beto cannot edit Ana's message
	rr = ts.request(http.MethodPut, "/messages/"+sent.ID, map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "hacked",
		"type": model.TypeMessage,
	}, betoToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_MESSAGE_OWNER", errorCode(t, rr))

	// Ana edits her own message
	rr = ts.request(http.MethodPut, "/messages/"+sent.ID, map[string]string{
		"to":   model.BroadcastRecipient,
		"text": "corrigido",
		"type": model.TypeMessage,
	}, anaToken)
	assert.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	// Beto cannot delete it either
	rr = ts.request(http.MethodDelete, "/messages/"+sent.ID, nil, betoToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Ana deletes it
	rr = ts.request(http.MethodDelete, "/messages/"+sent.ID, nil, anaToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	// It is gone now
	rr = ts.request(http.MethodDelete, "/messages/"+sent.ID, nil, anaToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "MESSAGE_NOT_FOUND", errorCode(t, rr))
}

func TestInactiveParticipantEvicted(t *testing.T) {
	ts := newTestServer(t)
	anaToken := ts.join(t, "Ana")
	ts.app.Announcer.Wait()

	ts.app.MockClock.Advance(11 * time.Second)
	ts.app.Reaper.Sweep(context.Background())
	ts.app.Announcer.Wait()

	// Ana is gone from the room
	rr := ts.request(http.MethodGet, "/participants", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var participants []response.Participant
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participants))
	assert.Empty(t, participants)

	// Her token was revoked, so the request carries no identity
	rr = ts.request(http.MethodPost, "/status", nil, anaToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The departure announcement is in the log
	rr = ts.requestAsUser(http.MethodGet, "/messages", nil, "Beto")
	require.Equal(t, http.StatusOK, rr.Code)

	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))

	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, model.LeaveText)
}
