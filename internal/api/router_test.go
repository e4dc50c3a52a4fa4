package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/isdelr/event-graph-be/internal/api/handlers"
	"github.com/isdelr/event-graph-be/internal/auth"
	"github.com/isdelr/event-graph-be/internal/database"
	"github.com/isdelr/event-graph-be/internal/graph"
	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/services"
	"github.com/isdelr/event-graph-be/internal/storage/sqlite"
	"github.com/isdelr/event-graph-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	auth    *auth.Manager
}

func newTestServer(t *testing.T, graphiql bool) *testServer {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(context.Background(), db))

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	store := sqlite.New(db)
	schema := graph.NewSchema(graph.NewResolver(
		services.NewEventService(store, store, hub),
		services.NewUserService(store),
	))

	authManager := auth.NewManager("test-secret", "events-api", time.Hour)
	router := NewRouter(
		authManager,
		handlers.NewGraphQLHandler(schema, graphiql),
		handlers.NewWebSocketHandler(hub, []string{"*"}),
		[]string{"*"},
	)
	return &testServer{handler: router, auth: authManager}
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func (s *testServer) post(t *testing.T, token, query string, vars map[string]interface{}) (*httptest.ResponseRecorder, graphQLResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp graphQLResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t, true)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, true)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "events_api_live_feed_clients")
}

func TestRouter_GraphiQL(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, true).handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphiql")

	rec = httptest.NewRecorder()
	newTestServer(t, false).handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CreateUserThenEvent(t *testing.T) {
	s := newTestServer(t, false)

	rec, resp := s.post(t, "", `mutation ($email: String!) {
		createUser(userInput: {email: $email, password: "secret"}) { _id password }
	}`, map[string]interface{}{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Errors)

	var created struct {
		CreateUser struct {
			ID       string  `json:"_id"`
			Password *string `json:"password"`
		}
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Nil(t, created.CreateUser.Password)

	const mutation = `mutation {
		createEvent(eventInput: {title: "Gophercon", description: "Talks", price: 10, date: "2024-03-01"}) {
			_id creator { _id }
		}
	}`

	_, resp = s.post(t, "", mutation, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, graph.CodeUnauthenticated, resp.Errors[0].Extensions["code"])

	token, err := s.auth.Generate(created.CreateUser.ID)
	require.NoError(t, err)

	rec, resp = s.post(t, token, mutation, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Errors)
	assert.Contains(t, string(resp.Data), created.CreateUser.ID)
}

func TestRouter_InvalidTokenRejected(t *testing.T) {
	s := newTestServer(t, false)

	rec, _ := s.post(t, "not-a-token", `{ events { _id } }`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LiveFeed(t *testing.T) {
	s := newTestServer(t, false)
	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.LiveFeedClients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, resp := s.post(t, "", `mutation { createUser(userInput: {email: "ada@example.com", password: "secret"}) { _id } }`, nil)
	require.Empty(t, resp.Errors)
	var created struct {
		CreateUser struct {
			ID string `json:"_id"`
		}
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	token, err := s.auth.Generate(created.CreateUser.ID)
	require.NoError(t, err)
	_, resp = s.post(t, token, `mutation {
		createEvent(eventInput: {title: "Gophercon", description: "Talks", price: 10, date: "2024-03-01"}) { _id }
	}`, nil)
	require.Empty(t, resp.Errors)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Action  string `json:"action"`
		Payload struct {
			ID      string `json:"_id"`
			Title   string `json:"title"`
			Creator string `json:"creator"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.ActionEventCreated, msg.Action)
	assert.Equal(t, "Gophercon", msg.Payload.Title)
	assert.Equal(t, created.CreateUser.ID, msg.Payload.Creator)
	assert.Contains(t, string(resp.Data), msg.Payload.ID)
}
