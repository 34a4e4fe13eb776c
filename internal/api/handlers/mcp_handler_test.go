package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"tmdb-mcp-server/internal/mcp/protocol"
	"tmdb-mcp-server/internal/mcp/server"
	"tmdb-mcp-server/internal/mcp/tools"
	"tmdb-mcp-server/internal/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGetter struct {
	body  string
	err   error
	calls int
}

func (s *stubGetter) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.body), nil
}

func newTestMCPHandler(t *testing.T, getter tmdb.Getter) *MCPHandler {
	t.Helper()
	registry, err := tools.NewTMDBRegistry(getter, tmdb.NewImages(""))
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	dispatcher := server.NewDispatcher(registry, server.DefaultConfig().ServerInfo(), server.Options{LegacyDialect: true}, logger)
	return NewMCPHandler(dispatcher, logger)
}

func postMCP(handler *MCPHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Handle(c)
	return w
}

func TestMCPHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		getter         *stubGetter
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "initialize",
			body:           `{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","capabilities":{"tools":{}},"serverInfo":{"name":"tmdb-mcp-server","version":"1.0.0"}}}`,
		},
		{
			name:           "initialized notification is acknowledged",
			body:           `{"jsonrpc":"2.0","method":"notifications/initialized","id":null}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"jsonrpc":"2.0","result":{},"id":null}`,
		},
		{
			name:           "wrong protocol version",
			body:           `{"jsonrpc":"1.0","id":4,"method":"tools/list"}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":4}`,
		},
		{
			name:           "missing method",
			body:           `{"jsonrpc":"2.0"}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":null}`,
		},
		{
			name:           "malformed body",
			body:           `{"jsonrpc":`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error"},"id":null}`,
		},
		{
			name:           "array body",
			body:           `[1,2]`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":null}`,
		},
		{
			name:           "string body",
			body:           `"x"`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":null}`,
		},
		{
			name:           "method of the wrong type keeps id",
			body:           `{"jsonrpc":"2.0","id":5,"method":["x"]}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":5}`,
		},
		{
			name:           "numeric method keeps string id",
			body:           `{"jsonrpc":"2.0","id":"abc","method":7}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request"},"id":"abc"}`,
		},
		{
			name:           "unknown tool",
			body:           `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"nope"}}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32601,"message":"Tool not found"},"id":2}`,
		},
		{
			name:           "unknown method",
			body:           `{"jsonrpc":"2.0","id":2,"method":"nope"}`,
			getter:         &stubGetter{},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32601,"message":"Method not found"},"id":2}`,
		},
		{
			name:           "upstream failure",
			body:           `{"jsonrpc":"2.0","id":"x","method":"tools/call","params":{"name":"getPopularMovies"}}`,
			getter:         &stubGetter{err: &tmdb.APIError{StatusCode: 401, Body: []byte(`{"status_message":"Invalid API key"}`)}},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"jsonrpc":"2.0","error":{"code":-32603,"message":"Invalid API key"},"id":"x"}`,
		},
		{
			name:           "legacy direct method",
			body:           `{"jsonrpc":"2.0","id":5,"method":"getPopularTVShows","params":{}}`,
			getter:         &stubGetter{body: `{"page":1,"total_pages":1,"total_results":0,"results":[]}`},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"jsonrpc":"2.0","id":5,"result":{"page":1,"total_pages":1,"total_results":0,"results":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestMCPHandler(t, tt.getter)

			w := postMCP(handler, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMCPHandler_ToolCallText(t *testing.T) {
	getter := &stubGetter{body: `{"id":1,"title":"Tom & Jerry <Movie>"}`}
	handler := newTestMCPHandler(t, getter)

	w := postMCP(handler, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"getMovieDetails","arguments":{"movieId":1}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, getter.calls)

	// HTML characters are not escaped on the wire
	assert.Contains(t, w.Body.String(), "Tom & Jerry <Movie>")

	var resp struct {
		Result protocol.ToolCallResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "text", resp.Result.Content[0].Type)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &details))
	assert.Equal(t, "Tom & Jerry <Movie>", details["title"])
}

func TestMCPHandler_Discover(t *testing.T) {
	handler := newTestMCPHandler(t, &stubGetter{})

	w := postMCP(handler, `{"jsonrpc":"2.0","id":1,"method":"mcp.discover"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result protocol.DiscoverResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Tools, 10)
	assert.Equal(t, "function", resp.Result.Tools[0].Type)
	assert.Equal(t, tools.ToolSearchMovies, resp.Result.Tools[0].Function.Name)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		resp *protocol.JSONRPCResponse
		want int
	}{
		{protocol.NewResult(nil, nil), http.StatusOK},
		{protocol.NewError(nil, protocol.ParseError, "Parse error"), http.StatusBadRequest},
		{protocol.NewError(nil, protocol.InvalidRequest, "Invalid Request"), http.StatusBadRequest},
		{protocol.NewError(nil, protocol.MethodNotFound, "Method not found"), http.StatusInternalServerError},
		{protocol.NewError(nil, protocol.InvalidParams, "Invalid params"), http.StatusInternalServerError},
		{protocol.NewError(nil, protocol.InternalError, "Internal error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.resp))
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHealthHandler(protocol.ServerInfo{Name: "tmdb-mcp-server", Version: "1.0.0"})
	handler.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.FixedZone("CEST", 2*3600))
	}

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		handler.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","timestamp":"2024-05-01T10:30:00.123Z"}`, w.Body.String())
	})

	t.Run("info", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		handler.Info(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var info ServiceInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "tmdb-mcp-server", info.Name)
		assert.Equal(t, "POST /mcp", info.Endpoints["mcp"])
	})
}
