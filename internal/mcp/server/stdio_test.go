package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveLines runs the stdio transport over input and returns the decoded output lines
func serveLines(t *testing.T, getter *stubGetter, input string) []map[string]interface{} {
	t.Helper()
	return serveLinesWithConfig(t, getter, DefaultConfig(), input)
}

func serveLinesWithConfig(t *testing.T, getter *stubGetter, cfg *Config, input string) []map[string]interface{} {
	t.Helper()

	d := newTestDispatcher(t, getter, stdioOptions)
	logger, _ := test.NewNullLogger()
	transport := NewStdioTransport(d, cfg, logger)

	var out bytes.Buffer
	require.NoError(t, transport.Serve(context.Background(), strings.NewReader(input), &out))

	var messages []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &msg), "line is not a single JSON object: %q", line)
		messages = append(messages, msg)
	}
	return messages
}

// byID indexes responses by their id since completion order is not guaranteed
func byID(messages []map[string]interface{}) map[string]map[string]interface{} {
	index := make(map[string]map[string]interface{}, len(messages))
	for _, msg := range messages {
		id, _ := json.Marshal(msg["id"])
		index[string(id)] = msg
	}
	return index
}

func TestStdioTransport_InitializeHandshake(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}
{"jsonrpc":"2.0","method":"notifications/initialized"}
{"jsonrpc":"2.0","id":2,"method":"tools/list"}
`
	messages := serveLines(t, &stubGetter{}, input)
	require.Len(t, messages, 2)

	index := byID(messages)
	require.Contains(t, index, "1")
	require.Contains(t, index, "2")

	result := index["1"]["result"].(map[string]interface{})
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	tools := index["2"]["result"].(map[string]interface{})["tools"].([]interface{})
	assert.Len(t, tools, 10)
}

func TestStdioTransport_ParseErrorDoesNotAbort(t *testing.T) {
	input := "not json\n" +
		`{"jsonrpc":"2.0","id":"after","method":"tools/list"}` + "\n"

	messages := serveLines(t, &stubGetter{}, input)
	require.Len(t, messages, 2)

	index := byID(messages)
	require.Contains(t, index, "null")
	parseErr := index["null"]["error"].(map[string]interface{})
	assert.Equal(t, float64(-32700), parseErr["code"])
	assert.Equal(t, "Parse error", parseErr["message"])

	require.Contains(t, index, `"after"`)
	assert.Contains(t, index[`"after"`], "result")
}

func TestStdioTransport_SkipsBlankLines(t *testing.T) {
	input := "\n   \n" + `{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n\n"

	messages := serveLines(t, &stubGetter{}, input)
	require.Len(t, messages, 1)
	assert.Equal(t, float64(1), messages[0]["id"])
}

func TestStdioTransport_NotificationsProduceNoOutput(t *testing.T) {
	input := `{"jsonrpc":"2.0","method":"notifications/initialized","id":null}
{"jsonrpc":"2.0","method":"unknown/method"}
{"jsonrpc":"1.0","method":"tools/list"}
`
	messages := serveLines(t, &stubGetter{}, input)
	assert.Empty(t, messages)
}

func TestStdioTransport_UnknownMethod(t *testing.T) {
	getter := &stubGetter{body: `{}`}
	messages := serveLines(t, getter, `{"jsonrpc":"2.0","id":9,"method":"searchMovies","params":{"query":"Dune"}}`+"\n")

	require.Len(t, messages, 1)
	rpcErr := messages[0]["error"].(map[string]interface{})
	assert.Equal(t, float64(-32601), rpcErr["code"])
	assert.Equal(t, "Method not found", rpcErr["message"])
	assert.Equal(t, 0, getter.calls())
}

func TestStdioTransport_ConcurrentToolCalls(t *testing.T) {
	getter := &stubGetter{body: `{"page":1,"total_pages":1,"total_results":0,"results":[]}`}

	var input strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&input, `{"jsonrpc":"2.0","id":"req-%d","method":"tools/call","params":{"name":"getPopularMovies"}}`+"\n", i)
	}

	messages := serveLines(t, getter, input.String())
	require.Len(t, messages, 20)
	assert.Equal(t, 20, getter.calls())

	index := byID(messages)
	for i := 0; i < 20; i++ {
		msg, ok := index[fmt.Sprintf(`"req-%d"`, i)]
		require.True(t, ok)
		result := msg["result"].(map[string]interface{})
		content := result["content"].([]interface{})
		require.Len(t, content, 1)
		assert.Equal(t, "text", content[0].(map[string]interface{})["type"])
	}
}

func TestStdioTransport_LogsStartup(t *testing.T) {
	d := newTestDispatcher(t, &stubGetter{}, stdioOptions)
	logger, hook := test.NewNullLogger()
	transport := NewStdioTransport(d, nil, logger)

	var out bytes.Buffer
	require.NoError(t, transport.Serve(context.Background(), strings.NewReader(""), &out))

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.InfoLevel, hook.AllEntries()[0].Level)
	assert.Equal(t, "TMDB MCP Server started", hook.AllEntries()[0].Message)
	assert.Empty(t, out.String())
}

func TestStdioTransport_OversizedLineDoesNotAbort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport.MaxLineSize = 64

	oversized := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{"padding":"` + strings.Repeat("x", 200) + `"}}`

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "oversized line before a valid one",
			input: oversized + "\n" + `{"jsonrpc":"2.0","id":2,"method":"initialize"}` + "\n",
			want:  2,
		},
		{
			name:  "oversized final line without newline",
			input: `{"jsonrpc":"2.0","id":2,"method":"initialize"}` + "\n" + oversized,
			want:  2,
		},
		{
			name:  "two oversized lines in a row",
			input: oversized + "\n" + oversized + "\n" + `{"jsonrpc":"2.0","id":2,"method":"initialize"}` + "\n",
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := serveLinesWithConfig(t, &stubGetter{}, cfg, tt.input)
			require.Len(t, messages, tt.want)

			var parseErrors int
			for _, msg := range messages {
				if msg["id"] == nil {
					rpcErr := msg["error"].(map[string]interface{})
					assert.Equal(t, float64(-32700), rpcErr["code"])
					parseErrors++
				}
			}
			assert.Equal(t, tt.want-1, parseErrors)

			index := byID(messages)
			require.Contains(t, index, "2")
			assert.Contains(t, index["2"], "result")
		})
	}
}

func TestStdioTransport_LineAtLimit(t *testing.T) {
	line := `{"jsonrpc":"2.0","id":2,"method":"initialize"}`

	cfg := DefaultConfig()
	cfg.Transport.MaxLineSize = len(line)

	messages := serveLinesWithConfig(t, &stubGetter{}, cfg, line+"\r\n")
	require.Len(t, messages, 1)
	assert.Equal(t, float64(2), messages[0]["id"])
	assert.Contains(t, messages[0], "result")
}

func TestStdioTransport_InvalidEnvelopes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{name: "array", input: `[1,2]`, wantID: "null"},
		{name: "string", input: `"x"`, wantID: "null"},
		{name: "numeric method", input: `{"jsonrpc":"2.0","id":3,"method":7}`, wantID: "3"},
		{name: "array method", input: `{"jsonrpc":"2.0","id":"a","method":["x"]}`, wantID: `"a"`},
		{name: "numeric version", input: `{"jsonrpc":2,"id":4,"method":"initialize"}`, wantID: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := &stubGetter{}
			messages := serveLines(t, getter, tt.input+"\n")
			require.Len(t, messages, 1)

			index := byID(messages)
			require.Contains(t, index, tt.wantID)
			rpcErr := index[tt.wantID]["error"].(map[string]interface{})
			assert.Equal(t, float64(-32600), rpcErr["code"])
			assert.Equal(t, "Invalid Request", rpcErr["message"])
			assert.Equal(t, 0, getter.calls())
		})
	}
}
