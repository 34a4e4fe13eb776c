package handlers

import (
	"io"
	"net/http"

	"tmdb-mcp-server/internal/jsonutil"
	"tmdb-mcp-server/internal/mcp/protocol"
	"tmdb-mcp-server/internal/mcp/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MaxBodySize bounds a single JSON-RPC request body
const MaxBodySize = 10 << 20

// MCPHandler serves JSON-RPC over HTTP, one envelope per POST
type MCPHandler struct {
	dispatcher *server.Dispatcher
	logger     logrus.FieldLogger
}

// NewMCPHandler creates a new MCPHandler
func NewMCPHandler(dispatcher *server.Dispatcher, logger logrus.FieldLogger) *MCPHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MCPHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle handles POST /mcp
//
// Responds 200 on success, 400 when the envelope cannot be parsed or fails
// protocol checks, and 500 when the dispatched call failed.
func (h *MCPHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read request body")
		h.write(c, protocol.NewError(nil, protocol.ParseError, "Parse error"))
		return
	}

	req, failed := protocol.ParseRequest(body)
	if failed != nil {
		h.logger.WithField("code", failed.Error.Code).Warn("Failed to parse request body")
		h.write(c, failed)
		return
	}

	resp := h.dispatcher.Dispatch(c.Request.Context(), req)
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}

	h.write(c, resp)
}

// StatusCode maps a JSON-RPC response to its HTTP status
func StatusCode(resp *protocol.JSONRPCResponse) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	switch resp.Error.Code {
	case protocol.ParseError, protocol.InvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *MCPHandler) write(c *gin.Context, resp *protocol.JSONRPCResponse) {
	data, err := jsonutil.Compact(resp)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
		resp = protocol.NewError(resp.ID, protocol.InternalError, protocol.DefaultErrorMessage)
		data, _ = jsonutil.Compact(resp)
	}

	c.Data(StatusCode(resp), "application/json; charset=utf-8", data)
}
