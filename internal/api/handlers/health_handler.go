package handlers

import (
	"net/http"
	"time"

	"tmdb-mcp-server/internal/mcp/protocol"

	"github.com/gin-gonic/gin"
)

// TimestampFormat is UTC with millisecond precision
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ServiceInfo describes the service on GET /
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthHandler handles the non-protocol routes
type HealthHandler struct {
	info protocol.ServerInfo
	now  func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(info protocol.ServerInfo) *HealthHandler {
	return &HealthHandler{info: info, now: time.Now}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(TimestampFormat),
	})
}

// Info handles GET /
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfo{
		Name:    h.info.Name,
		Version: h.info.Version,
		Endpoints: map[string]string{
			"mcp":    "POST /mcp",
			"health": "GET /health",
		},
	})
}
