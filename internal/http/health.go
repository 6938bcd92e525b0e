package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/database"
)

// HealthResponse reports overall service health plus the outcome of
// each individual check.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController answers liveness probes. A failing catalog database
// turns the whole service unhealthy; there are no other hard
// dependencies.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// checkDatabase pings the sqlite connection. Returns the check result
// string and whether the check passed.
func (h *HealthController) checkDatabase() (string, bool) {
	if h.db == nil {
		return "not configured", true
	}

	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error(), false
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

// Status handles GET /health.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	result, ok := h.checkDatabase()
	checks["database"] = result
	healthy = healthy && ok

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
