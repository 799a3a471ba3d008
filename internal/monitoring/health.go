package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cafe1231/loadout-optimizer/internal/database"
)

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status    string           `json:"status"`
	Service   string           `json:"service"`
	Timestamp int64            `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

// Check is one dependency's health result.
type Check struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Latency time.Duration `json:"latency"`
}

// HealthChecker aggregates dependency checks for /health. The optimizer
// core itself has no external dependency; only the persistence layer
// needs checking.
type HealthChecker struct {
	db *database.DB
}

// NewHealthChecker builds a checker against db. db may be nil when the
// service runs without persistence (jobs answered synchronously), in
// which case the database check is skipped.
func NewHealthChecker(db *database.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// HealthCheck is the gin handler for GET /health.
func (h *HealthChecker) HealthCheck(c *gin.Context) {
	status := h.GetHealthStatus()
	httpStatus := http.StatusOK
	if status.Status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}

// GetHealthStatus runs every dependency check.
func (h *HealthChecker) GetHealthStatus() HealthStatus {
	checks := make(map[string]Check)
	overall := "healthy"

	if h.db != nil {
		dbCheck := h.checkDatabase()
		checks["database"] = dbCheck
		if dbCheck.Status != "healthy" {
			overall = "unhealthy"
		}
	}

	return HealthStatus{
		Status:    overall,
		Service:   "loadout-optimizer",
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}
}

func (h *HealthChecker) checkDatabase() Check {
	start := time.Now()
	if err := h.db.Health(); err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: time.Since(start)}
	}
	return Check{Status: "healthy", Message: "database is responsive", Latency: time.Since(start)}
}
