package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aayushsingh8/fake-news-prediction/internal/model"
)

type UsageStore interface {
	RecordUsage(ctx context.Context, apiName string, tokens int, failed bool) error
	GetUsage(ctx context.Context, days int) ([]model.ApiUsage, error)
	Ping(ctx context.Context) error
}

type UsageHandler struct {
	store UsageStore
}

// NewUsageHandler accepts a nil store when no database is configured.
func NewUsageHandler(store UsageStore) *UsageHandler {
	return &UsageHandler{store: store}
}

func (h *UsageHandler) GetUsage(c *gin.Context) {
	const (
		defaultDays = 7
		maxDays     = 90
	)

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage accounting is not configured"})
		return
	}

	days := getQueryBounded(c, "days", defaultDays, maxDays)

	usage, err := h.store.GetUsage(c.Request.Context(), days)
	if err != nil {
		requestLogger(c).Error("error fetching usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := UsageListResponse{Usage: make([]UsageResponse, 0, len(usage)), Days: days}
	for _, u := range usage {
		res.Usage = append(res.Usage, UsageResponse{
			ApiName:      u.ApiName,
			UsageDate:    u.UsageDate.Format("2006-01-02"),
			RequestCount: u.RequestCount,
			ErrorCount:   u.ErrorCount,
			TokenCount:   u.TokenCount,
		})
	}

	c.JSON(http.StatusOK, res)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	transformer interface{ Available() bool }
	judge       interface{ Available() bool }
	database    Pinger
	redis       Pinger
}

// NewHealthHandler takes nil pingers for backends that are not configured.
func NewHealthHandler(transformer, judge interface{ Available() bool }, database, redis Pinger) *HealthHandler {
	return &HealthHandler{transformer: transformer, judge: judge, database: database, redis: redis}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":      "healthy",
		"transformer": configured(h.transformer.Available()),
		"judge":       configured(h.judge.Available()),
		"database":    "disabled",
		"redis":       "disabled",
	}

	for name, p := range map[string]Pinger{"database": h.database, "redis": h.redis} {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			requestLogger(c).Warn("health check failed", "backend", name, "error", err)
			body[name] = "disconnected"
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			continue
		}
		body[name] = "connected"
	}

	if status == http.StatusOK && (!h.transformer.Available() || !h.judge.Available()) {
		body["status"] = "degraded"
	}

	c.JSON(status, body)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}
