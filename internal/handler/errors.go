package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aayushsingh8/fake-news-prediction/internal/middleware"
	"github.com/aayushsingh8/fake-news-prediction/pkg/extract"
)

// inputError is a user-correctable problem with the request itself.
type inputError string

func (e inputError) Error() string { return string(e) }

var errNotConfigured = errors.New("API keys not configured")

func requestLogger(c *gin.Context) *slog.Logger {
	return slog.With("request_id", c.GetString(middleware.RequestIDKey), "path", c.FullPath())
}

// respondError maps input and extraction failures to 400 with their own
// message, and anything else to 500.
func respondError(c *gin.Context, err error) {
	var inErr inputError
	if errors.As(err, &inErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inErr.Error()})
		return
	}

	var extErr *extract.ExtractionError
	if errors.As(err, &extErr) {
		requestLogger(c).Info("extraction failed", "kind", extErr.Kind, "status", extErr.Status, "error", extErr.Err)
		c.JSON(http.StatusBadRequest, gin.H{"error": extErr.Message(), "kind": extErr.Kind})
		return
	}

	if errors.Is(err, errNotConfigured) {
		requestLogger(c).Error("model credentials missing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errNotConfigured.Error()})
		return
	}

	requestLogger(c).Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramValue := c.Query(name)

	if paramValue == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramValue)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramValue, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryBounded(c *gin.Context, name string, defaultValue, maxValue int) int {
	value := getQueryInt(name, defaultValue, c)
	if value < 1 {
		slog.Warn("invalid query parameter, using default", "param", name, "value", value, "default", defaultValue)
		return defaultValue
	}

	if value > maxValue {
		slog.Warn("query parameter exceeds max, clamping", "param", name, "value", value, "max", maxValue)
		return maxValue
	}

	return value
}
