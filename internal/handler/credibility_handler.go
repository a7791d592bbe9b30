package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
)

type CredibilityHandler struct {
	table *credibility.Table
}

func NewCredibilityHandler(table *credibility.Table) *CredibilityHandler {
	return &CredibilityHandler{table: table}
}

func (h *CredibilityHandler) GetCredibility(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		respondError(c, inputError("Invalid input: url is required"))
		return
	}

	host := credibility.Hostname(rawURL)
	if host == "" {
		respondError(c, inputError("Invalid input: url has no host"))
		return
	}

	c.JSON(http.StatusOK, CredibilityResponse{
		URL:         rawURL,
		Host:        host,
		Credibility: h.table.Classify(rawURL),
	})
}
