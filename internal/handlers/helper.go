package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// parseStrategy reads an optional classifier strategy; empty means the
// service default.
func parseStrategy(c *gin.Context, value string) (classifier.Strategy, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}
	strategy, err := classifier.ParseStrategy(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid strategy",
			Details: err.Error(),
		})
		return "", false
	}
	return strategy, true
}

func parseFormat(value string) models.ExportFormat {
	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(value)))
	if format == "" {
		return models.ExportJSON
	}
	return format
}
