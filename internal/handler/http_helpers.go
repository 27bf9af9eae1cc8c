package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartjournal/internal/analysis"
	"github.com/smartjournal/internal/logging"
	"github.com/smartjournal/internal/service"
	"github.com/smartjournal/internal/store"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// handleJournalError 将服务层错误映射为 HTTP 状态码，未知错误统一返回 500。
func handleJournalError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, store.ErrInvalidUsername),
		errors.Is(err, analysis.ErrInvalidTemplate):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, analysis.ErrTemplateNotFound),
		errors.Is(err, service.ErrSuggestionNotFound),
		errors.Is(err, store.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, analysis.ErrProviderUnavailable):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logging.L().Errorw(fallback, "requestID", logging.RequestID(c), "error", err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// parseBoolQuery 解析布尔查询参数，缺省或无法解析时返回 def。
func parseBoolQuery(c *gin.Context, key string, def bool) bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}
