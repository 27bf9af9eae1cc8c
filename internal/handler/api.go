package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartjournal/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	journal *service.JournalService
}

// NewAPI constructs a handler set around the journal service.
func NewAPI(journal *service.JournalService) *API {
	return &API{journal: journal}
}

// Journal exposes the underlying service for commands that bypass HTTP.
func (a *API) Journal() *service.JournalService {
	return a.journal
}

// usernameParam 读取路径中的用户名，为空时直接返回 400。
func usernameParam(c *gin.Context) (string, bool) {
	username := c.Param("username")
	if username == "" {
		respondError(c, http.StatusBadRequest, "username is required")
		return "", false
	}
	return username, true
}
