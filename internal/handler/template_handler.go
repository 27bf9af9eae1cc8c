package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerTemplateRequest struct {
	Name      string         `json:"name" binding:"required"`
	Questions []string       `json:"questions"`
	Format    map[string]any `json:"format"`
}

type templatePreferencesRequest struct {
	Templates templateNames `json:"templates"`
}

// ListTemplates 返回模板名称，details 中附带问题与输出格式。
func (a *API) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": a.journal.TemplateNames(),
		"details":   a.journal.Templates(),
	})
}

// RegisterTemplate 注册或覆盖自定义模板。
func (a *API) RegisterTemplate(c *gin.Context) {
	var req registerTemplateRequest
	if !bindJSON(c, &req, "template name is required") {
		return
	}
	if err := a.journal.RegisterTemplate(req.Name, req.Questions, req.Format); err != nil {
		handleJournalError(c, err, "failed to register template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template registered", "name": req.Name})
}

// GetTemplatePreferences 返回用户选择的模板，未设置时返回默认模板。
func (a *API) GetTemplatePreferences(c *gin.Context) {
	username, ok := usernameParam(c)
	if !ok {
		return
	}
	prefs, err := a.journal.GetTemplatePreferences(c.Request.Context(), username)
	if err != nil {
		handleJournalError(c, err, "failed to load template preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "templates": prefs})
}

// SetTemplatePreferences 保存用户选择的模板。
func (a *API) SetTemplatePreferences(c *gin.Context) {
	username, ok := usernameParam(c)
	if !ok {
		return
	}
	var req templatePreferencesRequest
	if !bindJSON(c, &req, "templates must be a string or a list of strings") {
		return
	}
	if err := a.journal.SetTemplatePreferences(c.Request.Context(), username, req.Templates.Names); err != nil {
		handleJournalError(c, err, "failed to save template preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template preferences updated", "templates": req.Templates.Names})
}
