package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/service"
	"github.com/smartjournal/internal/store"
)

type activityStatusRequest struct {
	Completed *bool   `json:"completed"`
	Rating    *int    `json:"rating"`
	Notes     *string `json:"notes"`
}

// ListActivities 返回用户的推荐活动，include_completed 默认为 false。
func (a *API) ListActivities(c *gin.Context) {
	username, ok := usernameParam(c)
	if !ok {
		return
	}
	includeCompleted := parseBoolQuery(c, "include_completed", false)

	activities, err := a.journal.ListActivities(c.Request.Context(), username, includeCompleted)
	if err != nil {
		handleJournalError(c, err, "failed to load activities")
		return
	}
	if activities == nil {
		activities = []store.SuggestedActivity{}
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// UpdateActivity 更新推荐活动的完成状态、评分与备注。
func (a *API) UpdateActivity(c *gin.Context) {
	username, ok := usernameParam(c)
	if !ok {
		return
	}
	var req activityStatusRequest
	if !bindJSON(c, &req, "invalid activity update payload") {
		return
	}

	err := a.journal.UpdateActivityStatus(c.Request.Context(), username, c.Param("activity_id"), service.ActivityStatusUpdate{
		Completed: req.Completed,
		Rating:    req.Rating,
		Notes:     req.Notes,
	})
	if err != nil {
		handleJournalError(c, err, "failed to update activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity updated"})
}

// GetCatalog 返回活动目录，可通过 category 过滤。
func (a *API) GetCatalog(c *gin.Context) {
	catalog := a.journal.Catalog()
	category := strings.TrimSpace(c.Query("category"))

	var activities []activity.Activity
	if category == "" {
		activities = catalog.All()
	} else {
		activities = catalog.ByCategory(category)
	}
	if activities == nil {
		activities = []activity.Activity{}
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": catalog.Categories(),
		"activities": activities,
	})
}
