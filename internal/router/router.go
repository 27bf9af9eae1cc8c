package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartjournal/internal/handler"
	"github.com/smartjournal/internal/logging"
)

// Options 控制路由层的跨域配置。
type Options struct {
	AllowOrigins []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	r.Use(logging.RequestLogger())
	r.Use(gin.Recovery())

	r.GET("/healthz", api.HealthCheck)

	// 日记
	r.POST("/new_journal_entry", api.NewJournalEntry)
	r.GET("/history/:username", api.GetHistory)

	// 模板
	r.GET("/templates", api.ListTemplates)
	r.POST("/templates", api.RegisterTemplate)
	r.GET("/templates/user/:username", api.GetTemplatePreferences)
	r.PUT("/templates/user/:username", api.SetTemplatePreferences)

	// 推荐活动
	r.GET("/activities/:username", api.ListActivities)
	r.PUT("/activities/:username/:activity_id", api.UpdateActivity)
	r.GET("/catalog", api.GetCatalog)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
