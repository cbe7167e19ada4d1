package app

import (
	"github.com/gin-gonic/gin"
	"github.com/symnote/core/internal/modules/advice"
	"github.com/symnote/core/internal/modules/entry"
	"github.com/symnote/core/internal/modules/report"
	"github.com/symnote/core/internal/modules/settings"
	"github.com/symnote/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": 1})
	})

	api := r.Group("/api/v2")

	entrySvc := entry.NewService(db)
	settingsSvc := settings.NewService(db)
	historySvc := advice.NewHistory(db)
	adviceClient := advice.NewClient(a.secrets, a.logger)

	entry.NewHandler(entrySvc).RegisterRoutes(api)
	settings.NewHandler(settingsSvc).RegisterRoutes(api)
	report.NewHandler(entrySvc, settingsSvc, a.logger).RegisterRoutes(api)
	advice.NewHandler(adviceClient, historySvc, entrySvc, settingsSvc, a.secrets, a.logger).RegisterRoutes(api)
}
