package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exaland/CalendarSlackBot/config"
	"github.com/exaland/CalendarSlackBot/handlers"
	"github.com/exaland/CalendarSlackBot/middleware"
)

// RegisterSlackRoutes registers the Slack webhook endpoints. Payloads are
// signature-verified before parsing.
func RegisterSlackRoutes(r *gin.Engine, sh *handlers.SlackHandler) {
	slackGroup := r.Group("/slack")
	{
		slackGroup.Use(middleware.SlackSignature(config.AppConfig.SlackSigningSecret))
		slackGroup.POST("/commands", sh.CommandsHandler)
		slackGroup.POST("/interactions", sh.InteractionsHandler)
	}
}

// RegisterAdminRoutes registers the read-only inspection endpoints.
func RegisterAdminRoutes(r *gin.Engine, ah *handlers.AdminHandler) {
	api := r.Group("/api")
	{
		api.GET("/rules", ah.ListRulesHandler)
		api.GET("/availability", ah.AvailabilityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/healthz/deps", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, sh *handlers.SlackHandler, ah *handlers.AdminHandler) {
	RegisterSlackRoutes(r, sh)
	RegisterAdminRoutes(r, ah)
	RegisterHealthRoute(r)
}
