package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exaland/CalendarSlackBot/services/scheduling"
	"github.com/exaland/CalendarSlackBot/utils"
)

// AdminHandler exposes a small read-only API over the engine, useful for
// checking the rule sheet and availability without going through Slack.
type AdminHandler struct {
	Engine scheduling.SchedulingEngine
	Loc    *time.Location
}

func NewAdminHandler(engine scheduling.SchedulingEngine, loc *time.Location) *AdminHandler {
	return &AdminHandler{Engine: engine, Loc: loc}
}

// ListRulesHandler returns every stored availability rule.
func (h *AdminHandler) ListRulesHandler(c *gin.Context) {
	ruleList, err := h.Engine.Rules(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to read rules", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": ruleList})
}

// AvailabilityHandler resolves free slots for ?date=YYYY-MM-DD (default: the
// next date with availability).
func (h *AdminHandler) AvailabilityHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, h.Loc)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
			return
		}
		slots, err := h.Engine.AvailableSlots(ctx, date)
		if err != nil {
			if scheduling.IsBusyUnavailable(err) {
				utils.JSONError(c, http.StatusServiceUnavailable, "calendar unavailable", "retry later")
				return
			}
			utils.JSONError(c, http.StatusBadGateway, "failed to resolve availability", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": dateStr, "slots": slots})
		return
	}

	date, slots, ok, err := h.Engine.NextAvailability(ctx)
	if err != nil {
		if scheduling.IsBusyUnavailable(err) {
			utils.JSONError(c, http.StatusServiceUnavailable, "calendar unavailable", "retry later")
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "failed to resolve availability", err.Error())
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"slots": []struct{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "slots": slots})
}

// HealthHandler reports the latest health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
