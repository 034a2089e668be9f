package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/exaland/CalendarSlackBot/services/slackbot"
	"github.com/exaland/CalendarSlackBot/utils"
)

// SlackHandler exposes the Slack webhook endpoints.
type SlackHandler struct {
	Bot *slackbot.Service
}

func NewSlackHandler(bot *slackbot.Service) *SlackHandler {
	return &SlackHandler{Bot: bot}
}

// CommandsHandler receives slash commands (/rdv, /dispos). Slack expects an
// answer within three seconds; the engine's own timeouts keep us inside that.
func (h *SlackHandler) CommandsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid slash command payload", err.Error())
		return
	}

	msg, err := h.Bot.HandleSlashCommand(c.Request.Context(), cmd)
	if err != nil {
		logger.Error("slash command failed",
			zap.String("command", cmd.Command), zap.String("user", cmd.UserName), zap.Error(err))
		c.JSON(http.StatusOK, slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "Something went wrong on my side. Please try again.",
		})
		return
	}
	if msg == nil {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// InteractionsHandler receives block actions (the booking button) and view
// submissions (the availability modal). Replies are delivered out-of-band;
// the HTTP response only acknowledges.
func (h *SlackHandler) InteractionsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	payload := c.PostForm("payload")
	if payload == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing interaction payload", "")
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid interaction payload", err.Error())
		return
	}

	if err := h.Bot.HandleInteraction(c.Request.Context(), callback); err != nil {
		logger.Error("interaction handling failed",
			zap.String("type", string(callback.Type)), zap.Error(err))
	}
	c.Status(http.StatusOK)
}
