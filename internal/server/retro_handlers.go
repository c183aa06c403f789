package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mdouchement/retrobot/internal/bot"
)

// retro contains all slash-command handlers.
type retro struct {
	token string
	steps string
	bot   *bot.Bot
}

///// Home
////
//

// Home reports whether the integration is ready to receive notifications.
func (h *retro) Home(c echo.Context) error {
	status := "✅"
	if h.steps != "" {
		status = fmt.Sprintf("❗️%s", h.steps)
	}
	return c.HTML(http.StatusOK, fmt.Sprintf(`Integration to store /retro Slack command in Airtable.<br>
Status: %s<br>
Link Slack webhook to post json to /handle_slack_notification`, status))
}

///// Notification
////
//

// Notification receives a Slack slash-command webhook and replies with the
// outcome. User-facing failures are rendered as HTTP 200 text, the webhook
// contract has no room for error codes in the reply body.
func (h *retro) Notification(c echo.Context) error {
	if h.steps != "" {
		return c.String(http.StatusOK, h.steps)
	}

	if c.FormValue("token") != h.token {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}

	cmd := bot.Parse(
		c.FormValue("command"),
		c.FormValue("text"),
		c.FormValue("user_name"),
		c.FormValue("response_url"),
	)
	return c.JSON(http.StatusOK, h.bot.Dispatch(cmd))
}
