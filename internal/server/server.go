package server

import (
	"fmt"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mdouchement/retrobot/internal/bot"
	"github.com/mdouchement/retrobot/internal/server/middlewares"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version string
	// SlackToken is the shared secret of the slash-command integration.
	SlackToken string
	// SetupSteps is non-empty when required configuration is missing;
	// the server then answers every notification with these instructions.
	SetupSteps string
	Bot        *bot.Bot
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	retro := &retro{
		token: ctrl.SlackToken,
		steps: ctrl.SetupSteps,
		bot:   ctrl.Bot,
	}
	engine.GET("/", retro.Home)
	engine.POST("/handle_slack_notification", retro.Notification)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
