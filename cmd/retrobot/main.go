package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mdouchement/retrobot/internal/bot"
	"github.com/mdouchement/retrobot/internal/server"
	"github.com/mdouchement/retrobot/internal/worker"
	"github.com/mdouchement/retrobot/pkg/airtable"
	"github.com/mdouchement/retrobot/pkg/slack"
)

// Required settings; without them the server runs in setup mode.
var requiredSettings = []string{
	"slack_retro_token",
	"airtable_retro_base_id",
	"airtable_retro_api_key",
}

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "retrobot",
		Short:   "Slack retrospective bot backed by Airtable",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func konf() (*koanf.Koanf, error) {
	k := koanf.New(".")

	// Environment variables are the primary configuration source,
	// an optional YAML file can override them.
	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load environment")
	}
	if cfg != "" {
		if err := k.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "could not load configuration file")
		}
	}
	return k, nil
}

func setupSteps(k *koanf.Koanf) string {
	var missing []string
	for _, key := range requiredSettings {
		if k.String(key) == "" {
			missing = append(missing, strings.ToUpper(key))
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Need to setup the following environment variables:\n%s", strings.Join(missing, ", "))
}

var serverCmd = &coral.Command{
	Use:   "server",
	Short: "Start server",
	Args:  coral.ExactArgs(0),
	RunE: func(_ *coral.Command, _ []string) error {
		k, err := konf()
		if err != nil {
			return err
		}

		logger := logrus.New()

		ctrl := server.Controller{
			Version:    version,
			SlackToken: k.String("slack_retro_token"),
			SetupSteps: setupSteps(k),
		}

		if ctrl.SetupSteps == "" {
			endpoint := k.String("airtable_endpoint")
			if endpoint == "" {
				endpoint = airtable.Endpoint
			}

			store, err := airtable.NewClient(
				http.DefaultClient,
				endpoint,
				k.String("airtable_retro_base_id"),
				k.String("airtable_retro_api_key"),
			)
			if err != nil {
				return errors.Wrap(err, "could not create airtable client")
			}

			workers := k.Int("workers")
			if workers == 0 {
				workers = 2
			}
			pool := worker.NewPool(workers, 16, logger)
			pool.Start()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := pool.Shutdown(ctx); err != nil {
					logger.WithError(err).Error("could not shut down worker pool")
				}
			}()

			ctrl.Bot = bot.New(store, slack.NewDefaultNotifier(), pool, logger)
		} else {
			logger.Warn(ctrl.SetupSteps)
		}

		engine := server.EchoEngine(ctrl)
		server.PrintRoutes(engine)

		address := k.String("address")
		if address == "" {
			address = ":8080"
		}
		log.Printf("Server listening on %s\n", address)
		return errors.Wrap(engine.Start(address), "could not run server")
	},
}
