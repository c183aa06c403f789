package server_test

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/appleboy/gofight"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/retrobot/internal/bot"
	"github.com/mdouchement/retrobot/internal/server"
	"github.com/mdouchement/retrobot/internal/worker"
	"github.com/mdouchement/retrobot/pkg/airtable"
	"github.com/mdouchement/retrobot/pkg/slack"
)

func TestRequestHome(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Contains(t, r.Body.String(), "Status: ✅")
		assert.Contains(t, r.Body.String(), "/handle_slack_notification")
	})
}

func TestRequestHomeSetupMode(t *testing.T) {
	engine := server.EchoEngine(server.Controller{
		Version:    "test",
		SetupSteps: "Need to setup the following environment variables:\nSLACK_RETRO_TOKEN",
	})

	r := gofight.New()
	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Contains(t, r.Body.String(), "❗️")
		assert.Contains(t, r.Body.String(), "SLACK_RETRO_TOKEN")
	})

	r.POST("/handle_slack_notification").SetForm(gofight.H{"token": "whatever"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.Contains(t, r.Body.String(), "SLACK_RETRO_TOKEN")
		})
}

// setup spawns an engine wired to an in-memory Airtable stub.
func setup() (engine *echo.Echo, stub *airtableStub, r *gofight.RequestConfig, cleanup func()) {
	stub = newAirtableStub()

	store, err := airtable.NewClient(http.DefaultClient, stub.server.URL, "appTest", "keyTest")
	if err != nil {
		panic(err)
	}

	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	pool := worker.NewPool(1, 4, logger)
	pool.Start()

	ctrl := server.Controller{
		Version:    "test",
		SlackToken: "token42",
		Bot:        bot.New(store, slack.NewDefaultNotifier(), pool, logger),
	}
	engine = server.EchoEngine(ctrl)

	return engine, stub, gofight.New(), func() {
		stub.server.Close()
	}
}

// airtableStub emulates the Items table and its Current View over HTTP.
type airtableStub struct {
	server *httptest.Server

	mu       sync.Mutex
	records  []airtable.Record
	sequence int
}

func newAirtableStub() *airtableStub {
	stub := &airtableStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	return stub
}

func (s *airtableStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		filter := r.URL.Query().Get("filterByFormula")
		records := []airtable.Record{}
		for _, record := range s.records {
			if record.Field("Reviewed At") != "" {
				continue
			}
			if filter != "" {
				formula := airtable.AndEquals(map[string]string{
					"Category": record.Field("Category"),
					"Object":   record.Field("Object"),
				})
				if formula != filter {
					continue
				}
			}
			records = append(records, record)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"records": records})
	case http.MethodPost:
		var payload struct {
			Fields map[string]interface{} `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.sequence++
		record := airtable.Record{ID: fmt.Sprintf("rec%03d", s.sequence), Fields: payload.Fields}
		s.records = append(s.records, record)
		_ = json.NewEncoder(w).Encode(record)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
