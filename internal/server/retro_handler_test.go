package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appleboy/gofight"
	"github.com/stretchr/testify/assert"
)

func notification(fields gofight.H) gofight.H {
	form := gofight.H{
		"token":        "token42",
		"user_name":    "alice",
		"command":      "/retro",
		"response_url": "https://hooks.slack.lan/respond",
		"text":         "",
	}
	for key, value := range fields {
		form[key] = value
	}
	return form
}

func TestRequestNotificationBadToken(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"token": "nope", "text": "list"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code)
		})
}

func TestRequestNotificationHelpIsEphemeral(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	for _, text := range []string{"", "help", "?", "unknown stuff"} {
		r.POST("/handle_slack_notification").
			SetForm(notification(gofight.H{"text": text})).
			Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
				assert.Equal(t, http.StatusOK, r.Code)

				var response map[string]interface{}
				assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &response))
				assert.Equal(t, "ephemeral", response["response_type"])
				assert.Contains(t, response["text"], `*/retro good <item>*`)
			})
	}
}

func TestRequestNotificationAddItem(t *testing.T) {
	engine, stub, r, cleanup := setup()
	defer cleanup()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "good Pairing went well"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "New retrospective item:",
				"attachments": [{"title": "Good", "text": "• Pairing went well", "color": "good"}]
			}`, r.Body.String())
		})

	assert.Len(t, stub.records, 1)
	assert.Equal(t, "alice", stub.records[0].Field("Creator"))

	// Same item again, case-folded.
	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "good pairing went WELL", "user_name": "bob"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "This retrospective item has already been added!",
				"attachments": []
			}`, r.Body.String())
		})
	assert.Len(t, stub.records, 1)
}

func TestRequestNotificationCategoryAlias(t *testing.T) {
	engine, stub, r, cleanup := setup()
	defer cleanup()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"command": "/try", "text": "mob programming"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "New retrospective item:",
				"attachments": [{"title": "Try", "text": "• Mob programming", "color": "warning"}]
			}`, r.Body.String())
		})

	assert.Len(t, stub.records, 1)
	assert.Equal(t, "try", stub.records[0].Field("Category"))
}

func TestRequestNotificationList(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "list"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "No retrospective items yet.",
				"attachments": []
			}`, r.Body.String())
		})

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "bad too many meetings"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
		})

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "list"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "Retrospective items:",
				"attachments": [{"title": "Bad", "text": "• Too many meetings", "color": "danger"}]
			}`, r.Body.String())
		})
}

func TestRequestNotificationNewWithParams(t *testing.T) {
	engine, stub, r, cleanup := setup()
	defer cleanup()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "new We should pair more"})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "Oops, did you mean \"/retro good We should pair more\"?",
				"attachments": []
			}`, r.Body.String())
		})
	assert.Empty(t, stub.records)
}

func TestRequestNotificationNewAcknowledges(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	// Delayed-response sink for the background sweep.
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer sink.Close()

	r.POST("/handle_slack_notification").
		SetForm(notification(gofight.H{"text": "new", "response_url": sink.URL})).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{
				"response_type": "in_channel",
				"text": "Marking all current retrospective items as reviewed...",
				"attachments": []
			}`, r.Body.String())
		})
}
