// Package bot implements the retrospective slash-command logic: parsing,
// dispatching, Airtable reads/writes and Slack reply formatting.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mdouchement/retrobot/internal/worker"
	"github.com/mdouchement/retrobot/pkg/airtable"
	"github.com/mdouchement/retrobot/pkg/slack"
)

// Name is the user-visible name of the bot.
const Name = "Retrospective Bot"

// Airtable location of the retrospective items.
const (
	Table = "Items"
	View  = "Current View"
)

// A Bot turns parsed commands into Slack responses backed by an Airtable
// base. It is safe for concurrent use; all its state is read-only.
type Bot struct {
	store    airtable.Client
	notifier slack.Notifier
	queue    worker.Queue
	log      logrus.FieldLogger
	now      func() time.Time
}

// New returns a Bot.
func New(store airtable.Client, notifier slack.Notifier, queue worker.Queue, log logrus.FieldLogger) *Bot {
	return &Bot{
		store:    store,
		notifier: notifier,
		queue:    queue,
		log:      log,
		now:      time.Now,
	}
}

// Dispatch executes the command and returns the reply to render.
// All replies are channel-visible except help, which only the invoking user
// sees.
func (b *Bot) Dispatch(cmd Command) slack.Response {
	switch cmd.Action {
	case ActionGood, ActionBad, ActionTry:
		return b.addItem(cmd.Action, cmd.Params, cmd.UserName)
	case ActionList:
		return b.listItems()
	case ActionNew:
		if cmd.Params != "" {
			return slack.Broadcast(fmt.Sprintf("Oops, did you mean \"%s good %s\"?", cmd.Slash, cmd.Params))
		}
		return b.startSprint(cmd.ResponseURL)
	default:
		return slack.Ephemeral(helpMessage(cmd.Slash))
	}
}

// addItem records a new retrospective item unless its text is a reserved
// term or the item already exists in the current sprint.
func (b *Bot) addItem(category, object, userName string) slack.Response {
	if isAction(strings.ToLower(object)) {
		return slack.Broadcast(fmt.Sprintf("Sorry, but *%s* can't save *%s* because it's a reserved term.", Name, object))
	}

	category = strings.ToLower(category)
	object = capitalize(object)

	existing, err := b.store.List(Table, View, airtable.AndEquals(map[string]string{
		FieldCategory: category,
		FieldObject:   object,
	}))
	if err != nil {
		b.log.WithError(err).Error("bot: could not check for existing item")
	}
	if len(existing) > 0 {
		return slack.Broadcast("This retrospective item has already been added!")
	}

	record, err := b.store.Create(Table, map[string]interface{}{
		FieldCategory:  category,
		FieldObject:    object,
		FieldCreator:   userName,
		FieldCreatedAt: timestamp(b.now()),
	})
	if err != nil || record == nil {
		if err != nil {
			b.log.WithError(err).Error("bot: could not create item")
		}
		return slack.Broadcast(fmt.Sprintf("Sorry, but *%s* was unable to save the retrospective item.", Name))
	}

	return slack.Broadcast("New retrospective item:", b.attachments(itemsFromRecords([]airtable.Record{*record}))...)
}

// listItems renders all items of the current sprint.
func (b *Bot) listItems() slack.Response {
	records, err := b.store.List(Table, View, "")
	if err != nil {
		b.log.WithError(err).Error("bot: could not list items")
	}
	if len(records) == 0 {
		return slack.Broadcast("No retrospective items yet.")
	}

	return slack.Broadcast("Retrospective items:", b.attachments(itemsFromRecords(records))...)
}

// startSprint enqueues the review sweep and acknowledges immediately.
// The sweep posts its own delayed response to the response_url.
func (b *Bot) startSprint(responseURL string) slack.Response {
	err := b.queue.Enqueue(func(ctx context.Context) {
		b.Sweep(ctx, responseURL)
	})
	if err != nil {
		b.log.WithError(err).Error("bot: could not enqueue sweep")
		return slack.Broadcast(fmt.Sprintf("Sorry, but *%s* was unable to start a new sprint.", Name))
	}
	return slack.Broadcast("Marking all current retrospective items as reviewed...")
}

func helpMessage(slash string) string {
	return strings.Join([]string{
		fmt.Sprintf("*%s good <item>* to save an item in the \"good\" list", slash),
		fmt.Sprintf("*%s bad <item>* to save an item in the \"bad\" list", slash),
		fmt.Sprintf("*%s try <item>* to save an item in the \"try\" list", slash),
		fmt.Sprintf("*%s list* to see the different lists saved for the current sprint", slash),
		fmt.Sprintf("*%s new* to start a fresh list for the new scrum sprint", slash),
		fmt.Sprintf("*%s help* to see this message", slash),
	}, "\n")
}
