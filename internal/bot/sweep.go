package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mdouchement/retrobot/pkg/slack"
)

// updateConcurrency bounds the parallel Reviewed At updates of one sweep.
const updateConcurrency = 4

// Sweep marks every item of the current sprint as reviewed and posts the
// outcome to the response_url. It runs as a background task; update failures
// are independent, counted and reported in the delayed response.
func (b *Bot) Sweep(_ context.Context, responseURL string) {
	records, err := b.store.List(Table, View, "")
	if err != nil {
		b.log.WithError(err).Error("bot: sweep could not list items")
		b.notify(responseURL, slack.Broadcast(fmt.Sprintf("Sorry, but *%s* was unable to fetch the retrospective items.", Name)))
		return
	}
	if len(records) == 0 {
		b.notify(responseURL, slack.Broadcast("All retrospective items were already marked as reviewed!"))
		return
	}

	reviewedAt := timestamp(b.now())

	var failed int32
	g := new(errgroup.Group)
	g.SetLimit(updateConcurrency)
	for _, record := range records {
		record := record
		g.Go(func() error {
			_, err := b.store.Update(Table, record.ID, map[string]interface{}{
				FieldReviewedAt: reviewedAt,
			})
			if err != nil {
				atomic.AddInt32(&failed, 1)
				b.log.WithError(err).Errorf("bot: sweep could not update item %s", record.ID)
			}
			return nil
		})
	}
	_ = g.Wait()

	// The view reflects the updates: whatever it still returns was not
	// marked as reviewed.
	remaining, err := b.store.List(Table, View, "")
	if err != nil {
		b.log.WithError(err).Error("bot: sweep could not list remaining items")
	}
	attachments := b.attachments(itemsFromRecords(remaining))

	text := "All retrospective items marked as reviewed!"
	if n := atomic.LoadInt32(&failed); n > 0 {
		text = fmt.Sprintf("%s\n%d item(s) could not be marked as reviewed.", text, n)
	}
	if len(attachments) > 0 {
		text += "\nHere are the remaining 'try' items to complete:"
	}

	b.notify(responseURL, slack.Broadcast(text, attachments...))
}

func (b *Bot) notify(url string, r slack.Response) {
	if err := b.notifier.Notify(url, r); err != nil {
		b.log.WithError(err).Error("bot: could not post delayed response")
	}
}
