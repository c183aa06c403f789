package bot

import (
	"time"

	"github.com/mdouchement/retrobot/pkg/airtable"
)

// Airtable columns of the Items table.
const (
	FieldCategory   = "Category"
	FieldObject     = "Object"
	FieldCreator    = "Creator"
	FieldCreatedAt  = "Created At"
	FieldReviewedAt = "Reviewed At"
)

// An Item is a retrospective entry of the current sprint.
type Item struct {
	ID         string
	Category   string
	Object     string
	Creator    string
	CreatedAt  string
	ReviewedAt string
}

func itemFromRecord(r airtable.Record) Item {
	return Item{
		ID:         r.ID,
		Category:   r.Field(FieldCategory),
		Object:     r.Field(FieldObject),
		Creator:    r.Field(FieldCreator),
		CreatedAt:  r.Field(FieldCreatedAt),
		ReviewedAt: r.Field(FieldReviewedAt),
	}
}

func itemsFromRecords(records []airtable.Record) []Item {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, itemFromRecord(r))
	}
	return items
}

// timestamp formats t as UTC ISO-8601 with millisecond precision and a
// literal Z suffix, the format stored in the Created At and Reviewed At
// columns.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
