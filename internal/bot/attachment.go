package bot

import (
	"sort"
	"strings"

	"github.com/mdouchement/retrobot/pkg/slack"
)

// defaultColor is used when a stored category is outside the known set,
// which can only happen through direct store manipulation.
const defaultColor = "#cccccc"

var colorsByCategory = map[string]string{
	ActionGood: "good",
	ActionBad:  "danger",
	ActionTry:  "warning",
}

// attachments groups items by category and renders one Slack attachment per
// group. Groups are sorted by category name; items keep their relative order
// within a group.
func (b *Bot) attachments(items []Item) []slack.Attachment {
	grouped := make(map[string][]Item)
	categories := make([]string, 0, len(colorsByCategory))
	for _, item := range items {
		if _, ok := grouped[item.Category]; !ok {
			categories = append(categories, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	sort.Strings(categories)

	attachments := make([]slack.Attachment, 0, len(categories))
	for _, category := range categories {
		color, ok := colorsByCategory[category]
		if !ok {
			b.log.Warnf("bot: unknown category %q in stored items", category)
			color = defaultColor
		}

		lines := make([]string, 0, len(grouped[category]))
		for _, item := range grouped[category] {
			lines = append(lines, "• "+item.Object)
		}

		attachments = append(attachments, slack.Attachment{
			Title: capitalize(category),
			Text:  strings.Join(lines, "\n\n"),
			Color: color,
		})
	}
	return attachments
}
