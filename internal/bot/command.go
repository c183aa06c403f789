package bot

import "strings"

// Recognized slash-command actions.
const (
	ActionGood = "good"
	ActionBad  = "bad"
	ActionTry  = "try"
	ActionNew  = "new"
	ActionList = "list"
	ActionHelp = "help"
)

var (
	categoryActions = []string{ActionGood, ActionBad, ActionTry}
	allActions      = []string{ActionGood, ActionBad, ActionTry, ActionNew, ActionList, ActionHelp, "?"}
)

// A Command is the parsed form of one slash-command invocation.
type Command struct {
	// Action is one of the recognized keywords. Unrecognized input is
	// coerced to ActionHelp by Parse.
	Action string
	// Params is the free-text remainder of the command.
	Params string
	// Slash is the slash command as invoked, e.g. "/retro" or "/good".
	Slash string
	// UserName is the Slack user who invoked the command.
	UserName string
	// ResponseURL receives delayed responses posted after the reply.
	ResponseURL string
}

// Parse extracts the action and its parameters from a slash-command payload.
//
// The bot can be invoked through a generic alias ("/retro good Bla Bla") or
// through a category alias ("/good Bla Bla"). In the latter case the alias
// itself is the action and the whole text is the parameter.
func Parse(slash, text, userName, responseURL string) Command {
	text = strings.Join(strings.Fields(text), " ")

	cmd := Command{
		Slash:       slash,
		UserName:    userName,
		ResponseURL: responseURL,
	}

	alias := strings.ToLower(strings.TrimPrefix(slash, "/"))
	if isCategory(alias) {
		cmd.Action = alias
		cmd.Params = text
		return cmd
	}

	cmd.Action, cmd.Params = split(text)
	if !isAction(cmd.Action) {
		cmd.Action = ActionHelp
	}
	if cmd.Action == "?" {
		cmd.Action = ActionHelp
	}
	return cmd
}

func split(text string) (action, params string) {
	parts := strings.SplitN(text, " ", 2)
	action = strings.ToLower(parts[0])
	if len(parts) > 1 {
		params = parts[1]
	}
	return action, params
}

func isCategory(action string) bool {
	for _, a := range categoryActions {
		if action == a {
			return true
		}
	}
	return false
}

func isAction(action string) bool {
	for _, a := range allActions {
		if action == a {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first rune and lower-cases the rest,
// matching the normalization applied to stored item objects.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
