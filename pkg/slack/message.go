// Package slack holds the wire format of slash-command replies and a small
// client to post delayed responses to a response_url.
package slack

// Visibility of a slash-command reply.
const (
	// ResponseInChannel makes the reply visible to the whole channel.
	ResponseInChannel = "in_channel"
	// ResponseEphemeral makes the reply visible to the invoking user only.
	ResponseEphemeral = "ephemeral"
)

type (
	// A Response is the JSON body Slack expects from a slash-command endpoint.
	Response struct {
		ResponseType string       `json:"response_type"`
		Text         string       `json:"text"`
		Attachments  []Attachment `json:"attachments"`
	}

	// An Attachment is a structured block within a Response.
	Attachment struct {
		Title string `json:"title"`
		Text  string `json:"text"`
		Color string `json:"color,omitempty"`
	}
)

// Broadcast returns a channel-visible Response.
// Attachments always serialize as a JSON array, never null.
func Broadcast(text string, attachments ...Attachment) Response {
	if attachments == nil {
		attachments = []Attachment{}
	}
	return Response{
		ResponseType: ResponseInChannel,
		Text:         text,
		Attachments:  attachments,
	}
}

// Ephemeral returns a Response visible to the invoking user only.
func Ephemeral(text string) Response {
	return Response{
		ResponseType: ResponseEphemeral,
		Text:         text,
		Attachments:  []Attachment{},
	}
}
