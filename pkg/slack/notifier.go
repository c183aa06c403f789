package slack

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

type (
	// A Notifier posts delayed responses to a slash-command response_url.
	Notifier interface {
		// Notify sends the given Response to url.
		Notify(url string, r Response) error
	}

	notifier struct {
		http *http.Client
	}
)

// NewDefaultNotifier returns a new Notifier with default HTTP client.
func NewDefaultNotifier() Notifier {
	return NewNotifier(http.DefaultClient)
}

// NewNotifier returns a new Notifier.
func NewNotifier(c *http.Client) Notifier {
	return &notifier{http: c}
}

func (n *notifier) Notify(url string, r Response) error {
	//
	// Build request
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "could not serialize response")
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")

	//
	// Perform request
	res, err := n.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return errors.Errorf("slack: response_url returned status %d", res.StatusCode)
	}
	return nil
}
