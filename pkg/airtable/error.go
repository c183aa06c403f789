package airtable

import (
	"encoding/json"
	"fmt"
	"io"
)

// An Error represents an HTTP error returned by the Airtable API.
type Error struct {
	StatusCode int
	Err        struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseError(r io.Reader, code int) error {
	var aerr Error
	dec := json.NewDecoder(r)
	if err := dec.Decode(&aerr); err != nil {
		aerr.Err.Message = "unreadable error payload"
	}
	aerr.StatusCode = code
	return &aerr
}

func (e *Error) Error() string {
	if e.Err.Message == "" {
		return fmt.Sprintf("airtable: status %d", e.StatusCode)
	}
	return fmt.Sprintf("airtable: %s", e.Err.Message)
}
