package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

// Endpoint is the public Airtable REST API endpoint.
const Endpoint = "https://api.airtable.com/v0"

type (
	// A Client defines all interactions that can be performed on an Airtable base.
	Client interface {
		// List returns the records of the given table restricted to a view.
		// filterByFormula is optional and follows the Airtable formula syntax.
		List(table, view, filterByFormula string) ([]Record, error)
		// Create inserts a new record with the given fields in the table.
		Create(table string, fields map[string]interface{}) (*Record, error)
		// Update patches the fields of an existing record.
		Update(table, id string, fields map[string]interface{}) (*Record, error)
	}

	p      map[string]interface{}
	client struct {
		http     *http.Client
		endpoint string
		base     string
		key      string
	}
)

// NewDefaultClient returns a new Client for the given base with default HTTP client.
func NewDefaultClient(base, key string) (Client, error) {
	return NewClient(http.DefaultClient, Endpoint, base, key)
}

// NewClient returns a new Client for the given base.
func NewClient(c *http.Client, endpoint, base, key string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{http: c, endpoint: endpoint, base: base, key: key}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) List(table, view, filterByFormula string) ([]Record, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, c.base, table)

	query := url.Values{}
	if view != "" {
		query.Set("view", view)
	}
	if filterByFormula != "" {
		query.Set("filterByFormula", filterByFormula)
	}
	u.RawQuery = query.Encode()

	//
	// Build request
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	c.prepare(req)

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	var payload struct {
		Records []Record `json:"records"`
	}
	dec := json.NewDecoder(res.Body)
	return payload.Records, errors.Wrap(dec.Decode(&payload), "could not parse response")
}

func (c *client) Create(table string, fields map[string]interface{}) (*Record, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, c.base, table)

	//
	// Build request
	body, err := json.Marshal(p{"fields": fields})
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize fields")
	}

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	c.prepare(req)

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	var record Record
	dec := json.NewDecoder(res.Body)
	return &record, errors.Wrap(dec.Decode(&record), "could not parse response")
}

func (c *client) Update(table, id string, fields map[string]interface{}) (*Record, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, c.base, table, id)

	//
	// Build request
	body, err := json.Marshal(p{"fields": fields})
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize fields")
	}

	req, err := http.NewRequest(http.MethodPatch, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	c.prepare(req)

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	var record Record
	dec := json.NewDecoder(res.Body)
	return &record, errors.Wrap(dec.Decode(&record), "could not parse response")
}

func (c *client) prepare(req *http.Request) {
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.key))
}
