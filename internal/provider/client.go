// Package provider is a minimal client for a match-data HTTP API that serves
// provider-native match documents.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/parser"
)

// ErrNotFound is returned when the API has no resource for the requested id.
var ErrNotFound = errors.New("not found")

// Client is a minimal match-data API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client for the API rooted at baseURL. An empty apiKey
// sends unauthenticated requests.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// get performs a GET request against the API and returns the decompressed
// response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}

	var name string
	switch resp.Header.Get("Content-Encoding") {
	case "zstd":
		name = ".zst"
	case "gzip":
		name = ".gz"
	}
	body, err := parser.NewReader(resp.Body, name)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", path, err)
	}
	return data, nil
}

// GetMatch fetches the full provider-native document for one match.
func (c *Client) GetMatch(ctx context.Context, matchID string) (document.Document, error) {
	data, err := c.get(ctx, "/matchDetails?matchId="+url.QueryEscape(matchID))
	if err != nil {
		return document.Document{}, err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return document.Document{}, fmt.Errorf("match %s: %w", matchID, err)
	}
	return doc, nil
}

// Fixture is one entry from a team's fixture list.
type Fixture struct {
	MatchID  string
	Date     string
	Home     string
	Away     string
	Finished bool
}

// GetTeamFixtures returns a team's fixtures in the order the API lists them.
func (c *Client) GetTeamFixtures(ctx context.Context, teamID string) ([]Fixture, error) {
	data, err := c.get(ctx, "/teams?id="+url.QueryEscape(teamID))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("team %s: %w", teamID, document.ErrInvalidJSON)
	}

	var out []Fixture
	list := gjson.GetBytes(data, "fixtures.allFixtures.fixtures")
	list.ForEach(func(_, f gjson.Result) bool {
		id := f.Get("id").String()
		if id == "" {
			return true
		}
		out = append(out, Fixture{
			MatchID:  id,
			Date:     f.Get("status.utcTime").String(),
			Home:     f.Get("home.name").String(),
			Away:     f.Get("away.name").String(),
			Finished: f.Get("status.finished").Bool(),
		})
		return true
	})
	return out, nil
}
