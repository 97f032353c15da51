// Package sportsdb is a thin client for TheSportsDB JSON API. Every
// provider field is optional: responses are decoded into plain string
// fields that may be empty, and callers decide what an absent value means.
package sportsdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Client calls TheSportsDB with a fixed API key baked into the URL path.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL ("https://.../api/v1/json")
// and API key ("123" is the public demo key).
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Team is one entry of a searchteams.php response.
type Team struct {
	ID    string `json:"idTeam"`
	Name  string `json:"strTeam"`
	Sport string `json:"strSport"`
	Badge string `json:"strTeamBadge"`
}

// Event is one entry of an eventsnext.php response. DateEvent is
// "YYYY-MM-DD", Time is "HH:mm:ss", Timestamp is an ISO-ish UTC instant
// when the provider has one.
type Event struct {
	ID         string `json:"idEvent"`
	Name       string `json:"strEvent"`
	League     string `json:"strLeague"`
	DateEvent  string `json:"dateEvent"`
	Time       string `json:"strTime"`
	Timestamp  string `json:"strTimestamp"`
	Venue      string `json:"strVenue"`
	HomeTeamID string `json:"idHomeTeam"`
	AwayTeamID string `json:"idAwayTeam"`
	HomeTeam   string `json:"strHomeTeam"`
	AwayTeam   string `json:"strAwayTeam"`
}

type searchTeamsResponse struct {
	Teams []Team `json:"teams"`
}

type nextEventsResponse struct {
	Events []Event `json:"events"`
}

// SearchTeams looks up teams by name. A nil slice means the provider knows
// no team by that name, which is not an error.
func (c *Client) SearchTeams(ctx context.Context, name string) ([]Team, error) {
	var payload searchTeamsResponse
	if err := c.getJSON(ctx, "searchteams.php?t="+url.QueryEscape(name), &payload); err != nil {
		return nil, err
	}
	return payload.Teams, nil
}

// NextEvents returns the upcoming scheduled events for a team id, soonest
// first. A nil slice means no upcoming event is scheduled.
func (c *Client) NextEvents(ctx context.Context, teamID string) ([]Event, error) {
	var payload nextEventsResponse
	if err := c.getJSON(ctx, "eventsnext.php?id="+url.QueryEscape(teamID), &payload); err != nil {
		return nil, err
	}
	return payload.Events, nil
}

func (c *Client) getJSON(ctx context.Context, pathAndQuery string, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiKey, pathAndQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", pathAndQuery, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sports provider request failed for %s: %w", pathAndQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("sports provider request failed (%d) for %s", resp.StatusCode, pathAndQuery)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Err(err).Str("path", pathAndQuery).Msg("sports provider returned undecodable body")
		return fmt.Errorf("decode sports provider response for %s: %w", pathAndQuery, err)
	}
	return nil
}
