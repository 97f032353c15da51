package games

import "time"

// Side marks whether the favorite team plays at home or away.
type Side string

const (
	Home Side = "Home"
	Away Side = "Away"
)

// NormalizedGame is the canonical fixture shape exposed by the service,
// produced from provider-specific payloads. DatetimeUTC is nil when the
// provider could not supply a reliable instant; it is never a guess.
type NormalizedGame struct {
	TeamName    string     `json:"teamName"`
	Opponent    string     `json:"opponent"`
	HomeAway    Side       `json:"homeAway"`
	Competition string     `json:"competition"`
	DatetimeUTC *time.Time `json:"datetimeUTC"`
	Venue       string     `json:"venue,omitempty"`
	TeamLogoURL string     `json:"teamLogoUrl,omitempty"`
}

// FixtureSummary is the slimmed-down fixture a caller submits when asking
// for storylines.
type FixtureSummary struct {
	TeamName    string `json:"teamName"`
	Opponent    string `json:"opponent"`
	Competition string `json:"competition,omitempty"`
	DatetimeUTC string `json:"datetimeUTC,omitempty"`
	HomeAway    Side   `json:"homeAway,omitempty"`
}
