// Package schedule resolves the configured favorite teams into normalized
// upcoming fixtures via the sports-data provider, behind a short-lived
// process-wide cache.
package schedule

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sportsbuddy/backend/internal/model/games"
	"github.com/sportsbuddy/backend/internal/model/team"
	"github.com/sportsbuddy/backend/internal/sportsdb"
)

// Source reports where a games payload came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
)

// Service fetches and caches upcoming games for the favorite teams.
type Service struct {
	teams  team.Store
	client *sportsdb.Client
	cache  *Cache
}

// NewService wires the schedule fetcher.
func NewService(teams team.Store, client *sportsdb.Client, cacheTTL time.Duration) *Service {
	return &Service{
		teams:  teams,
		client: client,
		cache:  NewCache(cacheTTL),
	}
}

// UpcomingGames returns one normalized fixture per favorite team that has a
// resolvable next event. Teams the provider cannot resolve are omitted
// silently; a provider transport failure fails the whole batch since there
// is no per-call retry. force bypasses the cache.
func (s *Service) UpcomingGames(ctx context.Context, force bool) ([]games.NormalizedGame, Source, error) {
	if !force {
		if items, ok := s.cache.Get(); ok {
			return items, SourceCache, nil
		}
	}

	items, err := s.fetchAll(ctx)
	if err != nil {
		return nil, "", err
	}

	s.cache.Put(items)
	return items, SourceLive, nil
}

// fetchAll resolves every configured team concurrently and joins the
// results in configuration order.
func (s *Service) fetchAll(ctx context.Context) ([]games.NormalizedGame, error) {
	queries := s.teams.List()
	results := make([]*games.NormalizedGame, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q team.Query) {
			defer wg.Done()
			results[i], errs[i] = s.resolveTeam(ctx, q)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	items := make([]games.NormalizedGame, 0, len(results))
	for _, g := range results {
		if g != nil {
			items = append(items, *g)
		}
	}
	return items, nil
}

// resolveTeam runs one team's pipeline: name search, sport disambiguation,
// next event, normalization. A nil game with nil error means the team has
// no resolvable fixture and is simply omitted.
func (s *Service) resolveTeam(ctx context.Context, q team.Query) (*games.NormalizedGame, error) {
	candidates, err := s.client.SearchTeams(ctx, q.Name)
	if err != nil {
		return nil, err
	}
	match := pickTeam(candidates, q.ExpectedSport)
	if match == nil {
		log.Debug().Str("team", q.Name).Msg("no provider team matched")
		return nil, nil
	}

	events, err := s.client.NextEvents(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		log.Debug().Str("team", q.Name).Msg("no upcoming event")
		return nil, nil
	}
	event := events[0]

	isHome := event.HomeTeamID == match.ID
	opponent := event.AwayTeam
	side := games.Home
	if !isHome {
		opponent = event.HomeTeam
		side = games.Away
	}
	if opponent == "" {
		opponent = "TBD"
	}

	name := q.DisplayName
	if name == "" {
		name = match.Name
	}

	return &games.NormalizedGame{
		TeamName:    name,
		Opponent:    opponent,
		HomeAway:    side,
		Competition: event.League,
		DatetimeUTC: parseUTCInstant(event),
		Venue:       event.Venue,
		TeamLogoURL: match.Badge,
	}, nil
}

// pickTeam prefers the candidate whose sport matches the expected one, so a
// name shared across sports resolves correctly; otherwise the first result.
func pickTeam(candidates []sportsdb.Team, expectedSport string) *sportsdb.Team {
	for i := range candidates {
		if strings.EqualFold(candidates[i].Sport, expectedSport) {
			return &candidates[i]
		}
	}
	if len(candidates) > 0 {
		return &candidates[0]
	}
	return nil
}

var timeOfDayPattern = regexp.MustCompile(`\d{2}:\d{2}`)

// parseUTCInstant resolves the event's UTC instant, preferring the explicit
// timestamp. With only date+time fields the concatenation is read as UTC;
// the provider does not say whether strTime is local, and guessing a zone
// would be wrong in a different way. Unparseable input yields nil rather
// than a wrong-but-present instant.
func parseUTCInstant(event sportsdb.Event) *time.Time {
	if ts := strings.TrimSpace(event.Timestamp); ts != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		}
		return nil
	}

	if event.DateEvent == "" {
		return nil
	}
	clock := "00:00:00"
	if timeOfDayPattern.MatchString(event.Time) {
		clock = event.Time
	}
	if len(clock) == len("15:04") {
		clock += ":00"
	}
	parsed, err := time.Parse(time.RFC3339, event.DateEvent+"T"+clock+"Z")
	if err != nil {
		return nil
	}
	utc := parsed.UTC()
	return &utc
}
