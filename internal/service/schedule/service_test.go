package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sportsbuddy/backend/internal/model/games"
	"github.com/sportsbuddy/backend/internal/model/team"
	"github.com/sportsbuddy/backend/internal/sportsdb"
)

// fakeProvider serves canned searchteams/eventsnext payloads and counts
// requests so cache behavior is observable.
type fakeProvider struct {
	teams    map[string][]map[string]string
	events   map[string][]map[string]string
	requests atomic.Int64
	fail     bool
}

func (f *fakeProvider) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if f.fail {
			http.Error(w, "provider down", http.StatusBadGateway)
			return
		}

		switch {
		case strings.Contains(r.URL.Path, "searchteams.php"):
			json.NewEncoder(w).Encode(map[string]any{"teams": f.teams[r.URL.Query().Get("t")]})
		case strings.Contains(r.URL.Path, "eventsnext.php"):
			json.NewEncoder(w).Encode(map[string]any{"events": f.events[r.URL.Query().Get("id")]})
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestService(t *testing.T, provider *fakeProvider, queries []team.Query) *Service {
	t.Helper()
	srv := httptest.NewServer(provider.handler())
	t.Cleanup(srv.Close)

	client := sportsdb.NewClient(srv.URL, "123")
	return NewService(team.NewMemoryStore(queries), client, 10*time.Minute)
}

func TestUpcomingGamesNormalizesFixture(t *testing.T) {
	provider := &fakeProvider{
		teams: map[string][]map[string]string{
			"FC Barcelona": {{
				"idTeam": "1", "strTeam": "FC Barcelona", "strSport": "Soccer", "strTeamBadge": "https://img.example/barca.png",
			}},
		},
		events: map[string][]map[string]string{
			"1": {{
				"idEvent": "e1", "strLeague": "La Liga",
				"dateEvent": "2026-09-05", "strTime": "19:30:00",
				"strVenue":   "Camp Nou",
				"idHomeTeam": "2", "idAwayTeam": "1",
				"strHomeTeam": "Sevilla", "strAwayTeam": "FC Barcelona",
			}},
		},
	}
	svc := newTestService(t, provider, []team.Query{{Name: "FC Barcelona", ExpectedSport: "Soccer"}})

	items, source, err := svc.UpcomingGames(context.Background(), false)
	if err != nil {
		t.Fatalf("UpcomingGames err: %v", err)
	}
	if source != SourceLive {
		t.Fatalf("expected live source, got %s", source)
	}
	if len(items) != 1 {
		t.Fatalf("expected one game, got %d", len(items))
	}

	g := items[0]
	if g.HomeAway != games.Away {
		t.Fatalf("expected away fixture, got %s", g.HomeAway)
	}
	if g.Opponent != "Sevilla" {
		t.Fatalf("unexpected opponent: %s", g.Opponent)
	}
	if g.Venue != "Camp Nou" || g.Competition != "La Liga" {
		t.Fatalf("unexpected fixture: %+v", g)
	}
	want := time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)
	if g.DatetimeUTC == nil || !g.DatetimeUTC.Equal(want) {
		t.Fatalf("unexpected datetime: %v", g.DatetimeUTC)
	}
}

func TestUpcomingGamesSportDisambiguation(t *testing.T) {
	provider := &fakeProvider{
		teams: map[string][]map[string]string{
			"New York Giants": {
				{"idTeam": "10", "strTeam": "New York Giants", "strSport": "American Football"},
				{"idTeam": "11", "strTeam": "New York Giants", "strSport": "Baseball"},
			},
		},
		events: map[string][]map[string]string{
			"11": {{
				"idEvent": "e2", "strLeague": "MLB", "dateEvent": "2026-09-06",
				"idHomeTeam": "11", "strHomeTeam": "New York Giants", "strAwayTeam": "Dodgers",
			}},
		},
	}
	svc := newTestService(t, provider, []team.Query{{Name: "New York Giants", ExpectedSport: "Baseball"}})

	items, _, err := svc.UpcomingGames(context.Background(), false)
	if err != nil {
		t.Fatalf("UpcomingGames err: %v", err)
	}
	if len(items) != 1 || items[0].Competition != "MLB" {
		t.Fatalf("sport filter picked the wrong entry: %+v", items)
	}
	if items[0].HomeAway != games.Home {
		t.Fatalf("expected home fixture, got %s", items[0].HomeAway)
	}
}

func TestUpcomingGamesExplicitTimestampWins(t *testing.T) {
	provider := &fakeProvider{
		teams: map[string][]map[string]string{
			"New York Knicks": {{"idTeam": "20", "strTeam": "New York Knicks", "strSport": "Basketball"}},
		},
		events: map[string][]map[string]string{
			"20": {{
				"idEvent": "e3", "strLeague": "NBA",
				"dateEvent": "2026-09-07", "strTime": "23:00:00",
				"strTimestamp": "2026-09-08T03:00:00",
				"idHomeTeam":   "20", "strAwayTeam": "Celtics",
			}},
		},
	}
	svc := newTestService(t, provider, []team.Query{{Name: "New York Knicks", ExpectedSport: "Basketball"}})

	items, _, err := svc.UpcomingGames(context.Background(), false)
	if err != nil {
		t.Fatalf("UpcomingGames err: %v", err)
	}
	want := time.Date(2026, 9, 8, 3, 0, 0, 0, time.UTC)
	if items[0].DatetimeUTC == nil || !items[0].DatetimeUTC.Equal(want) {
		t.Fatalf("timestamp not preferred: %v", items[0].DatetimeUTC)
	}
}

func TestUpcomingGamesOmitsUnresolvableTeams(t *testing.T) {
	provider := &fakeProvider{
		teams: map[string][]map[string]string{
			"Ghost United": nil,
			"Idle FC":      {{"idTeam": "30", "strTeam": "Idle FC", "strSport": "Soccer"}},
		},
		events: map[string][]map[string]string{"30": nil},
	}
	svc := newTestService(t, provider, []team.Query{
		{Name: "Ghost United", ExpectedSport: "Soccer"},
		{Name: "Idle FC", ExpectedSport: "Soccer"},
	})

	items, _, err := svc.UpcomingGames(context.Background(), false)
	if err != nil {
		t.Fatalf("UpcomingGames err: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %+v", items)
	}
}

func TestUpcomingGamesProviderFailureFailsBatch(t *testing.T) {
	provider := &fakeProvider{fail: true}
	svc := newTestService(t, provider, []team.Query{{Name: "FC Barcelona", ExpectedSport: "Soccer"}})

	if _, _, err := svc.UpcomingGames(context.Background(), false); err == nil {
		t.Fatal("expected batch error for provider failure")
	}
}

func TestUpcomingGamesServesFromCache(t *testing.T) {
	provider := &fakeProvider{
		teams:  map[string][]map[string]string{"Idle FC": {{"idTeam": "30", "strTeam": "Idle FC", "strSport": "Soccer"}}},
		events: map[string][]map[string]string{"30": {{"idEvent": "e", "idHomeTeam": "30", "strAwayTeam": "X", "dateEvent": "2026-01-01"}}},
	}
	svc := newTestService(t, provider, []team.Query{{Name: "Idle FC", ExpectedSport: "Soccer"}})
	ctx := context.Background()

	if _, source, err := svc.UpcomingGames(ctx, false); err != nil || source != SourceLive {
		t.Fatalf("first call: source=%s err=%v", source, err)
	}
	after := provider.requests.Load()

	if _, source, err := svc.UpcomingGames(ctx, false); err != nil || source != SourceCache {
		t.Fatalf("second call: source=%s err=%v", source, err)
	}
	if provider.requests.Load() != after {
		t.Fatal("cached call hit the provider")
	}

	if _, source, err := svc.UpcomingGames(ctx, true); err != nil || source != SourceLive {
		t.Fatalf("forced call: source=%s err=%v", source, err)
	}
	if provider.requests.Load() == after {
		t.Fatal("forced refresh did not hit the provider")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(10 * time.Minute)
	base := time.Now()
	cache.now = func() time.Time { return base }

	cache.Put([]games.NormalizedGame{{TeamName: "Idle FC"}})
	if _, ok := cache.Get(); !ok {
		t.Fatal("fresh entry not served")
	}

	cache.now = func() time.Time { return base.Add(10 * time.Minute) }
	if _, ok := cache.Get(); ok {
		t.Fatal("stale entry served")
	}
}

func TestParseUTCInstantFallbacks(t *testing.T) {
	if got := parseUTCInstant(sportsdb.Event{DateEvent: "2026-09-05"}); got == nil || !got.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only fallback: %v", got)
	}
	if got := parseUTCInstant(sportsdb.Event{DateEvent: "2026-09-05", Time: "19:30"}); got == nil || !got.Equal(time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("short clock fallback: %v", got)
	}
	if got := parseUTCInstant(sportsdb.Event{Timestamp: "not a time"}); got != nil {
		t.Fatalf("unparseable timestamp must yield nil, got %v", got)
	}
	if got := parseUTCInstant(sportsdb.Event{}); got != nil {
		t.Fatalf("empty event must yield nil, got %v", got)
	}
}
