package team

// Query describes one favorite team to resolve against the sports-data
// provider: the name to search for, the sport used to disambiguate
// same-named teams, and an optional display-name override.
type Query struct {
	Name          string `json:"name"`
	ExpectedSport string `json:"expectedSport"`
	DisplayName   string `json:"displayName,omitempty"`
}

// Store exposes the configured favorite teams.
type Store interface {
	List() []Query
}

// MemoryStore implements Store with a fixed in-memory slice.
type MemoryStore struct {
	items []Query
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied queries.
func NewMemoryStore(items []Query) *MemoryStore {
	return &MemoryStore{items: append([]Query(nil), items...)}
}

// List returns the configured team queries.
func (s *MemoryStore) List() []Query {
	return append([]Query(nil), s.items...)
}

// Seed provides the default favorite teams the assistant roots for.
func Seed() []Query {
	return []Query{
		{Name: "FC Barcelona", ExpectedSport: "Soccer"},
		{Name: "Inter Miami CF", ExpectedSport: "Soccer", DisplayName: "Inter Miami"},
		{Name: "New York Yankees", ExpectedSport: "Baseball"},
		{Name: "New York Knicks", ExpectedSport: "Basketball"},
	}
}
