package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/model"
)

// DefaultTTL is how long a cached contact stays visible to Get.
const DefaultTTL = 90 * 24 * time.Hour

// DefaultPath returns the cache file location under the user's home profile.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".signalis", "enrichment_cache.json")
	}
	return filepath.Join(home, ".signalis", "enrichment_cache.json")
}

// Stats summarizes the cache contents.
type Stats struct {
	Total    int            `json:"total"`
	Fresh    int            `json:"fresh"`
	Stale    int            `json:"stale"`
	BySource map[string]int `json:"by_source"`
	Path     string         `json:"cache_file"`
}

// Store is a TTL-aware key-value store for enriched contacts, backed by a
// single JSON file. A coarse mutex serializes every read-modify-write so
// concurrent batch workers cannot lose each other's entries; on key
// collisions the last writer wins.
type Store struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the 90-day default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNow fixes the clock for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store persisting to path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached contact for record's derived key, or false when the
// key is absent or the entry has aged past the TTL. Stale entries stay on
// disk but are invisible to callers.
func (s *Store) Get(record *model.NormalizedRecord) (*model.CachedContact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := s.load()
	contact, ok := contacts[Key(record)]
	if !ok {
		return nil, false
	}
	if contact.Age(s.now()) > s.ttl {
		return nil, false
	}
	return &contact, true
}

// Put stores the result under record's derived key. Only successful
// enrichments from a real provider are cached: the outcome must be
// ENRICHED or VERIFIED with a non-empty email, and the source must not be
// "none" or "existing".
func (s *Store) Put(record *model.NormalizedRecord, result *model.EnrichmentResult) error {
	if !result.Succeeded() {
		return nil
	}
	if result.Source == model.SourceNone || result.Source == model.SourceExisting {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := s.load()
	contacts[Key(record)] = model.CachedContact{
		Email:      result.Email,
		FirstName:  firstNonEmpty(result.FirstName, record.FirstName),
		LastName:   firstNonEmpty(result.LastName, record.LastName),
		Title:      firstNonEmpty(result.Title, record.Title),
		Source:     result.Source,
		EnrichedAt: s.now().UTC().Format(time.RFC3339),
		Verified:   result.Outcome == model.OutcomeVerified,
	}
	return s.save(contacts)
}

// Clear removes the cache file entirely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "cache: remove %s", s.path)
	}
	return nil
}

// ComputeStats reports entry counts and per-source breakdown.
func (s *Store) ComputeStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := s.load()
	stats := Stats{
		Total:    len(contacts),
		BySource: make(map[string]int),
		Path:     s.path,
	}
	now := s.now()
	for _, contact := range contacts {
		if contact.Age(now) > s.ttl {
			stats.Stale++
		} else {
			stats.Fresh++
		}
		stats.BySource[contact.Source]++
	}
	return stats
}

// load reads the full cache map. Missing or corrupt files fail open as an
// empty cache; enrichment must never be blocked by cache damage.
func (s *Store) load() map[string]model.CachedContact {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]model.CachedContact)
	}

	var contacts map[string]model.CachedContact
	if err := json.Unmarshal(data, &contacts); err != nil {
		zap.L().Warn("cache: unreadable cache file, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return make(map[string]model.CachedContact)
	}
	if contacts == nil {
		contacts = make(map[string]model.CachedContact)
	}
	return contacts
}

func (s *Store) save(contacts map[string]model.CachedContact) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrapf(err, "cache: mkdir %s", filepath.Dir(s.path))
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return eris.Wrap(err, "cache: marshal")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write %s", s.path)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
