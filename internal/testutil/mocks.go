package testutil

import (
	"sync"
	"time"

	"hangovr/internal/models"
	"hangovr/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// StubRandom replays scripted draws. When a script runs out it falls back
// to the lower bound of the range (or the first option).
type StubRandom struct {
	mu          sync.Mutex
	Ints        []int
	Floats      []float64
	Choices     []string
	IntCalls    int
	FloatCalls  int
	ChoiceCalls int
}

func (s *StubRandom) IntRange(min, _ int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IntCalls++
	if len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v
}

func (s *StubRandom) FloatRange(min, _ float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FloatCalls++
	if len(s.Floats) == 0 {
		return min
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *StubRandom) Choice(options []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ChoiceCalls++
	if len(s.Choices) == 0 {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	v := s.Choices[0]
	s.Choices = s.Choices[1:]
	return v
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	PersistenceCalls int
	Rankings         int
	SanitizedByField map[string]int
	SessionsPruned   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) IncRankingsTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rankings++
}
func (m *MockMetrics) IncSanitizedFields(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SanitizedByField == nil {
		m.SanitizedByField = make(map[string]int)
	}
	m.SanitizedByField[field]++
}
func (m *MockMetrics) AddSessionsPruned(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsPruned += n
}

// PeerList is a models.PeerQuerier over a fixed slice, applying the same
// bounds as the record store.
type PeerList []models.Record

func (p PeerList) QueryByAgeSex(ageMin, ageMax int, sex string) []models.Record {
	var out []models.Record
	for _, r := range p {
		if r.Age > ageMin && r.Age < ageMax && r.Sex == sex {
			out = append(out, r)
		}
	}
	return out
}

func (p PeerList) QueryByLatitude(latMin, latMax float64) []models.Record {
	var out []models.Record
	for _, r := range p {
		if r.Latitude >= latMin && r.Latitude < latMax {
			out = append(out, r)
		}
	}
	return out
}
