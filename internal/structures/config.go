package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Enabled      bool          `yaml:"enabled"`
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required"`
	Compression  string        `yaml:"compression" validate:"in:fastest,default,better,best"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// PopulationConfig controls the synthetic peer population seeded at startup.
type PopulationConfig struct {
	Size           int    `yaml:"size" validate:"min:0"`
	Seed           uint64 `yaml:"seed"`
	AdmitCompleted bool   `yaml:"admitCompleted"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	PruneInterval time.Duration `yaml:"pruneInterval" validate:"required"`
	MaxSessions   int           `yaml:"maxSessions" validate:"min:0"`
}

type RankingConfig struct {
	// RandomizeSex always replaces the user's sex with a random choice,
	// matching the legacy form behaviour.
	RandomizeSex bool `yaml:"randomizeSex"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server           `yaml:"webServer"`
	Persistence Persistence      `yaml:"persistence"`
	Logger      LoggerConfig     `yaml:"logger"`
	Population  PopulationConfig `yaml:"population"`
	Session     SessionConfig    `yaml:"session"`
	Ranking     RankingConfig    `yaml:"ranking"`
	Cache       CacheConfig      `yaml:"cache"`
	Metrics     MetricsConfig    `yaml:"metrics"`
}
