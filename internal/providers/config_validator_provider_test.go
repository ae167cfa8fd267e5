package providers

import (
	"hangovr/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			Enabled:      true,
			FilePath:     "/tmp/hangovr.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Population: structures.PopulationConfig{
			Size: 1000,
		},
		Session: structures.SessionConfig{
			TTL:           30 * time.Minute,
			PruneInterval: time.Minute,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativePopulation(t *testing.T) {
	c := validConfig()
	c.Population.Size = -1
	err := NewCnfValidator(c).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "population")
}

func TestConfigValidator_EmptyPopulationAllowed(t *testing.T) {
	c := validConfig()
	c.Population.Size = 0
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_MissingPruneInterval(t *testing.T) {
	c := validConfig()
	c.Session.PruneInterval = 0
	err := NewCnfValidator(c).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "session")
}

func TestConfigValidator_PersistenceCheckedOnlyWhenEnabled(t *testing.T) {
	c := validConfig()
	c.Persistence.FilePath = ""
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Persistence.Enabled = false
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_PersistenceCompression(t *testing.T) {
	c := validConfig()
	c.Persistence.Compression = "better"
	assert.NoError(t, NewCnfValidator(c).Validate())

	c.Persistence.Compression = "ultra"
	err := NewCnfValidator(c).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "persistence")
}
