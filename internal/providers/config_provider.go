package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hangovr/internal/structures"
)

const AppName = "Hangovr"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("population.size", 1000)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.pruneInterval", time.Minute)
	v.SetDefault("cache.ttl", 60*time.Second)

	_ = v.BindEnv("webServer.port", "HANGOVR_PORT")
	_ = v.BindEnv("logger.level", "HANGOVR_LOG_LEVEL")
	_ = v.BindEnv("population.size", "HANGOVR_POPULATION_SIZE")
	_ = v.BindEnv("population.seed", "HANGOVR_POPULATION_SEED")
	_ = v.BindEnv("persistence.enabled", "HANGOVR_PERSISTENCE_ENABLED")
	_ = v.BindEnv("cache.enabled", "HANGOVR_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "HANGOVR_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
