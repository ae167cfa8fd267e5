package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/roylee0704/gron"

	"hangovr/internal/providers"
	"hangovr/internal/services"
	"hangovr/internal/storage/interfaces"
	"hangovr/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.HangoverServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	clock       clockwork.Clock
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.config.Persistence.Enabled && s.config.Persistence.SaveInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
			if err := s.Persist(); err != nil {
				return
			}
			s.logger.Infof(providers.TypeApp, "Persisted population to file %s", s.config.Persistence.FilePath)
		})
	}

	if s.config.Session.PruneInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Session.PruneInterval), s.pruneSessions)
	}

	s.cron.Start()
}

func (s *Scheduler) pruneSessions() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	n := s.service.PruneSessions()
	if n == 0 {
		return
	}
	s.metrics.AddSessionsPruned(n)
	s.logger.Infof(providers.TypeApp, "Pruned %d idle sessions", n)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the persisted population. An unreadable snapshot is moved
// aside and, like a missing or empty one, leads to seeding a synthetic
// population of the configured size.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.config.Persistence.Enabled {
		path := s.config.Persistence.FilePath
		n, err := s.fileManager.LoadFromFile(path)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Unreadable snapshot %s: %s", path, err)
			moved, qerr := s.fileManager.Quarantine(path, s.clock.Now())
			if qerr != nil {
				return fmt.Errorf("quarantine snapshot %s: %w", path, qerr)
			}
			s.logger.Warnf(providers.TypeApp, "Moved unreadable snapshot to %s", moved)
		}
		if n > 0 {
			return nil
		}
	}

	if s.service.PopulationSize() == 0 && s.config.Population.Size > 0 {
		n := s.service.SeedPopulation(s.config.Population.Size)
		s.logger.Infof(providers.TypeApp, "Seeded population with %d synthetic records", n)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.config.Persistence.Enabled {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// Close releases the snapshot compressor. Call it after the final Persist.
func (s *Scheduler) Close() {
	s.fileManager.Close()
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.HangoverServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
}
