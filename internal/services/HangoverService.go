package services

import (
	"errors"
	"strings"
	"time"

	"hangovr/internal/models"
	"hangovr/internal/providers"
	"hangovr/internal/structures"
)

var ErrSessionIncomplete = errors.New("session has not completed all intake steps")

type Profile struct {
	Latitude  float64
	Longitude float64
	Age       int
	Sex       string
}

type Habits struct {
	Duration   int
	DrinkCount int
	WaterCount int
}

type HangoverServiceInterface interface {
	StartSession() (models.RecordID, error)
	SubmitSeverity(id models.RecordID, severity int) error
	SubmitProfile(id models.RecordID, profile Profile) error
	SubmitHabits(id models.RecordID, habits Habits) error
	GetSession(id models.RecordID) (models.Session, bool)
	Result(id models.RecordID) (Result, error)
	CloseSession(id models.RecordID) error
	PruneSessions() int
	SeedPopulation(n int) int
	PopulationSize() int
	PopulationVersion() uint64
	SessionCount() int
	GetSnapshot() *models.PopulationSnapshot
	PutSnapshot(snap *models.PopulationSnapshot)
}

// HangoverService drives the three intake steps of a session and ranks the
// finished record against the peer population.
type HangoverService struct {
	population *models.RecordStore
	sessions   *models.SessionStore
	engine     *RankingEngine
	generator  *PopulationGenerator
	logger     providers.Logger
	sessionTTL time.Duration
	admit      bool
}

func NewHangoverService(conf *structures.Config, population *models.RecordStore, sessions *models.SessionStore, engine *RankingEngine, generator *PopulationGenerator, logger providers.Logger) *HangoverService {
	return &HangoverService{
		population: population,
		sessions:   sessions,
		engine:     engine,
		generator:  generator,
		logger:     logger,
		sessionTTL: conf.Session.TTL,
		admit:      conf.Population.AdmitCompleted,
	}
}

func (hs *HangoverService) StartSession() (models.RecordID, error) {
	id, err := hs.sessions.Create()
	if err != nil {
		return "", err
	}
	hs.logger.Debugf(providers.TypePost, "Session %s started", id)
	return id, nil
}

func (hs *HangoverService) SubmitSeverity(id models.RecordID, severity int) error {
	_, err := hs.sessions.UpdateCurrentUser(id, models.RecordPatch{Severity: &severity}, models.StepSeverity)
	return err
}

func (hs *HangoverService) SubmitProfile(id models.RecordID, profile Profile) error {
	sex := strings.ToLower(profile.Sex)
	_, err := hs.sessions.UpdateCurrentUser(id, models.RecordPatch{
		Latitude:  &profile.Latitude,
		Longitude: &profile.Longitude,
		Age:       &profile.Age,
		Sex:       &sex,
	}, models.StepProfile)
	return err
}

func (hs *HangoverService) SubmitHabits(id models.RecordID, habits Habits) error {
	_, err := hs.sessions.UpdateCurrentUser(id, models.RecordPatch{
		Duration:   &habits.Duration,
		DrinkCount: &habits.DrinkCount,
		WaterCount: &habits.WaterCount,
	}, models.StepHabits)
	return err
}

func (hs *HangoverService) GetSession(id models.RecordID) (models.Session, bool) {
	return hs.sessions.Get(id)
}

func (hs *HangoverService) Result(id models.RecordID) (Result, error) {
	sess, ok := hs.sessions.Get(id)
	if !ok {
		return Result{}, models.ErrSessionNotFound
	}
	if !sess.Complete() {
		return Result{}, ErrSessionIncomplete
	}
	version := hs.population.Version()
	result := hs.engine.Rank(sess.Record, hs.population)
	result.Revision = sess.Revision
	result.PopulationVersion = version
	result.Settled = hs.population.Version() == version
	if len(result.Sanitized) > 0 {
		hs.logger.Debugf(providers.TypeGet, "Session %s: replaced out-of-range fields %v", id, result.Sanitized)
	}
	return result, nil
}

// CloseSession ends a session. With admission enabled a completed record
// joins the population, sanitized so peers stay within their domains.
func (hs *HangoverService) CloseSession(id models.RecordID) error {
	sess, ok := hs.sessions.Delete(id)
	if !ok {
		return models.ErrSessionNotFound
	}
	hs.admitRecord(sess)
	return nil
}

func (hs *HangoverService) PruneSessions() int {
	pruned := hs.sessions.PruneIdle(hs.sessionTTL)
	for _, sess := range pruned {
		hs.admitRecord(sess)
	}
	return len(pruned)
}

func (hs *HangoverService) admitRecord(sess models.Session) {
	if !hs.admit || !sess.Complete() {
		return
	}
	rec, _ := hs.engine.Sanitize(sess.Record)
	peerID := hs.population.Insert(rec)
	hs.logger.Debugf(providers.TypeApp, "Session %s admitted to population as %s", sess.ID, peerID)
}

func (hs *HangoverService) SeedPopulation(n int) int {
	return hs.generator.Seed(hs.population, n)
}

func (hs *HangoverService) PopulationSize() int {
	return hs.population.Len()
}

func (hs *HangoverService) PopulationVersion() uint64 {
	return hs.population.Version()
}

func (hs *HangoverService) SessionCount() int {
	return hs.sessions.Len()
}

func (hs *HangoverService) GetSnapshot() *models.PopulationSnapshot {
	return hs.population.Snapshot()
}

func (hs *HangoverService) PutSnapshot(snap *models.PopulationSnapshot) {
	if snap == nil {
		return
	}
	hs.population.Restore(snap)
}
