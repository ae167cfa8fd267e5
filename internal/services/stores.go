package services

import (
	"github.com/jonboulle/clockwork"

	"hangovr/internal/models"
	"hangovr/internal/structures"
)

func NewPopulationStore() *models.RecordStore {
	return models.NewRecordStore()
}

func NewSessionStore(conf *structures.Config) *models.SessionStore {
	return models.NewSessionStore(conf.Session.MaxSessions, clockwork.NewRealClock())
}
