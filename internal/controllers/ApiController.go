package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"hangovr/internal/models"
	"hangovr/internal/providers"
	"hangovr/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.HangoverServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	flight  singleflight.Group
}

func NewApiController(logger providers.Logger, service services.HangoverServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

type sessionResponse struct {
	Session models.RecordID `json:"session"`
}

func getSession(r *http.Request) models.RecordID {
	return models.RecordID(r.URL.Query().Get("s"))
}

func writeJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		http.Error(w, "Session Not Found", http.StatusNotFound)
	case errors.Is(err, services.ErrSessionIncomplete):
		http.Error(w, "Session Incomplete", http.StatusConflict)
	case errors.Is(err, models.ErrTooManySessions):
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// decodeStep reads a step payload. Every field must be present; values are
// not range checked here.
func decodeStep[T interface{ Missing() []string }](w http.ResponseWriter, r *http.Request, payload *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	if missing := (*payload).Missing(); len(missing) > 0 {
		http.Error(w, fmt.Sprintf("Bad Request: missing %s", strings.Join(missing, ", ")), http.StatusBadRequest)
		return false
	}
	return true
}

// serveFromCacheOrCompute answers from the cache when possible. Concurrent
// misses on the same key share one computation. compute returns the key its
// payload belongs under, which may be newer than lookupKey, or "" when the
// payload must not be cached.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, lookupKey string, compute func() (string, any, error)) {
	if data, ok := ac.cache.Get(lookupKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	v, err, _ := ac.flight.Do(lookupKey, func() (any, error) {
		storeKey, result, err := compute()
		if err != nil {
			return nil, err
		}
		gson, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		if storeKey != "" {
			ac.cache.Set(storeKey, gson)
		}
		return gson, nil
	})
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v.([]byte))
}

func (ac *ApiController) StartSession(w http.ResponseWriter, r *http.Request) {
	id, err := ac.service.StartSession()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	gson, err := json.Marshal(sessionResponse{Session: id})
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, gson)
}

func (ac *ApiController) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.CloseSession(getSession(r)); err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SubmitSeverity(w http.ResponseWriter, r *http.Request) {
	var payload models.SeverityInput
	if !decodeStep(w, r, &payload) {
		return
	}
	if err := ac.service.SubmitSeverity(getSession(r), *payload.Severity); err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var payload models.ProfileInput
	if !decodeStep(w, r, &payload) {
		return
	}
	err := ac.service.SubmitProfile(getSession(r), services.Profile{
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
		Age:       *payload.Age,
		Sex:       *payload.Sex,
	})
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SubmitHabits(w http.ResponseWriter, r *http.Request) {
	var payload models.HabitsInput
	if !decodeStep(w, r, &payload) {
		return
	}
	err := ac.service.SubmitHabits(getSession(r), services.Habits{
		Duration:   *payload.Duration,
		DrinkCount: *payload.Drinks,
		WaterCount: *payload.Waters,
	})
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func resultKey(id models.RecordID, revision, populationVersion uint64) string {
	return fmt.Sprintf("result:%s:%d:%d", id, revision, populationVersion)
}

// GetResult ranks the session's record. Results are cached per session
// revision and population version, so a repeated request returns the same
// numbers even when out-of-range input was resampled.
func (ac *ApiController) GetResult(w http.ResponseWriter, r *http.Request) {
	id := getSession(r)
	sess, ok := ac.service.GetSession(id)
	if !ok {
		ac.writeError(w, r, models.ErrSessionNotFound)
		return
	}
	key := resultKey(id, sess.Revision, ac.service.PopulationVersion())
	ac.serveFromCacheOrCompute(w, r, key, func() (string, any, error) {
		result, err := ac.service.Result(id)
		if err != nil {
			return "", nil, err
		}
		ac.metrics.IncRankingsTotal()
		for _, field := range result.Sanitized {
			ac.metrics.IncSanitizedFields(field)
		}
		if !result.Settled {
			return "", result, nil
		}
		return resultKey(id, result.Revision, result.PopulationVersion), result, nil
	})
}
