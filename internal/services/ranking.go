package services

import (
	"math"
	"slices"
	"sort"

	"hangovr/internal/models"
	"hangovr/internal/structures"
)

const (
	MinSeverity  = 1
	MaxSeverity  = 100
	MinAge       = 18
	MaxAge       = 112
	MinLongitude = 0.0
	MaxLongitude = 90.0
	MinLatitude  = 0.0
	MaxLatitude  = 180.0

	// Sentinel is seeded into both working lists. It sorts below every
	// valid severity and is never a lookup target.
	Sentinel = -69

	ageWindow       = 6
	latitudeWindow  = 5.0
	longitudeWindow = 10.0
)

const (
	FieldSeverity  = "severity"
	FieldAge       = "age"
	FieldLongitude = "longitude"
	FieldLatitude  = "latitude"
	FieldSex       = "sex"
)

type Result struct {
	Percentile     float64       `json:"percentile"`
	Rank           int           `json:"rank"`
	AgeSexCohort   int           `json:"age_sex_cohort"`
	LocationCohort int           `json:"location_cohort"`
	Sanitized      []string      `json:"sanitized"`
	User           models.Record `json:"user"`

	// Inputs the result was computed from. Settled is false when the
	// population changed while ranking, so the result must not be cached.
	Revision          uint64 `json:"-"`
	PopulationVersion uint64 `json:"-"`
	Settled           bool   `json:"-"`
}

// RankingEngine places one record within the age/sex and location cohorts
// of a population. It holds no state besides its random source.
type RankingEngine struct {
	random       RandomSource
	randomizeSex bool
}

func NewRankingEngine(random RandomSource, conf *structures.Config) *RankingEngine {
	return &RankingEngine{
		random:       random,
		randomizeSex: conf.Ranking.RandomizeSex,
	}
}

// Sanitize replaces each out-of-domain field with a random in-domain value
// and reports which fields were replaced.
func (e *RankingEngine) Sanitize(r models.Record) (models.Record, []string) {
	replaced := make([]string, 0)
	if r.Severity < MinSeverity || r.Severity > MaxSeverity {
		r.Severity = e.random.IntRange(MinSeverity, MaxSeverity)
		replaced = append(replaced, FieldSeverity)
	}
	if r.Age < MinAge || r.Age > MaxAge {
		r.Age = e.random.IntRange(MinAge, MaxAge)
		replaced = append(replaced, FieldAge)
	}
	if outside(r.Longitude, MinLongitude, MaxLongitude) {
		r.Longitude = e.random.FloatRange(MinLongitude, MaxLongitude)
		replaced = append(replaced, FieldLongitude)
	}
	if outside(r.Latitude, MinLatitude, MaxLatitude) {
		r.Latitude = e.random.FloatRange(MinLatitude, MaxLatitude)
		replaced = append(replaced, FieldLatitude)
	}
	if e.randomizeSex || (r.Sex != models.SexMale && r.Sex != models.SexFemale) {
		r.Sex = e.random.Choice(models.Sexes)
		replaced = append(replaced, FieldSex)
	}
	return r, replaced
}

func outside(v, min, max float64) bool {
	return math.IsNaN(v) || v < min || v > max
}

// Rank computes the user's percentile within the age/sex cohort and rank
// within the location cohort.
func (e *RankingEngine) Rank(user models.Record, peers models.PeerQuerier) Result {
	clean, replaced := e.Sanitize(user)

	ageSex := peers.QueryByAgeSex(clean.Age-ageWindow, clean.Age+ageWindow, clean.Sex)

	lonMin, lonMax := clean.Longitude-longitudeWindow, clean.Longitude+longitudeWindow
	candidates := peers.QueryByLatitude(clean.Latitude-latitudeWindow, clean.Latitude+latitudeWindow)
	local := make([]models.Record, 0, len(candidates))
	for _, rec := range candidates {
		if rec.Longitude > lonMin && rec.Longitude < lonMax {
			local = append(local, rec)
		}
	}

	percentileList := severityList(clean.Severity, ageSex)
	sort.Ints(percentileList)

	rankList := severityList(clean.Severity, local)
	sort.Sort(sort.Reverse(sort.IntSlice(rankList)))

	return Result{
		Percentile:     PercentileOf(percentileList, clean.Severity),
		Rank:           RankOf(rankList, clean.Severity),
		AgeSexCohort:   len(ageSex),
		LocationCohort: len(local),
		Sanitized:      replaced,
		User:           clean,
	}
}

func severityList(user int, cohort []models.Record) []int {
	list := make([]int, 0, len(cohort)+2)
	list = append(list, Sentinel, user)
	for _, rec := range cohort {
		list = append(list, rec.Severity)
	}
	return list
}

// PercentileOf returns index/len*100 for the first entry of an ascending
// list matching target. Absent values are searched upward to MaxSeverity;
// if none is found the result is 100.
func PercentileOf(ascending []int, target int) float64 {
	if len(ascending) == 0 {
		return 0
	}
	idx, ok := lookup(ascending, target)
	if !ok {
		return 100
	}
	return float64(idx) / float64(len(ascending)) * 100
}

// RankOf returns the 1-based position of the first entry of a descending
// list matching target, searching upward like PercentileOf. A target above
// every entry ranks first.
func RankOf(descending []int, target int) int {
	idx, ok := lookup(descending, target)
	if !ok {
		return 1
	}
	return idx + 1
}

func lookup(list []int, target int) (int, bool) {
	for v := max(target, Sentinel+1); v <= MaxSeverity; v++ {
		if i := slices.Index(list, v); i >= 0 {
			return i, true
		}
	}
	return 0, false
}
