package services

import "hangovr/internal/models"

const (
	minDuration = 2
	maxDuration = 6
	minDrinks   = 2
	maxDrinks   = 10
	minWaters   = 2
	maxWaters   = 10
)

type RecordInserter interface {
	Insert(rec models.Record) models.RecordID
}

// PopulationGenerator draws synthetic peers, each field independently and
// uniformly from its domain.
type PopulationGenerator struct {
	random RandomSource
}

func NewPopulationGenerator(random RandomSource) *PopulationGenerator {
	return &PopulationGenerator{random: random}
}

func (g *PopulationGenerator) Generate(n int) []models.Record {
	if n <= 0 {
		return []models.Record{}
	}
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.Record{
			Severity:   g.random.IntRange(MinSeverity, MaxSeverity),
			Longitude:  g.random.FloatRange(MinLongitude, MaxLongitude),
			Latitude:   g.random.FloatRange(MinLatitude, MaxLatitude),
			Age:        g.random.IntRange(MinAge, MaxAge),
			Sex:        g.random.Choice(models.Sexes),
			Duration:   g.random.IntRange(minDuration, maxDuration),
			DrinkCount: g.random.IntRange(minDrinks, maxDrinks),
			WaterCount: g.random.IntRange(minWaters, maxWaters),
		})
	}
	return records
}

func (g *PopulationGenerator) Seed(store RecordInserter, n int) int {
	records := g.Generate(n)
	for _, rec := range records {
		store.Insert(rec)
	}
	return len(records)
}
