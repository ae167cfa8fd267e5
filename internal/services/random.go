package services

import (
	"math/rand/v2"
	"sync"
	"time"

	"hangovr/internal/structures"
)

// RandomSource supplies the uniform draws used for seeding and sanitizing.
type RandomSource interface {
	// IntRange returns an integer in [min, max].
	IntRange(min, max int) int
	// FloatRange returns a float in [min, max).
	FloatRange(min, max float64) float64
	Choice(options []string) string
}

type PCGRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a PCG-backed source. A zero seed draws one from the wall clock.
func NewRandomSource(seed uint64) *PCGRandom {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &PCGRandom{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func NewConfiguredRandomSource(conf *structures.Config) RandomSource {
	return NewRandomSource(conf.Population.Seed)
}

func (r *PCGRandom) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.IntN(max-min+1)
}

func (r *PCGRandom) FloatRange(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Float64()*(max-min)
}

func (r *PCGRandom) Choice(options []string) string {
	if len(options) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return options[r.rng.IntN(len(options))]
}
