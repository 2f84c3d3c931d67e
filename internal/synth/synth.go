// Package synth generates deterministic demo data from a seed.
package synth

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generator produces recommendations and cost series. Two generators built
// from the same seed emit identical output for the same call sequence.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded with seed.
func New(seed int64) *Generator {
	s := uint64(seed)
	return &Generator{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Read fills p from the seeded stream. It never fails.
func (g *Generator) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], g.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// UUID returns a version 4 UUID drawn from the seeded stream.
func (g *Generator) UUID() string {
	id, err := uuid.NewRandomFromReader(g)
	if err != nil {
		// Read never fails, so this is unreachable.
		panic(err)
	}
	return id.String()
}

// Float returns a value in [lo, hi).
func (g *Generator) Float(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rng.IntN(n)
}

// Shuffle permutes n elements via swap.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	g.rng.Shuffle(n, swap)
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
