package routefinder

import "math/rand"

// rng is the single seeded source of non-determinism for a Find run (spec
// §5, §9: all randomness flows from one seeded PRNG injected at
// construction; the global rand source is read only by defaultFindConfig
// to pick a seed when none is given). Every caller first sorts by a
// stable key (ID) and only then shuffles through rng, so two runs with the
// same seed and graph always pick the same order.
//
// Standard-library math/rand is used directly rather than a third-party
// PRNG package: the corpus examples reach for external randomness helpers
// only for cryptographic or distributed-ID use cases (uuid, snowflake),
// never for deterministic seeded shuffling, and math/rand.Rand already
// gives exactly the reproducible-from-seed behavior spec §5 requires.
type rng struct {
	r *rand.Rand
}

// newRNG seeds a fresh generator.
func newRNG(seed int64) *rng {
	return &rng{r: rand.New(rand.NewSource(seed))}
}

// shuffle randomizes n elements in place via swap, mirroring rand.Shuffle's
// signature so callers can pass it directly to sort-then-shuffle a slice.
func (g *rng) shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// intn returns a non-negative pseudo-random number in [0,n).
func (g *rng) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}
