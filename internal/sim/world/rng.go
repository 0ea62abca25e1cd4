package world

import "math/rand"

// countingSource wraps the seeded source and counts draws so a snapshot can
// restore the generator by replaying the same number of steps.
type countingSource struct {
	src   rand.Source64
	seed  int64
	draws uint64
}

func newCountingSource(seed int64) *countingSource {
	return &countingSource{src: rand.NewSource(seed).(rand.Source64), seed: seed}
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.seed = seed
	c.draws = 0
}

// restore reseeds and discards n draws. Both Int63 and Uint64 advance the
// underlying generator by exactly one step.
func (c *countingSource) restore(seed int64, n uint64) {
	c.Seed(seed)
	for i := uint64(0); i < n; i++ {
		c.src.Uint64()
	}
	c.draws = n
}
