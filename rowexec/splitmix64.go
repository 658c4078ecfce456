package rowexec

// splitMix64 is a tiny, seedable, splittable PRNG used for deterministic
// Bernoulli sampling in EntitySampleOperator: given the same seed, it
// produces the same sequence of draws every run, which is what makes two
// equal-seed EntitySample operators emit identical record sequences.
type splitMix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitMix64 {
	return &splitMix64{state: seed}
}

func (s *splitMix64) nextUint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// nextFloat returns a value uniformly distributed in [0, 1).
func (s *splitMix64) nextFloat() float64 {
	return float64(s.nextUint64()>>11) / (1 << 53)
}

// split derives an independent child generator, allowing partitioned
// sampling sources to diverge deterministically from a shared parent seed
// without correlating their draws.
func (s *splitMix64) split() *splitMix64 {
	return &splitMix64{state: s.nextUint64()}
}
