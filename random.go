package sectorfx

import "golang.org/x/exp/rand"

// Random is the shared, seedable random stream. Every special that documents
// random selection draws from here so a level replays identically from the
// same seed.
type Random struct {
	src *rand.PCGSource
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &Random{src: src, rng: rand.New(src)}
}

// Seed restarts the stream.
func (r *Random) Seed(seed uint64) {
	r.src.Seed(seed)
}

// Key returns a value in [0, n). n <= 0 returns 0.
func (r *Random) Key(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// Range returns a value in [lo, hi]. The bounds may be given in either order.
func (r *Random) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Key(hi-lo+1)
}

// Chance reports true with probability num/den.
func (r *Random) Chance(num, den int) bool {
	return r.Key(den) < num
}

func (r *Random) MarshalBinary() ([]byte, error) {
	return r.src.MarshalBinary()
}

func (r *Random) UnmarshalBinary(data []byte) error {
	return r.src.UnmarshalBinary(data)
}
