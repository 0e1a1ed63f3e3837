package schedule

import "math/rand"

// newRand builds the single generator a Generate call draws from. The seed
// fully determines every random choice, so identical inputs reproduce the
// assignment byte for byte.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// shuffleInts is an in-place Fisher-Yates shuffle using only integer draws.
func shuffleInts(r *rand.Rand, s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
