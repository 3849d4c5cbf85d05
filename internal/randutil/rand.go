package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so a single number reproduces
// every shuffle of a run.
func New(seed int64) *rand.Rand {
	return rand.New(newPCG(seed))
}

// NewLocked is like New but the returned generator may be shared between
// goroutines. The engine serves many sessions concurrently from one generator.
func NewLocked(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: newPCG(seed)})
}

// Seed returns seed when it is non-zero, otherwise a seed derived from the
// current time. The result is what callers should log to reproduce a run.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func newPCG(seed int64) *rand.PCG {
	u := uint64(seed)
	return rand.NewPCG(mix(u), mix(u+goldenRatio64))
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
