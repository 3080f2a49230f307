package hardware

import (
	"math/rand"
	"sync"
)

// SimSource is a simulated turbidity sensor for development and tests. It
// jitters uniformly around a settable level, clamped to the ADC range.
type SimSource struct {
	mu     sync.Mutex
	level  float64
	jitter float64
	rng    *rand.Rand
}

// NewSimSource returns a simulated source centered on level with the given
// peak-to-peak jitter.
func NewSimSource(level, jitter float64, seed int64) *SimSource {
	return &SimSource{
		level:  level,
		jitter: jitter,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SetLevel moves the simulated water condition.
func (s *SimSource) SetLevel(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// Read never fails.
func (s *SimSource) Read() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.level + (s.rng.Float64()-0.5)*s.jitter
	if v < 0 {
		v = 0
	} else if v > maxRaw {
		v = maxRaw
	}
	return uint16(v + 0.5), nil
}

// Close is a no-op.
func (s *SimSource) Close() error { return nil }
