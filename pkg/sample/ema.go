package sample

import (
	"math"
	"sync"
)

// EMA is an exponential moving average over successive median readings. It is
// uninitialized until the first sample arrives; the first sample primes the
// accumulator directly. Smaller alpha means more smoothing and slower
// response.
type EMA struct {
	mu     sync.Mutex
	alpha  float64
	value  float64
	primed bool
}

// NewEMA returns an EMA with the given smoothing factor. alpha outside (0,1)
// is clamped to a sane default.
func NewEMA(alpha float64) *EMA {
	e := &EMA{}
	e.setAlphaLocked(alpha)
	return e
}

func (e *EMA) setAlphaLocked(alpha float64) {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.25
	}
	e.alpha = alpha
}

// SetAlpha changes the smoothing factor without discarding the accumulator.
func (e *EMA) SetAlpha(alpha float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setAlphaLocked(alpha)
}

// Alpha returns the current smoothing factor.
func (e *EMA) Alpha() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alpha
}

// Update folds one sample into the average and returns the new value.
func (e *EMA) Update(sample float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.primed {
		e.value = sample
		e.primed = true
		return e.value
	}
	e.value = e.alpha*sample + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current average, valid only after the first Update.
func (e *EMA) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Rounded returns the current average rounded to the nearest integer.
func (e *EMA) Rounded() int {
	return int(math.Round(e.Value()))
}

// Reset discards the accumulator; the next Update primes it again.
func (e *EMA) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = 0
	e.primed = false
}
