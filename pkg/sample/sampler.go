package sample

import (
	"sort"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Reader yields one raw ADC reading per call.
type Reader func() (uint16, error)

// Sampler takes a burst of raw readings with a fixed inter-sample delay and
// reports the median. The median rejects single-sample spikes (air bubbles,
// electrical transients) that a mean would let through.
//
// Bursts are serialized: the sampling loop and a calibration capture share
// one underlying reader, which is typically stateful (a serial stream), so
// concurrent bursts must not interleave their readings.
type Sampler struct {
	mu    sync.Mutex
	read  Reader
	count int
	delay time.Duration
	sleep func(time.Duration)
}

// NewSampler returns a Sampler taking count readings per burst. count must be
// odd so the median is unambiguous; an even count is bumped to the next odd
// value.
func NewSampler(read Reader, count int, delay time.Duration) *Sampler {
	if count < 1 {
		count = 1
	}
	if count%2 == 0 {
		count++
	}
	return &Sampler{
		read:  read,
		count: count,
		delay: delay,
		sleep: time.Sleep,
	}
}

// Count returns the per-burst sample count after odd-normalization.
func (s *Sampler) Count() int {
	return s.count
}

// Median acquires one burst and returns the middle element of the sorted
// readings. The delay between readings is a deliberate blocking wait, not a
// yield point. A concurrent call blocks until the running burst completes.
func (s *Sampler) Median() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]uint16, s.count)
	for i := range buf {
		v, err := s.read()
		if err != nil {
			return 0, pkgerrors.Wrap(err, "failed to read sensor")
		}
		buf[i] = v
		if i < len(buf)-1 {
			s.sleep(s.delay)
		}
	}

	sort.Slice(buf, func(i, j int) bool { return buf[i] < buf[j] })
	return buf[s.count/2], nil
}
