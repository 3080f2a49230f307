package sample

import (
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptedReader(t *testing.T, values []uint16) Reader {
	i := 0
	return func() (uint16, error) {
		require.Less(t, i, len(values), "reader called past scripted values")
		v := values[i]
		i++
		return v, nil
	}
}

func TestSamplerMedianMatchesReferenceSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		count := 2*rng.Intn(8) + 1 // odd, 1..15
		values := make([]uint16, count)
		for i := range values {
			if rng.Intn(3) == 0 {
				// duplicate-heavy sets
				values[i] = uint16(rng.Intn(4))
			} else {
				values[i] = uint16(rng.Intn(1024))
			}
		}

		s := NewSampler(scriptedReader(t, values), count, 0)
		s.sleep = func(time.Duration) {}

		got, err := s.Median()
		require.NoError(t, err)

		ref := append([]uint16(nil), values...)
		sort.Slice(ref, func(i, j int) bool { return ref[i] < ref[j] })
		assert.Equal(t, ref[count/2], got, "values=%v", values)
	}
}

func TestSamplerNormalizesEvenCount(t *testing.T) {
	s := NewSampler(nil, 4, 0)
	assert.Equal(t, 5, s.Count())

	s = NewSampler(nil, 0, 0)
	assert.Equal(t, 1, s.Count())
}

func TestSamplerSleepsBetweenReadings(t *testing.T) {
	values := []uint16{3, 1, 2}
	s := NewSampler(scriptedReader(t, values), 3, 5*time.Millisecond)

	slept := 0
	s.sleep = func(d time.Duration) {
		assert.Equal(t, 5*time.Millisecond, d)
		slept++
	}

	got, err := s.Median()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), got)
	// no delay after the last reading
	assert.Equal(t, 2, slept)
}

func TestSamplerSerializesConcurrentBursts(t *testing.T) {
	// The reader mimics a stateful stream like a serial scanner: no
	// locking of its own, strictly sequential values.
	var n uint16
	s := NewSampler(func() (uint16, error) {
		n++
		return n, nil
	}, 5, 0)
	s.sleep = func(time.Duration) {}

	const workers = 2
	const burstsPerWorker = 20
	medians := make(chan uint16, workers*burstsPerWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < burstsPerWorker; i++ {
				m, err := s.Median()
				assert.NoError(t, err)
				medians <- m
			}
		}()
	}
	wg.Wait()
	close(medians)

	// A serialized burst reads five consecutive values, so its median is
	// always the third: every median lands on the same residue mod 5 and no
	// reading is shared between bursts.
	seen := make(map[uint16]bool)
	for m := range medians {
		assert.Equal(t, uint16(3), m%5)
		assert.False(t, seen[m], "bursts interleaved their readings")
		seen[m] = true
	}
	assert.Len(t, seen, workers*burstsPerWorker)
}

func TestSamplerPropagatesReadError(t *testing.T) {
	calls := 0
	s := NewSampler(func() (uint16, error) {
		calls++
		if calls == 2 {
			return 0, assert.AnError
		}
		return 100, nil
	}, 3, 0)
	s.sleep = func(time.Duration) {}

	_, err := s.Median()
	require.Error(t, err)
}
