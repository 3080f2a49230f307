package hardware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLongPressFiresOncePerHold(t *testing.T) {
	d := NewLongPressDetector(1500 * time.Millisecond)
	t0 := time.Now()

	d.Press(t0)
	assert.False(t, d.Check(t0.Add(time.Second)), "too early")
	assert.True(t, d.Check(t0.Add(2*time.Second)))
	assert.False(t, d.Check(t0.Add(3*time.Second)), "must not repeat while held")
}

func TestLongPressShortTapNeverFires(t *testing.T) {
	d := NewLongPressDetector(1500 * time.Millisecond)
	t0 := time.Now()

	d.Press(t0)
	d.Release(t0.Add(200 * time.Millisecond))
	assert.False(t, d.Check(t0.Add(5*time.Second)))
}

func TestLongPressReleaseRearms(t *testing.T) {
	d := NewLongPressDetector(time.Second)
	t0 := time.Now()

	d.Press(t0)
	assert.True(t, d.Check(t0.Add(time.Second)))
	d.Release(t0.Add(2 * time.Second))

	d.Press(t0.Add(3 * time.Second))
	assert.True(t, d.Check(t0.Add(5*time.Second)))
}

func TestLongPressBounceDoesNotRestartTimer(t *testing.T) {
	d := NewLongPressDetector(time.Second)
	t0 := time.Now()

	d.Press(t0)
	d.Press(t0.Add(900 * time.Millisecond)) // bounce, ignored
	assert.True(t, d.Check(t0.Add(time.Second)))
}
