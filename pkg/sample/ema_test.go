package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMAFirstSamplePrimes(t *testing.T) {
	e := NewEMA(0.25)
	assert.Equal(t, 512.0, e.Update(512))
	assert.Equal(t, 512.0, e.Value())
}

func TestEMAStepIsExact(t *testing.T) {
	e := NewEMA(0.25)
	e.Update(400)
	got := e.Update(800)
	assert.Equal(t, 0.25*800+0.75*400, got)
}

func TestEMAConvergesOnConstantInput(t *testing.T) {
	e := NewEMA(0.1)
	e.Update(0)
	for i := 0; i < 500; i++ {
		e.Update(700)
	}
	assert.InDelta(t, 700, e.Value(), 1e-6)
}

func TestEMARounded(t *testing.T) {
	e := NewEMA(0.5)
	e.Update(1)
	e.Update(2) // 1.5 rounds up
	assert.Equal(t, 2, e.Rounded())
}

func TestEMAResetReprimes(t *testing.T) {
	e := NewEMA(0.25)
	e.Update(1000)
	e.Reset()
	assert.Equal(t, 42.0, e.Update(42))
}

func TestEMAClampsBadAlpha(t *testing.T) {
	e := NewEMA(1.5)
	assert.Equal(t, 0.25, e.Alpha())

	e.SetAlpha(0.5)
	assert.Equal(t, 0.5, e.Alpha())

	e.SetAlpha(-1)
	assert.Equal(t, 0.25, e.Alpha())
}
