package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/turbidity"
)

func TestPad(t *testing.T) {
	assert.Equal(t, "abc             ", Pad("abc"))
	assert.Equal(t, "0123456789abcdef", Pad("0123456789abcdefOVERFLOW"))
	assert.Len(t, Pad(""), Width)
}

func TestCalibrationLinesAreFixedWidth(t *testing.T) {
	for _, stage := range []calibration.Stage{
		calibration.StageWaitClear,
		calibration.StageWaitCloudy,
	} {
		l1, l2 := CalibrationLines(stage)
		assert.Len(t, l1, Width, "stage %s", stage)
		assert.Len(t, l2, Width, "stage %s", stage)
	}
}

func TestLiveLinesAreFixedWidthAtExtremes(t *testing.T) {
	cases := []struct {
		index int
		state turbidity.State
		raw   uint16
		ema   float64
	}{
		{0, turbidity.StateClear, 0, 0},
		{50, turbidity.StateModerate, 512, 511.5},
		{100, turbidity.StateTurbid, 1023, 1023},
	}
	for _, c := range cases {
		l1, l2 := LiveLines(c.index, c.state, c.raw, c.ema)
		assert.Len(t, l1, Width, "line1 %q", l1)
		assert.Len(t, l2, Width, "line2 %q", l2)
	}
}

func TestLiveLinesContent(t *testing.T) {
	l1, l2 := LiveLines(42, turbidity.StateModerate, 600, 599.6)
	assert.Equal(t, "IDX  42 MODERATE", l1)
	assert.Equal(t, "RAW  600 EMA 600", l2)
}
