// Package turbidity maps smoothed raw sensor readings onto the 0-100
// turbidity index and classifies the water state.
package turbidity

import (
	"math"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
)

// FullScale is the raw range of the 10-bit ADC frontend.
const FullScale = 1023

// degenerateFallback is returned if a degenerate calibration ever reaches the
// mapper. The store rejects such records, so this only guards against a logic
// error elsewhere.
const degenerateFallback = 50

// Index rescales a raw (typically EMA-smoothed) reading into [0,100].
//
// With a calibration record the mapping is a two-point linear rescale between
// the clear and cloudy references. The direction is detected at runtime:
// depending on the sensor wiring the raw value may rise or fall with
// turbidity, so no fixed direction is assumed. Readings outside the reference
// span clamp to 0 or 100.
//
// Without calibration the full ADC range is mapped inverted to [100,0]. That
// mapping is arbitrary and exists for debug visibility only.
func Index(raw float64, rec *calibration.Record) int {
	if rec == nil {
		t := (FullScale - raw) / FullScale
		return scale(t)
	}

	clear := float64(rec.ClearRaw)
	cloudy := float64(rec.CloudyRaw)
	if clear == cloudy {
		return degenerateFallback
	}

	var t float64
	if cloudy > clear {
		t = (raw - clear) / (cloudy - clear)
	} else {
		t = (clear - raw) / (clear - cloudy)
	}
	return scale(t)
}

// scale clamps t to [0,1] and scales to [0,100], rounding half up.
func scale(t float64) int {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return int(math.Floor(t*100 + 0.5))
}
