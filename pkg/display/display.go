// Package display renders the monitor's two 16-character status lines.
package display

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/turbidity"
)

// Width is the fixed line width of the target panel (a 16x2 character LCD).
const Width = 16

// Display shows two fixed-width text lines. Implementations must tolerate
// being called every cycle with unchanged content.
type Display interface {
	Show(line1, line2 string) error
}

// LogDisplay logs line changes instead of driving a panel. It is the default
// sink when no physical display is attached.
type LogDisplay struct {
	mu    sync.Mutex
	line1 string
	line2 string
}

func (d *LogDisplay) Show(line1, line2 string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if line1 == d.line1 && line2 == d.line2 {
		return nil
	}
	d.line1, d.line2 = line1, line2
	logrus.WithFields(logrus.Fields{
		"line1": line1,
		"line2": line2,
	}).Debug("display updated")
	return nil
}

// Pad clips or right-pads s to exactly Width characters.
func Pad(s string) string {
	if len(s) > Width {
		return s[:Width]
	}
	return fmt.Sprintf("%-*s", Width, s)
}

// CalibrationLines returns the capture prompt for a WAIT_* stage.
func CalibrationLines(stage calibration.Stage) (string, string) {
	switch stage {
	case calibration.StageWaitClear:
		return Pad("CAL: CLEAR REF"), Pad("HOLD BTN=CAPTURE")
	default: // StageWaitCloudy
		return Pad("CAL: CLOUDY REF"), Pad("HOLD BTN=CAPTURE")
	}
}

// LiveLines returns the monitoring view: index and state on the first line,
// raw median and smoothed value on the second.
func LiveLines(index int, state turbidity.State, raw uint16, ema float64) (string, string) {
	line1 := fmt.Sprintf("IDX%4d %-8s", index, state)
	line2 := fmt.Sprintf("RAW%5d EMA%4.0f", raw, ema)
	return Pad(line1), Pad(line2)
}
