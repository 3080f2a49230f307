package calibration

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Stage is the position in the two-point capture sequence.
type Stage string

const (
	// StageNone: a valid calibration is loaded, normal monitoring.
	StageNone Stage = "None"
	// StageWaitClear: waiting for the clear-water reference capture.
	StageWaitClear Stage = "WaitClear"
	// StageWaitCloudy: clear reference staged, waiting for the cloudy capture.
	StageWaitCloudy Stage = "WaitCloudy"
	// StageDone: both references captured and committed this session.
	StageDone Stage = "Done"
)

// CaptureFunc takes a fresh median reading for a reference point.
type CaptureFunc func() (uint16, error)

// Flow sequences the button-triggered capture of the two calibration
// references. Each long press performs the active stage's action.
type Flow struct {
	mu           sync.Mutex
	stage        Stage
	pendingClear uint16
	store        *Store
}

// NewFlow returns a Flow for store. If the store has no valid record the
// flow starts in StageWaitClear, forcing a fresh calibration.
func NewFlow(store *Store) *Flow {
	f := &Flow{store: store, stage: StageNone}
	if !store.Loaded() {
		f.stage = StageWaitClear
	}
	return f
}

// Stage returns the current stage.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// PendingClear returns the staged clear reference while in StageWaitCloudy.
func (f *Flow) PendingClear() (uint16, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingClear, f.stage == StageWaitCloudy
}

// Reset invalidates the stored record and returns the flow to StageWaitClear
// from any stage. A staged clear reference is discarded.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.Invalidate(); err != nil {
		return err
	}
	f.pendingClear = 0
	f.stage = StageWaitClear
	logrus.Info("calibration reset, capture both references again")
	return nil
}

// LongPress performs the active stage's action and returns the stage it
// advanced to.
//
//   - StageWaitClear: capture and stage the clear reference.
//   - StageWaitCloudy: capture the cloudy reference and commit both. A
//     capture equal to the staged clear value is rejected by the store and
//     the flow stays in StageWaitCloudy so the point can be retaken.
//   - StageNone/StageDone: invalidate the stored record and restart. Both
//     points must be captured again; the previous clear value is not reused.
func (f *Flow) LongPress(capture CaptureFunc) (Stage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.stage {
	case StageWaitClear:
		v, err := capture()
		if err != nil {
			return f.stage, err
		}
		f.pendingClear = v
		f.stage = StageWaitCloudy
		logrus.WithField("clearRaw", v).Info("clear reference captured")

	case StageWaitCloudy:
		v, err := capture()
		if err != nil {
			return f.stage, err
		}
		if err := f.store.Save(f.pendingClear, v); err != nil {
			return f.stage, err
		}
		f.stage = StageDone
		logrus.WithFields(logrus.Fields{
			"clearRaw":  f.pendingClear,
			"cloudyRaw": v,
		}).Info("calibration saved")

	default: // StageNone, StageDone
		if err := f.store.Invalidate(); err != nil {
			return f.stage, err
		}
		f.pendingClear = 0
		f.stage = StageWaitClear
		logrus.Info("calibration invalidated, capture both references again")
	}

	return f.stage, nil
}
