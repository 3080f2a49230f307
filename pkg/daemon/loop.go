package daemon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/config"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/display"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/hardware"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/recorder"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/sample"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/telemetry"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/turbidity"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/types"
)

// pressCheckInterval is how often the long-press detector is polled. It is
// much shorter than the sampling loop so a completed hold fires promptly.
const pressCheckInterval = 50 * time.Millisecond

type indicatorMode int

const (
	modeOff indicatorMode = iota
	modeBlink
	modeOn
)

// Daemon owns the sampling pipeline and everything attached to it. One
// instance runs per process; handlers and the hardware button act on the same
// instance the loop reads from.
type Daemon struct {
	conf      config.Config
	source    hardware.AnalogSource
	sampler   *sample.Sampler
	ema       *sample.EMA
	store     *calibration.Store
	flow      *calibration.Flow
	indicator hardware.Indicator
	disp      display.Display
	csv       *recorder.CSVLog
	pub       *telemetry.Publisher
	detector  *hardware.LongPressDetector

	mu       sync.Mutex
	start    time.Time
	last     types.Status
	haveLast bool
	mode     indicatorMode

	lastPrintTime time.Time
	lastPrinted   types.Status
}

// NewDaemon wires a Daemon from its parts. indicator, csv and pub may be a
// NullIndicator, a stdout log and nil respectively; the loop does not care.
func NewDaemon(
	conf config.Config,
	source hardware.AnalogSource,
	store *calibration.Store,
	flow *calibration.Flow,
	indicator hardware.Indicator,
	disp display.Display,
	csv *recorder.CSVLog,
	pub *telemetry.Publisher,
) *Daemon {
	return &Daemon{
		conf:      conf,
		source:    source,
		sampler:   sample.NewSampler(source.Read, conf.SampleCount(), conf.SampleDelay()),
		ema:       sample.NewEMA(conf.SmoothingAlpha()),
		store:     store,
		flow:      flow,
		indicator: indicator,
		disp:      disp,
		csv:       csv,
		pub:       pub,
		detector:  hardware.NewLongPressDetector(conf.LongPressDuration()),
		start:     time.Now(),
	}
}

// Detector exposes the long-press detector so the hardware button can feed
// press/release edges into it.
func (d *Daemon) Detector() *hardware.LongPressDetector {
	return d.detector
}

// Status returns the most recent cycle, if one has completed.
func (d *Daemon) Status() (types.Status, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.haveLast
}

// Capture performs one calibration step, exactly as a long press on the
// hardware button would. It is also called by the HTTP API.
func (d *Daemon) Capture() (calibration.Stage, error) {
	return d.flow.LongPress(d.sampler.Median)
}

// ResetCalibration invalidates the stored record and restarts the capture
// flow regardless of the current stage.
func (d *Daemon) ResetCalibration() error {
	return d.flow.Reset()
}

// SetAlpha updates the smoothing factor at runtime and persists it. The EMA
// accumulator is kept so the reading does not jump.
func (d *Daemon) SetAlpha(alpha float64) error {
	d.conf.SetSmoothingAlpha(alpha)
	d.ema.SetAlpha(alpha)
	return d.conf.Save()
}

// infiniteLoop runs forever and samples the sensor, which is called by the
// daemon.
func (d *Daemon) infiniteLoop() {
	for {
		d.runCycle(time.Now())
		time.Sleep(d.conf.LoopInterval())
	}
}

// watchButton polls the long-press detector and runs the calibration action
// when a hold completes.
func (d *Daemon) watchButton(stop <-chan struct{}) {
	ticker := time.NewTicker(pressCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !d.detector.Check(now) {
				continue
			}
			stage, err := d.Capture()
			if err != nil {
				logrus.WithError(err).Error("button capture failed")
				continue
			}
			logrus.WithField("stage", stage).Info("long press handled")
		}
	}
}

// blinkLoop toggles the indicator while the daemon is in blink mode. Blink
// timing is independent of the sampling loop so a slow loop interval does not
// slow the blink down.
func (d *Daemon) blinkLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(d.conf.BlinkInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			blink := d.mode == modeBlink
			d.mu.Unlock()
			if !blink {
				continue
			}
			if err := d.indicator.Toggle(); err != nil {
				logrus.WithError(err).Warn("indicator toggle failed")
			}
		}
	}
}

func (d *Daemon) setIndicator(state turbidity.State) {
	var mode indicatorMode
	switch state {
	case turbidity.StateClear:
		mode = modeOff
	case turbidity.StateModerate:
		mode = modeBlink
	default:
		mode = modeOn
	}

	d.mu.Lock()
	changed := d.mode != mode
	d.mode = mode
	d.mu.Unlock()

	if !changed {
		return
	}

	var err error
	switch mode {
	case modeOff:
		err = d.indicator.Off()
	case modeOn:
		err = d.indicator.On()
	default:
		// blinkLoop takes over from whatever state the pin is in
	}
	if err != nil {
		logrus.WithError(err).Warn("indicator update failed")
	}
}

// runCycle executes one sampling cycle: burst-sample, smooth, map, classify,
// then fan the result out to indicator, display, CSV log and telemetry. A
// failed sensor read skips the cycle; every downstream output keeps its
// previous value.
func (d *Daemon) runCycle(now time.Time) {
	med, err := d.sampler.Median()
	if err != nil {
		logrus.WithError(err).Error("sensor read failed, skipping cycle")
		return
	}
	ema := d.ema.Update(float64(med))

	rec, loaded := d.store.Record()
	var recPtr *calibration.Record
	if loaded {
		recPtr = &rec
	}
	index := turbidity.Index(ema, recPtr)
	state := turbidity.Classify(index)

	d.setIndicator(state)

	stage := d.flow.Stage()
	var line1, line2 string
	switch stage {
	case calibration.StageWaitClear, calibration.StageWaitCloudy:
		line1, line2 = display.CalibrationLines(stage)
	default:
		line1, line2 = display.LiveLines(index, state, med, ema)
	}
	if err := d.disp.Show(line1, line2); err != nil {
		logrus.WithError(err).Warn("display update failed")
	}

	st := types.Status{
		ElapsedMS:  uint64(now.Sub(d.start).Milliseconds()),
		RawMedian:  med,
		EMARaw:     ema,
		Index:      index,
		State:      string(state),
		Calibrated: loaded,
		Stage:      string(stage),
	}

	d.mu.Lock()
	d.last = st
	d.haveLast = true
	d.mu.Unlock()

	if err := d.csv.Write(recorder.Row{
		ElapsedMS: st.ElapsedMS,
		RawMedian: med,
		EMARaw:    ema,
		Index:     index,
		Status:    string(state),
		CalLoaded: loaded,
		ClearRaw:  rec.ClearRaw,
		CloudyRaw: rec.CloudyRaw,
	}); err != nil {
		logrus.WithError(err).Warn("csv write failed")
	}

	if d.pub != nil {
		if err := d.pub.Publish(st); err != nil {
			logrus.WithError(err).Warn("telemetry publish failed")
		}
	}

	d.printStatus(st)
}

// printStatus logs the cycle at Debug, demoted to Trace when nothing but the
// elapsed time changed since the last print within one loop interval.
func (d *Daemon) printStatus(st types.Status) {
	fields := logrus.Fields{
		"rawMedian":  st.RawMedian,
		"emaRaw":     st.EMARaw,
		"index":      st.Index,
		"state":      st.State,
		"calibrated": st.Calibrated,
		"stage":      st.Stage,
	}

	d.mu.Lock()
	prev := d.lastPrinted
	lastPrint := d.lastPrintTime
	d.lastPrintTime = time.Now()
	d.lastPrinted = st
	d.mu.Unlock()

	// Elapsed time and the smoothed value always drift; ignore them when
	// deciding whether anything interesting changed.
	cur := st
	cur.ElapsedMS, cur.EMARaw = 0, 0
	prev.ElapsedMS, prev.EMARaw = 0, 0

	if time.Since(lastPrint) < d.conf.LoopInterval()+time.Second && cur == prev {
		logrus.WithFields(fields).Trace("sampling loop status")
		return
	}

	logrus.WithFields(fields).Debug("sampling loop status")
}
