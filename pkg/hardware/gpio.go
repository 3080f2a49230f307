package hardware

import (
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gobot.io/x/gobot/sysfs"
)

// Indicator is the three-mode status output: off when clear, toggled
// periodically when moderate, steady on when turbid.
type Indicator interface {
	On() error
	Off() error
	Toggle() error
}

// NullIndicator is used when no LED pin is configured or the GPIO is
// unavailable; the output path is simply skipped.
type NullIndicator struct{}

func (NullIndicator) On() error     { return nil }
func (NullIndicator) Off() error    { return nil }
func (NullIndicator) Toggle() error { return nil }

// LED drives a sysfs GPIO pin as the indicator output.
type LED struct {
	mu  sync.Mutex
	pin *sysfs.DigitalPin
	lit bool
}

// OpenLED exports the pin and configures it as an output, initially off.
func OpenLED(pin int) (*LED, error) {
	p := sysfs.NewDigitalPin(pin)
	if err := p.Export(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to export gpio %d", pin)
	}
	if err := p.Direction(sysfs.OUT); err != nil {
		_ = p.Unexport()
		return nil, pkgerrors.Wrapf(err, "failed to configure gpio %d as output", pin)
	}
	l := &LED{pin: p}
	if err := l.Off(); err != nil {
		_ = p.Unexport()
		return nil, err
	}
	return l, nil
}

func (l *LED) set(lit bool) error {
	v := 0
	if lit {
		v = 1
	}
	if err := l.pin.Write(v); err != nil {
		return pkgerrors.Wrap(err, "failed to write led pin")
	}
	l.lit = lit
	return nil
}

func (l *LED) On() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(true)
}

func (l *LED) Off() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(false)
}

func (l *LED) Toggle() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(!l.lit)
}

// Close turns the LED off and releases the pin.
func (l *LED) Close() error {
	_ = l.Off()
	return l.pin.Unexport()
}

// buttonPollInterval is much shorter than the main loop interval so press
// and release edges are timed accurately enough for long-press detection.
const buttonPollInterval = 20 * time.Millisecond

// Button polls a sysfs GPIO pin wired to a momentary active-low push button
// and feeds press/release edges into a LongPressDetector.
type Button struct {
	pin      *sysfs.DigitalPin
	detector *LongPressDetector
	stop     chan struct{}
	done     chan struct{}
}

// OpenButton exports the pin as an input and starts the poll loop.
func OpenButton(pin int, detector *LongPressDetector) (*Button, error) {
	p := sysfs.NewDigitalPin(pin)
	if err := p.Export(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to export gpio %d", pin)
	}
	if err := p.Direction(sysfs.IN); err != nil {
		_ = p.Unexport()
		return nil, pkgerrors.Wrapf(err, "failed to configure gpio %d as input", pin)
	}

	b := &Button{
		pin:      p,
		detector: detector,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.poll()
	return b, nil
}

func (b *Button) poll() {
	defer close(b.done)

	ticker := time.NewTicker(buttonPollInterval)
	defer ticker.Stop()

	pressed := false
	for {
		select {
		case <-b.stop:
			return
		case now := <-ticker.C:
			v, err := b.pin.Read()
			if err != nil {
				logrus.WithError(err).Warn("button read failed")
				continue
			}
			// active low: 0 means pressed
			p := v == 0
			if p == pressed {
				continue
			}
			pressed = p
			if pressed {
				b.detector.Press(now)
			} else {
				b.detector.Release(now)
			}
		}
	}
}

// Close stops the poll loop and releases the pin.
func (b *Button) Close() error {
	close(b.stop)
	<-b.done
	return b.pin.Unexport()
}
