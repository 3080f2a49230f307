package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func ptrTo[T any](v T) *T { return &v }

var defaultFileConfig = &RawFileConfig{
	SerialPort:                ptrTo(""),
	SampleCount:               ptrTo(9),
	SampleDelayMilliseconds:   ptrTo(5),
	LoopIntervalMilliseconds:  ptrTo(1000),
	SmoothingAlpha:            ptrTo(0.25),
	LongPressMilliseconds:     ptrTo(1500),
	BlinkIntervalMilliseconds: ptrTo(500),
	CalibrationPath:           ptrTo("/var/lib/wqm/calibration.bin"),
	CSVLogPath:                ptrTo(""),
	ButtonPin:                 ptrTo(0),
	LedPin:                    ptrTo(0),
	MQTTBroker:                ptrTo(""),
	MQTTTopic:                 ptrTo("wqm/turbidity"),
	AllowNonRootAccess:        ptrTo(false),
}

var _ Config = &File{}

// File is the JSON file backed Config. Fields in RawFileConfig are pointers
// so an absent key falls back to its default instead of a zero value.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

type RawFileConfig struct {
	SerialPort                *string  `json:"serialPort,omitempty"`
	SampleCount               *int     `json:"sampleCount,omitempty"`
	SampleDelayMilliseconds   *int     `json:"sampleDelayMilliseconds,omitempty"`
	LoopIntervalMilliseconds  *int     `json:"loopIntervalMilliseconds,omitempty"`
	SmoothingAlpha            *float64 `json:"smoothingAlpha,omitempty"`
	LongPressMilliseconds     *int     `json:"longPressMilliseconds,omitempty"`
	BlinkIntervalMilliseconds *int     `json:"blinkIntervalMilliseconds,omitempty"`
	CalibrationPath           *string  `json:"calibrationPath,omitempty"`
	CSVLogPath                *string  `json:"csvLogPath,omitempty"`
	ButtonPin                 *int     `json:"buttonPin,omitempty"`
	LedPin                    *int     `json:"ledPin,omitempty"`
	MQTTBroker                *string  `json:"mqttBroker,omitempty"`
	MQTTTopic                 *string  `json:"mqttTopic,omitempty"`
	AllowNonRootAccess        *bool    `json:"allowNonRootAccess,omitempty"`
}

// NewFile loads the config at configPath. A missing or empty file yields a
// config where every getter returns its default.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFileFromConfig wraps an already-parsed RawFileConfig, mainly for the
// CLI rendering daemon responses.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}
	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

// NewRawFileConfigFromConfig extracts the raw file form of conf, mainly so
// the daemon can hand the whole config to API clients.
func NewRawFileConfigFromConfig(conf Config) (*RawFileConfig, error) {
	f, ok := conf.(*File)
	if !ok {
		return nil, pkgerrors.Errorf("unsupported config implementation %T", conf)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c := *f.c
	return &c, nil
}

func stringField(p, def *string) string {
	if p != nil {
		return *p
	}
	return *def
}

func intField(p, def *int) int {
	if p != nil {
		return *p
	}
	return *def
}

func (f *File) SerialPort() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return stringField(f.c.SerialPort, defaultFileConfig.SerialPort)
}

func (f *File) SampleCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intField(f.c.SampleCount, defaultFileConfig.SampleCount)
}

func (f *File) SampleDelay() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return time.Duration(intField(f.c.SampleDelayMilliseconds, defaultFileConfig.SampleDelayMilliseconds)) * time.Millisecond
}

func (f *File) LoopInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return time.Duration(intField(f.c.LoopIntervalMilliseconds, defaultFileConfig.LoopIntervalMilliseconds)) * time.Millisecond
}

func (f *File) SmoothingAlpha() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.SmoothingAlpha != nil {
		return *f.c.SmoothingAlpha
	}
	return *defaultFileConfig.SmoothingAlpha
}

func (f *File) LongPressDuration() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return time.Duration(intField(f.c.LongPressMilliseconds, defaultFileConfig.LongPressMilliseconds)) * time.Millisecond
}

func (f *File) BlinkInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return time.Duration(intField(f.c.BlinkIntervalMilliseconds, defaultFileConfig.BlinkIntervalMilliseconds)) * time.Millisecond
}

func (f *File) CalibrationPath() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return stringField(f.c.CalibrationPath, defaultFileConfig.CalibrationPath)
}

func (f *File) CSVLogPath() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return stringField(f.c.CSVLogPath, defaultFileConfig.CSVLogPath)
}

func (f *File) ButtonPin() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intField(f.c.ButtonPin, defaultFileConfig.ButtonPin)
}

func (f *File) LedPin() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intField(f.c.LedPin, defaultFileConfig.LedPin)
}

func (f *File) MQTTBroker() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return stringField(f.c.MQTTBroker, defaultFileConfig.MQTTBroker)
}

func (f *File) MQTTTopic() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return stringField(f.c.MQTTTopic, defaultFileConfig.MQTTTopic)
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) SetSmoothingAlpha(alpha float64) {
	if alpha <= 0 || alpha >= 1 {
		panic("smoothing alpha must be in (0,1)")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.SmoothingAlpha = &alpha
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// A fresh install has no config file; run on defaults.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if err := json.Unmarshal(b, &conf); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.c); err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"serialPort":      f.SerialPort(),
		"sampleCount":     f.SampleCount(),
		"sampleDelay":     f.SampleDelay().String(),
		"loopInterval":    f.LoopInterval().String(),
		"smoothingAlpha":  f.SmoothingAlpha(),
		"longPress":       f.LongPressDuration().String(),
		"calibrationPath": f.CalibrationPath(),
		"csvLogPath":      f.CSVLogPath(),
		"buttonPin":       f.ButtonPin(),
		"ledPin":          f.LedPin(),
		"mqttBroker":      f.MQTTBroker(),
	}
}
