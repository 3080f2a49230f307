package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the daemon configuration. Durations are stored as milliseconds
// in the file and exposed as time.Duration here.
type Config interface {
	// SerialPort is the ADC frontend port; empty selects the simulated source.
	SerialPort() string
	SampleCount() int
	SampleDelay() time.Duration
	LoopInterval() time.Duration
	SmoothingAlpha() float64
	LongPressDuration() time.Duration
	BlinkInterval() time.Duration
	CalibrationPath() string
	// CSVLogPath is the cycle log destination; empty selects stdout.
	CSVLogPath() string
	// ButtonPin and LedPin are sysfs GPIO numbers; 0 disables the peripheral.
	ButtonPin() int
	LedPin() int
	MQTTBroker() string
	MQTTTopic() string
	AllowNonRootAccess() bool

	SetSmoothingAlpha(float64)

	Load() error
	Save() error
	LogrusFields() logrus.Fields
}
