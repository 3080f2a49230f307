// Package hardware holds the device-facing layer: the analog sensor source,
// GPIO indicator and button, and long-press detection.
package hardware

// AnalogSource yields raw ADC readings from the turbidity sensor frontend.
// Readings are bounded by the frontend's ADC resolution (10 bit, 0-1023).
type AnalogSource interface {
	Read() (uint16, error)
	Close() error
}
