package types

// Status holds the most recent measurement cycle.
// This struct is shared between the daemon and client packages.
type Status struct {
	ElapsedMS  uint64  `json:"elapsed_ms"`
	RawMedian  uint16  `json:"raw_median"`
	EMARaw     float64 `json:"ema_raw"`
	Index      int     `json:"index"`
	State      string  `json:"state"`
	Calibrated bool    `json:"calibrated"`
	Stage      string  `json:"stage"`
}

// CalibrationStatus describes the stored two-point calibration and the
// current capture flow stage.
type CalibrationStatus struct {
	Loaded    bool   `json:"loaded"`
	ClearRaw  uint16 `json:"clear_raw"`
	CloudyRaw uint16 `json:"cloudy_raw"`
	Stage     string `json:"stage"`
	// PendingClearRaw is the staged clear reference while the flow waits for
	// the cloudy capture.
	PendingClearRaw uint16 `json:"pending_clear_raw,omitempty"`
}
