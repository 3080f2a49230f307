// Package recorder writes the per-cycle CSV log consumed by the analysis
// scripts.
package recorder

import (
	"fmt"
	"io"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// Header is the fixed CSV column set, one row per sampling cycle.
const Header = "ms,raw_median,ema_raw,index,status,cal_loaded,clear_raw,cloudy_raw"

// Row is one cycle's worth of log data. ClearRaw and CloudyRaw are zero when
// no calibration is loaded.
type Row struct {
	ElapsedMS uint64
	RawMedian uint16
	EMARaw    float64
	Index     int
	Status    string
	CalLoaded bool
	ClearRaw  uint16
	CloudyRaw uint16
}

// CSVLog emits Header once and then one line per Write.
type CSVLog struct {
	mu sync.Mutex
	w  io.Writer
	f  *os.File
}

// New returns a CSVLog writing to w, emitting the header immediately.
func New(w io.Writer) (*CSVLog, error) {
	l := &CSVLog{w: w}
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to write csv header")
	}
	return l, nil
}

// Open appends to the file at path, writing the header only when the file is
// new or empty so restarted runs keep a single header.
func Open(path string) (*CSVLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open csv log %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, pkgerrors.Wrapf(err, "failed to stat csv log %s", path)
	}

	l := &CSVLog{w: f, f: f}
	if info.Size() == 0 {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			_ = f.Close()
			return nil, pkgerrors.Wrap(err, "failed to write csv header")
		}
	}
	return l, nil
}

// Write emits one row.
func (l *CSVLog) Write(r Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	calLoaded := 0
	if r.CalLoaded {
		calLoaded = 1
	}
	_, err := fmt.Fprintf(l.w, "%d,%d,%.2f,%d,%s,%d,%d,%d\n",
		r.ElapsedMS, r.RawMedian, r.EMARaw, r.Index, r.Status,
		calLoaded, r.ClearRaw, r.CloudyRaw)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to write csv row")
	}
	return nil
}

// Close closes the underlying file, if any.
func (l *CSVLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
