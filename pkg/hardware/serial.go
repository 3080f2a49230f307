package hardware

import (
	"bufio"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.bug.st/serial"
)

// maxRaw is the largest reading the 10-bit ADC frontend can produce.
const maxRaw = 1023

// SerialSource reads raw ADC values from a serial-attached frontend that
// prints one decimal reading per line. Blank lines are skipped; anything
// else that does not parse as an in-range reading is an error.
type SerialSource struct {
	port serial.Port
	sc   *bufio.Scanner
}

// OpenSerial opens the frontend at portName.
func OpenSerial(portName string, baudRate int) (*SerialSource, error) {
	if baudRate <= 0 {
		baudRate = 115200
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open serial port %s", portName)
	}
	return &SerialSource{
		port: port,
		sc:   bufio.NewScanner(port),
	}, nil
}

// Read blocks until the frontend delivers the next reading.
func (s *SerialSource) Read() (uint16, error) {
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 16)
		if err != nil {
			return 0, pkgerrors.Wrapf(err, "unparsable reading %q", line)
		}
		if v > maxRaw {
			return 0, pkgerrors.Errorf("reading %d exceeds ADC range", v)
		}
		return uint16(v), nil
	}
	if err := s.sc.Err(); err != nil {
		return 0, pkgerrors.Wrap(err, "serial read failed")
	}
	return 0, pkgerrors.New("serial stream closed")
}

// Close releases the port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}
