package calibration

import (
	"encoding/binary"
	"errors"
)

// Signature marks a calibration block written by this program ("WQM1").
const Signature uint32 = 0x57514d31

// RecordSize is the fixed on-disk size: signature (4) + clear (2) +
// cloudy (2) + checksum (2).
const RecordSize = 10

var (
	ErrShortRecord  = errors.New("calibration record truncated")
	ErrBadSignature = errors.New("calibration signature mismatch")
	ErrBadChecksum  = errors.New("calibration checksum mismatch")
	ErrDegenerate   = errors.New("clear and cloudy references are equal")
)

// Record holds the two raw reference readings of a two-point calibration:
// the sensor output in known-clear and known-cloudy water.
type Record struct {
	ClearRaw  uint16 `json:"clearRaw"`
	CloudyRaw uint16 `json:"cloudyRaw"`
}

// Checksum is an additive fold over the signature halves and both references,
// truncated to 16 bits. It detects corruption, nothing more.
func (r Record) Checksum() uint16 {
	sum := uint32(Signature>>16) + uint32(Signature&0xffff) +
		uint32(r.ClearRaw) + uint32(r.CloudyRaw)
	return uint16(sum)
}

// Validate rejects degenerate calibrations. Equal references would make the
// index mapping divide by zero.
func (r Record) Validate() error {
	if r.ClearRaw == r.CloudyRaw {
		return ErrDegenerate
	}
	return nil
}

// MarshalBinary encodes the record in its fixed little-endian layout.
func (r Record) MarshalBinary() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(b[0:4], Signature)
	binary.LittleEndian.PutUint16(b[4:6], r.ClearRaw)
	binary.LittleEndian.PutUint16(b[6:8], r.CloudyRaw)
	binary.LittleEndian.PutUint16(b[8:10], r.Checksum())
	return b, nil
}

// UnmarshalBinary decodes and verifies a stored block. Any of signature,
// checksum, or degenerate references fails the whole record.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) < RecordSize {
		return ErrShortRecord
	}
	if binary.LittleEndian.Uint32(b[0:4]) != Signature {
		return ErrBadSignature
	}
	rec := Record{
		ClearRaw:  binary.LittleEndian.Uint16(b[4:6]),
		CloudyRaw: binary.LittleEndian.Uint16(b[6:8]),
	}
	if binary.LittleEndian.Uint16(b[8:10]) != rec.Checksum() {
		return ErrBadChecksum
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	*r = rec
	return nil
}
