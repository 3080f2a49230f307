package calibration

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{ClearRaw: 900, CloudyRaw: 300}

	b, err := rec.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, RecordSize)

	var got Record
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, rec, got)
	assert.Equal(t, rec.Checksum(), got.Checksum())
}

func TestRecordRejectsBadSignature(t *testing.T) {
	b, err := Record{ClearRaw: 900, CloudyRaw: 300}.MarshalBinary()
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(b[0:4], 0xdeadbeef)

	var got Record
	assert.ErrorIs(t, got.UnmarshalBinary(b), ErrBadSignature)
}

func TestRecordRejectsBadChecksum(t *testing.T) {
	b, err := Record{ClearRaw: 900, CloudyRaw: 300}.MarshalBinary()
	require.NoError(t, err)
	// flip one bit of the clear reference, leave the checksum alone
	b[4] ^= 0x01

	var got Record
	assert.ErrorIs(t, got.UnmarshalBinary(b), ErrBadChecksum)
}

func TestRecordRejectsDegenerateEvenWithValidChecksum(t *testing.T) {
	// craft a block with clear == cloudy and a matching checksum
	rec := Record{ClearRaw: 500, CloudyRaw: 500}
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(b[0:4], Signature)
	binary.LittleEndian.PutUint16(b[4:6], rec.ClearRaw)
	binary.LittleEndian.PutUint16(b[6:8], rec.CloudyRaw)
	binary.LittleEndian.PutUint16(b[8:10], rec.Checksum())

	var got Record
	assert.ErrorIs(t, got.UnmarshalBinary(b), ErrDegenerate)
}

func TestRecordRejectsShortBlock(t *testing.T) {
	var got Record
	assert.ErrorIs(t, got.UnmarshalBinary(make([]byte, RecordSize-1)), ErrShortRecord)
}

func TestMarshalRefusesDegenerate(t *testing.T) {
	_, err := Record{ClearRaw: 7, CloudyRaw: 7}.MarshalBinary()
	assert.ErrorIs(t, err, ErrDegenerate)
}
