package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimSourceStaysInRange(t *testing.T) {
	s := NewSimSource(1000, 200, 1)
	for i := 0; i < 1000; i++ {
		v, err := s.Read()
		assert.NoError(t, err)
		assert.LessOrEqual(t, v, uint16(maxRaw))
	}

	s.SetLevel(0)
	v, err := s.Read()
	assert.NoError(t, err)
	assert.LessOrEqual(t, v, uint16(200))
}
