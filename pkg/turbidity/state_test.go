package turbidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyThresholdEdges(t *testing.T) {
	assert.Equal(t, StateClear, Classify(0))
	assert.Equal(t, StateClear, Classify(29))
	assert.Equal(t, StateModerate, Classify(30))
	assert.Equal(t, StateModerate, Classify(69))
	assert.Equal(t, StateTurbid, Classify(70))
	assert.Equal(t, StateTurbid, Classify(100))
}
