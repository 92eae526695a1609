package processors

import (
	"testing"

	"github.com/reaandrew/badchars/core"
	"github.com/stretchr/testify/assert"
)

func TestLatin1FlagsC1ControlRange(t *testing.T) {
	for v := 0; v <= 255; v++ {
		expected := v >= 128 && v <= 159
		assert.Equal(t, expected, IsAnomalous(core.ByteSequence{v}, core.Latin1), "value %d", v)
	}
}

func TestCP1252FlagsUnassignedBytes(t *testing.T) {
	forbidden := map[int]bool{129: true, 141: true, 143: true, 144: true, 157: true}
	for v := 0; v <= 255; v++ {
		assert.Equal(t, forbidden[v], IsAnomalous(core.ByteSequence{v}, core.CP1252), "value %d", v)
	}
}

func TestValuesAboveByteRangeAreAlwaysAnomalous(t *testing.T) {
	sequences := []core.ByteSequence{
		{256},
		{65, 66, 300},
		{8364, 65},
	}
	for _, seq := range sequences {
		assert.True(t, IsAnomalous(seq, core.Latin1))
		assert.True(t, IsAnomalous(seq, core.CP1252))
	}
}

func TestNilSequenceIsNotAnomalous(t *testing.T) {
	assert.False(t, IsAnomalous(nil, core.Latin1))
	assert.False(t, IsAnomalous(nil, core.CP1252))
}

func TestEmptySequenceIsNotAnomalous(t *testing.T) {
	assert.False(t, IsAnomalous(core.ByteSequence{}, core.Latin1))
	assert.False(t, IsAnomalous(core.ByteSequence{}, core.CP1252))
}

func TestCP1252DoesNotFlagAssignedHighBytes(t *testing.T) {
	assert.False(t, IsAnomalous(core.ByteSequence{130, 65}, core.CP1252))
	assert.False(t, IsAnomalous(core.ByteSequence{99, 97, 102, 233}, core.CP1252))
}

func TestFirstAnomalyStopsAtFirstOffendingValue(t *testing.T) {
	index, value, found := FirstAnomaly(core.ByteSequence{141, 300, 129}, core.CP1252)
	assert.True(t, found)
	assert.Equal(t, 0, index)
	assert.Equal(t, 141, value)

	index, value, found = FirstAnomaly(core.ByteSequence{200, 65, 129, 141}, core.CP1252)
	assert.True(t, found)
	assert.Equal(t, 2, index)
	assert.Equal(t, 129, value)
}

func TestFirstAnomalyReportsNothingForCleanInput(t *testing.T) {
	index, value, found := FirstAnomaly(core.ByteSequence{104, 105}, core.Latin1)
	assert.False(t, found)
	assert.Equal(t, -1, index)
	assert.Equal(t, 0, value)
}
