package processors

import "github.com/reaandrew/badchars/core"

const maxByteValue = 255

// cp1252Unassigned are the byte values Windows-1252 leaves undefined.
var cp1252Unassigned = map[int]struct{}{
	129: {},
	141: {},
	143: {},
	144: {},
	157: {},
}

// IsAnomalous reports whether seq holds a value that is forbidden under profile.
// A nil sequence is never anomalous.
func IsAnomalous(seq core.ByteSequence, profile core.EncodingProfile) bool {
	_, _, found := FirstAnomaly(seq, profile)
	return found
}

// FirstAnomaly walks seq in order and stops at the first forbidden value,
// returning its position and value. Later values are never inspected.
func FirstAnomaly(seq core.ByteSequence, profile core.EncodingProfile) (int, int, bool) {
	if seq == nil {
		return -1, 0, false
	}
	for i, value := range seq {
		if isForbidden(value, profile) {
			return i, value, true
		}
	}
	return -1, 0, false
}

func isForbidden(value int, profile core.EncodingProfile) bool {
	if value > maxByteValue || value < 0 {
		return true
	}
	switch profile {
	case core.Latin1:
		return value >= 128 && value <= 159
	case core.CP1252:
		_, ok := cp1252Unassigned[value]
		return ok
	}
	return false
}
