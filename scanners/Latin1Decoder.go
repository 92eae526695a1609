package scanners

import (
	"github.com/reaandrew/badchars/core"
	"golang.org/x/text/encoding/charmap"
)

// DecodeLatin1 renders seq as ISO-8859-1 text. Every value in 0..255 maps to
// exactly one code point; anything else yields a *core.DecodeError.
func DecodeLatin1(seq core.ByteSequence) (string, error) {
	if seq == nil {
		return "", nil
	}
	raw := make([]byte, len(seq))
	for i, value := range seq {
		if value < 0 || value > 255 {
			return "", &core.DecodeError{Index: i, Value: value}
		}
		raw[i] = byte(value)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
