package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodingProfile selects the set of code points treated as forbidden.
type EncodingProfile int

const (
	// Latin1 forbids the C1 control range 128..159.
	Latin1 EncodingProfile = iota
	// CP1252 forbids the five byte values Windows-1252 leaves unassigned.
	CP1252
)

func (p EncodingProfile) String() string {
	switch p {
	case Latin1:
		return "latin1"
	case CP1252:
		return "cp1252"
	default:
		return fmt.Sprintf("EncodingProfile(%d)", int(p))
	}
}

// ParseEncodingProfile accepts the names used on the command line.
func ParseEncodingProfile(name string) (EncodingProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "cp1252", "windows-1252", "win1252":
		return CP1252, nil
	}
	return Latin1, fmt.Errorf("unknown encoding profile: %s", name)
}

func (p EncodingProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *EncodingProfile) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseEncodingProfile(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
