package core

// Finding is the diagnostic record kept for every offending row.
type Finding struct {
	PrimaryKey     interface{}  `json:"primary_key"`
	Column         string       `json:"column,omitempty"`
	Value          interface{}  `json:"value"`
	Binary         ByteSequence `json:"binary"`
	Decoded        string       `json:"decoded"`
	OffendingIndex int          `json:"offending_index"`
	OffendingValue int          `json:"offending_value"`
	DecodeError    string       `json:"decode_error,omitempty"`
}

// ScanResult holds the offending keys in the order they were encountered
// together with one Finding per offending row.
type ScanResult struct {
	Table         string          `json:"table,omitempty"`
	Column        string          `json:"column,omitempty"`
	Profile       EncodingProfile `json:"profile"`
	RowsScanned   int             `json:"rows_scanned"`
	OffendingKeys []interface{}   `json:"offending_keys"`
	Findings      []Finding       `json:"findings"`
	LastKey       interface{}     `json:"last_key,omitempty"`
}

