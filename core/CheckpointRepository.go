package core

// Checkpoint remembers how far a completed scan got for one table column.
type Checkpoint struct {
	Table    string `json:"table"`
	PkColumn string `json:"pk_column"`
	Column   string `json:"column"`
	LastKey  string `json:"last_key"`
	Rows     int    `json:"rows"`
	Offences int    `json:"offences"`
}

type CheckpointRepository interface {
	Load(table, pkColumn, column string) (Checkpoint, bool, error)
	Store(checkpoint Checkpoint) error
	Clear(table, pkColumn, column string) error
	Close() error
}
