package core

// ByteSequence is the binary-coerced value of a column. A nil sequence stands
// for an absent (NULL) value. Elements may exceed 255 when a source has
// already widened them.
type ByteSequence []int

// BytesToSequence widens raw bytes. A nil slice stays nil.
func BytesToSequence(b []byte) ByteSequence {
	if b == nil {
		return nil
	}
	seq := make(ByteSequence, len(b))
	for i, c := range b {
		seq[i] = int(c)
	}
	return seq
}

// Row is one record pulled from a RowSource.
type Row struct {
	PrimaryKey interface{}
	Value      interface{}
	Binary     ByteSequence
}

// Bookmark restricts a RowSource to rows whose Column compares greater than Value.
type Bookmark struct {
	Column string
	Value  string
}

// IsSet reports whether the bookmark filters anything.
func (b *Bookmark) IsSet() bool {
	return b != nil && b.Column != ""
}

// RowSource is a lazy, finite, non-restartable sequence of rows.
type RowSource interface {
	HasNext() bool
	Next() (Row, error)
	// Err returns the error, if any, that stopped HasNext.
	Err() error
	Close() error
}
