package scanners

import (
	"errors"

	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/processors"
	"github.com/reaandrew/badchars/utils"
	log "github.com/sirupsen/logrus"
)

// ScanState tracks where a TableScanner is in its single pass.
type ScanState int

const (
	Idle ScanState = iota
	Scanning
	Completed
	Failed
)

func (s ScanState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// TableScanner pulls rows from a RowSource one at a time and collects the
// ones whose binary value is anomalous.
type TableScanner struct {
	Table    string
	Column   string
	Progress utils.ProgressReporter

	state ScanState
}

// NewTableScanner creates a scanner for one table column.
func NewTableScanner(table, column string, progress utils.ProgressReporter) *TableScanner {
	if progress == nil {
		progress = utils.NoopProgressReporter{}
	}
	return &TableScanner{
		Table:    table,
		Column:   column,
		Progress: progress,
	}
}

// State returns the state reached by the last call to Scan.
func (s *TableScanner) State() ScanState {
	return s.state
}

// Scan runs a single pass over source. It returns either the complete result
// or a *core.SourceError; partial results are never returned.
func (s *TableScanner) Scan(source core.RowSource, profile core.EncodingProfile) (core.ScanResult, error) {
	progress := s.Progress
	if progress == nil {
		progress = utils.NoopProgressReporter{}
	}
	defer progress.Finish()

	s.state = Scanning
	result := core.ScanResult{
		Table:         s.Table,
		Column:        s.Column,
		Profile:       profile,
		OffendingKeys: []interface{}{},
		Findings:      []core.Finding{},
	}

	for source.HasNext() {
		row, err := source.Next()
		if err != nil {
			return s.fail(asSourceError("fetch", err))
		}
		result.RowsScanned++
		result.LastKey = row.PrimaryKey
		progress.Increment()

		index, value, found := processors.FirstAnomaly(row.Binary, profile)
		if !found {
			continue
		}
		result.OffendingKeys = append(result.OffendingKeys, row.PrimaryKey)
		result.Findings = append(result.Findings, s.newFinding(row, index, value))
	}

	if err := source.Err(); err != nil {
		return s.fail(asSourceError("iterate", err))
	}

	s.state = Completed
	log.WithFields(log.Fields{
		"table":     s.Table,
		"column":    s.Column,
		"profile":   profile.String(),
		"rows":      result.RowsScanned,
		"offending": len(result.OffendingKeys),
	}).Info("Scan completed")
	return result, nil
}

func (s *TableScanner) fail(err error) (core.ScanResult, error) {
	s.state = Failed
	log.WithFields(log.Fields{"table": s.Table, "column": s.Column}).Errorf("Scan failed: %v", err)
	return core.ScanResult{}, err
}

// asSourceError leaves errors that already are source errors untouched.
func asSourceError(op string, err error) error {
	var sourceErr *core.SourceError
	if errors.As(err, &sourceErr) {
		return err
	}
	return &core.SourceError{Op: op, Err: err}
}

func (s *TableScanner) newFinding(row core.Row, index, value int) core.Finding {
	finding := core.Finding{
		PrimaryKey:     row.PrimaryKey,
		Column:         s.Column,
		Value:          row.Value,
		Binary:         row.Binary,
		OffendingIndex: index,
		OffendingValue: value,
	}

	decoded, err := DecodeLatin1(row.Binary)
	if err != nil {
		var decodeErr *core.DecodeError
		if errors.As(err, &decodeErr) {
			log.Warnf("Row %v holds a widened value: %v", row.PrimaryKey, decodeErr)
		}
		finding.DecodeError = err.Error()
		return finding
	}
	finding.Decoded = decoded
	log.Debugf("Offending value %d at position %d in row %v", value, index, row.PrimaryKey)
	return finding
}
