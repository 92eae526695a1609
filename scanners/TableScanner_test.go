package scanners

import (
	"errors"
	"testing"

	"github.com/reaandrew/badchars/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRowSource struct {
	rows     []core.Row
	position int
	failAt   int
	fetchErr error
	iterErr  error
	closed   bool
}

func (m *MockRowSource) HasNext() bool {
	return m.position < len(m.rows)
}

func (m *MockRowSource) Next() (core.Row, error) {
	if m.fetchErr != nil && m.position == m.failAt {
		return core.Row{}, m.fetchErr
	}
	row := m.rows[m.position]
	m.position++
	return row, nil
}

func (m *MockRowSource) Err() error {
	return m.iterErr
}

func (m *MockRowSource) Close() error {
	m.closed = true
	return nil
}

type CountingProgressReporter struct {
	increments int
	finished   bool
}

func (c *CountingProgressReporter) Increment() {
	c.increments++
}

func (c *CountingProgressReporter) Finish() {
	c.finished = true
}

func scenarioRows() []core.Row {
	return []core.Row{
		{PrimaryKey: 1, Value: "café", Binary: core.ByteSequence{99, 97, 102, 233}},
		{PrimaryKey: 2, Value: "bad", Binary: core.ByteSequence{99, 97, 141}},
		{PrimaryKey: 3, Value: "ok", Binary: nil},
	}
}

func TestScanFindsOffendingRowsUnderCP1252(t *testing.T) {
	scanner := NewTableScanner("customers", "name", nil)

	result, err := scanner.Scan(&MockRowSource{rows: scenarioRows()}, core.CP1252)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{2}, result.OffendingKeys)
	assert.Equal(t, 3, result.RowsScanned)
	assert.Equal(t, 3, result.LastKey)
	assert.Equal(t, Completed, scanner.State())

	require.Len(t, result.Findings, 1)
	finding := result.Findings[0]
	assert.Equal(t, 2, finding.PrimaryKey)
	assert.Equal(t, "bad", finding.Value)
	assert.Equal(t, core.ByteSequence{99, 97, 141}, finding.Binary)
	assert.Equal(t, "ca\u008d", finding.Decoded)
	assert.Equal(t, 2, finding.OffendingIndex)
	assert.Equal(t, 141, finding.OffendingValue)
	assert.Equal(t, "name", finding.Column)
	assert.Empty(t, finding.DecodeError)
}

func TestScanUnderLatin1FlagsTheC1Range(t *testing.T) {
	rows := append(scenarioRows(), core.Row{PrimaryKey: 4, Value: "quote", Binary: core.ByteSequence{147, 104, 105, 148}})
	scanner := NewTableScanner("customers", "name", nil)

	result, err := scanner.Scan(&MockRowSource{rows: rows}, core.Latin1)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{2, 4}, result.OffendingKeys)
	assert.Equal(t, core.Latin1, result.Profile)
}

func TestScanIsIdempotentOverUnchangedSource(t *testing.T) {
	scanner := NewTableScanner("customers", "name", nil)

	first, err := scanner.Scan(&MockRowSource{rows: scenarioRows()}, core.CP1252)
	require.NoError(t, err)
	second, err := scanner.Scan(&MockRowSource{rows: scenarioRows()}, core.CP1252)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanOfEmptySourceCompletesWithNoKeys(t *testing.T) {
	scanner := NewTableScanner("customers", "name", nil)

	result, err := scanner.Scan(&MockRowSource{}, core.CP1252)
	require.NoError(t, err)

	assert.NotNil(t, result.OffendingKeys)
	assert.Empty(t, result.OffendingKeys)
	assert.Empty(t, result.Findings)
	assert.Equal(t, Completed, scanner.State())
}

func TestScanWrapsFetchFailuresAndDiscardsPartialResults(t *testing.T) {
	upstream := errors.New("connection reset")
	source := &MockRowSource{rows: scenarioRows(), failAt: 2, fetchErr: upstream}
	scanner := NewTableScanner("customers", "name", nil)

	result, err := scanner.Scan(source, core.CP1252)

	var sourceErr *core.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, "fetch", sourceErr.Op)
	assert.Equal(t, core.ScanResult{}, result)
	assert.Equal(t, Failed, scanner.State())
}

func TestScanWrapsIterationFailures(t *testing.T) {
	upstream := errors.New("lost connection during query")
	source := &MockRowSource{rows: scenarioRows(), iterErr: upstream}
	scanner := NewTableScanner("customers", "name", nil)

	_, err := scanner.Scan(source, core.CP1252)

	var sourceErr *core.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, "iterate", sourceErr.Op)
	assert.ErrorIs(t, err, upstream)
}

func TestScanDoesNotRewrapSourceErrors(t *testing.T) {
	upstream := &core.SourceError{Op: "query", Err: errors.New("permission denied")}
	source := &MockRowSource{rows: scenarioRows(), iterErr: upstream}
	scanner := NewTableScanner("customers", "name", nil)

	_, err := scanner.Scan(source, core.CP1252)

	assert.Same(t, upstream, err)
}

func TestScanRecordsDecodeErrorsForWidenedValues(t *testing.T) {
	rows := []core.Row{{PrimaryKey: "a", Value: "€", Binary: core.ByteSequence{8364}}}
	scanner := NewTableScanner("customers", "name", nil)

	result, err := scanner.Scan(&MockRowSource{rows: rows}, core.CP1252)
	require.NoError(t, err)

	require.Len(t, result.Findings, 1)
	assert.Equal(t, 8364, result.Findings[0].OffendingValue)
	assert.Empty(t, result.Findings[0].Decoded)
	assert.Contains(t, result.Findings[0].DecodeError, "8364")
}

func TestScanReportsProgressPerRow(t *testing.T) {
	progress := &CountingProgressReporter{}
	scanner := NewTableScanner("customers", "name", progress)

	_, err := scanner.Scan(&MockRowSource{rows: scenarioRows()}, core.CP1252)
	require.NoError(t, err)

	assert.Equal(t, 3, progress.increments)
	assert.True(t, progress.finished)
}

func TestNewScannerStartsIdle(t *testing.T) {
	assert.Equal(t, Idle, NewTableScanner("t", "c", nil).State())
	assert.Equal(t, "scanning", Scanning.String())
}
