package reporters

import (
	"bytes"
	"testing"

	"github.com/reaandrew/badchars/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReporterPrintsFindingsAndKeys(t *testing.T) {
	var out bytes.Buffer
	reporter := ConsoleReporter{Writer: &out}

	require.NoError(t, reporter.Report(sampleResult()))

	text := out.String()
	assert.Contains(t, text, "Id: 2\n")
	assert.Contains(t, text, "name: bad\n")
	assert.Contains(t, text, "Decoded name: ca\u008d\n")
	assert.Contains(t, text, "name bytes: [99 97 141]\n")
	assert.Contains(t, text, "Offending char: 141 at position 2\n")
	assert.Contains(t, text, "Offending IDs:\n(2,)\n")
}

func TestConsoleReporterShowsDecodeErrors(t *testing.T) {
	var out bytes.Buffer
	reporter := ConsoleReporter{Writer: &out}
	result := core.ScanResult{
		Column:        "name",
		OffendingKeys: []interface{}{"a"},
		Findings:      []core.Finding{{PrimaryKey: "a", Binary: core.ByteSequence{300}, DecodeError: "boom"}},
	}

	require.NoError(t, reporter.Report(result))
	assert.Contains(t, out.String(), "Decoded name: <boom>\n")
}

func TestFormatKeys(t *testing.T) {
	assert.Equal(t, "()", FormatKeys(nil))
	assert.Equal(t, "(7,)", FormatKeys([]interface{}{7}))
	assert.Equal(t, "(2, a, 9)", FormatKeys([]interface{}{2, "a", 9}))
}
