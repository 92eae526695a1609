package reporters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reaandrew/badchars/core"
)

// ConsoleReporter prints every offending row followed by the list of keys.
type ConsoleReporter struct {
	Writer io.Writer
}

func NewConsoleReporter() ConsoleReporter {
	return ConsoleReporter{Writer: os.Stdout}
}

func (c ConsoleReporter) Report(result core.ScanResult) error {
	w := c.Writer
	if w == nil {
		w = os.Stdout
	}

	column := result.Column
	if column == "" {
		column = "value"
	}

	var sb strings.Builder
	for _, finding := range result.Findings {
		fmt.Fprintf(&sb, "Id: %v\n", finding.PrimaryKey)
		fmt.Fprintf(&sb, "%s: %v\n", column, finding.Value)
		if finding.DecodeError != "" {
			fmt.Fprintf(&sb, "Decoded %s: <%s>\n", column, finding.DecodeError)
		} else {
			fmt.Fprintf(&sb, "Decoded %s: %s\n", column, finding.Decoded)
		}
		fmt.Fprintf(&sb, "%s bytes: %v\n", column, []int(finding.Binary))
		fmt.Fprintf(&sb, "Offending char: %d at position %d\n", finding.OffendingValue, finding.OffendingIndex)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Rows scanned: %d (%s)\n", result.RowsScanned, result.Profile)
	sb.WriteString("Offending IDs:\n")
	sb.WriteString(FormatKeys(result.OffendingKeys))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write console report: %w", err)
	}
	return nil
}

// FormatKeys renders keys as a tuple, e.g. (2, 7, 9).
func FormatKeys(keys []interface{}) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprint(key)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
