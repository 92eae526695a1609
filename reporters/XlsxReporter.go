package reporters

import (
	"fmt"

	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/reportstorage"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultXlsxReport = "findings.xlsx"
	findingsSheet     = "findings"
	summarySheet      = "summary"
)

// XlsxReporter writes the findings and a short summary to a workbook.
type XlsxReporter struct {
	ArtifactPrefix string
	OutputDir      string
}

func (x XlsxReporter) outputPath() string {
	return reportstorage.CreateFileReportStorage(x.ArtifactPrefix, x.OutputDir).Path(DefaultXlsxReport)
}

func (x XlsxReporter) Report(result core.ScanResult) error {
	fmt.Println("Generating XLSX file")

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(findingsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", findingsSheet, err)
	}
	f.SetActiveSheet(index)

	headers := []interface{}{"PrimaryKey", "Value", "Decoded", "Bytes", "OffendingValue", "OffendingIndex", "DecodeError"}
	if err := f.SetSheetRow(findingsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set headers for sheet '%s': %w", findingsSheet, err)
	}

	rowNum := 2
	for _, finding := range result.Findings {
		rowData := []interface{}{
			fmt.Sprint(finding.PrimaryKey),
			fmt.Sprint(finding.Value),
			finding.Decoded,
			fmt.Sprint([]int(finding.Binary)),
			finding.OffendingValue,
			finding.OffendingIndex,
			finding.DecodeError,
		}
		cellAddress, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to get cell address for row %d: %w", rowNum, err)
		}
		if err := f.SetSheetRow(findingsSheet, cellAddress, &rowData); err != nil {
			return fmt.Errorf("failed to set data for row %d: %w", rowNum, err)
		}
		rowNum++
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", summarySheet, err)
	}
	summaryRows := [][]interface{}{
		{"Table", result.Table},
		{"Column", result.Column},
		{"Profile", result.Profile.String()},
		{"RowsScanned", result.RowsScanned},
		{"OffendingRows", len(result.OffendingKeys)},
		{"OffendingKeys", FormatKeys(result.OffendingKeys)},
	}
	for i, row := range summaryRows {
		cellAddress, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to get summary cell address: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cellAddress, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	// Remove default sheet if not used
	if f.GetSheetName(0) == "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}

	outputFile := x.outputPath()
	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save XLSX file '%s': %w", outputFile, err)
	}

	log.Printf("XLSX report generated successfully: %s\n", outputFile)
	return nil
}
