package reporters

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/reportstorage"
	"github.com/reaandrew/badchars/repositories"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultJsonReport        = "findings.json"
	DefaultJsonSummaryReport = "summary.json"
	DefaultSqliteDBFilename  = "findings.db"
)

// JsonReporter writes one JSON document per finding plus a summary document.
type JsonReporter struct {
	ArtifactPrefix   string
	SqliteDBFilename string
	OutputDir        string
}

// Summary is the content of the summary report.
type Summary struct {
	Table            string                      `json:"table"`
	Column           string                      `json:"column"`
	Profile          core.EncodingProfile        `json:"profile"`
	RowsScanned      int                         `json:"rows_scanned"`
	OffendingRows    int                         `json:"offending_rows"`
	OffendingKeys    []interface{}               `json:"offending_keys"`
	ByOffendingValue []repositories.OffenceCount `json:"by_offending_value"`
	LastKey          interface{}                 `json:"last_key,omitempty"`
}

func (j JsonReporter) storage() reportstorage.FileReportStorage {
	return reportstorage.CreateFileReportStorage(j.ArtifactPrefix, j.OutputDir)
}

// Report generates both detailed and summary JSON reports
func (j JsonReporter) Report(result core.ScanResult) error {
	if err := j.generateDetailedReport(result); err != nil {
		return fmt.Errorf("failed to generate detailed JSON report: %w", err)
	}
	if err := j.generateSummaryReport(result); err != nil {
		return fmt.Errorf("failed to generate summary JSON report: %w", err)
	}
	return nil
}

func (j JsonReporter) generateDetailedReport(result core.ScanResult) error {
	outputFile, err := j.storage().Create(DefaultJsonReport)
	if err != nil {
		return err
	}
	defer outputFile.Close()

	encoder := json.NewEncoder(outputFile)
	for _, finding := range result.Findings {
		if err := encoder.Encode(finding); err != nil {
			return fmt.Errorf("failed to write finding for row %v: %w", finding.PrimaryKey, err)
		}
	}

	fmt.Printf("Detailed JSON report generated successfully: %s\n", outputFile.Name())
	return nil
}

// summaryDatabasePath reserves a unique scratch file for the summary database.
func (j JsonReporter) summaryDatabasePath() (string, error) {
	dbName := j.SqliteDBFilename
	if dbName == "" {
		dbName = DefaultSqliteDBFilename
	}
	file, err := os.CreateTemp("", fmt.Sprintf("%s_*_%s", j.ArtifactPrefix, dbName))
	if err != nil {
		return "", fmt.Errorf("failed to create summary database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (j JsonReporter) generateSummaryReport(result core.ScanResult) error {
	dbPath, err := j.summaryDatabasePath()
	if err != nil {
		return err
	}

	repository, err := repositories.NewSqliteFindingRepository(dbPath)
	if err != nil {
		_ = repositories.DeleteDatabaseFileIfExists(dbPath)
		return fmt.Errorf("failed to initialize SQLite database: %w", err)
	}
	defer func() {
		_ = repository.Close()
		_ = repositories.DeleteDatabaseFileIfExists(dbPath)
	}()

	if err := repository.Store(result.Findings); err != nil {
		return fmt.Errorf("failed to store findings: %w", err)
	}

	counts, err := repository.CountByOffendingValue()
	if err != nil {
		return err
	}
	log.Debugf("Summary has %d distinct offending values", len(counts))

	summary := Summary{
		Table:            result.Table,
		Column:           result.Column,
		Profile:          result.Profile,
		RowsScanned:      result.RowsScanned,
		OffendingRows:    len(result.OffendingKeys),
		OffendingKeys:    result.OffendingKeys,
		ByOffendingValue: counts,
		LastKey:          result.LastKey,
	}
	if summary.OffendingKeys == nil {
		summary.OffendingKeys = []interface{}{}
	}

	summaryBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary data: %w", err)
	}

	outputPath, err := j.storage().Store(DefaultJsonSummaryReport, summaryBytes)
	if err != nil {
		return err
	}

	fmt.Printf("Summary JSON report generated successfully: %s\n", outputPath)
	return nil
}
