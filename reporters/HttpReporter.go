package reporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/reaandrew/badchars/core"
	log "github.com/sirupsen/logrus"
)

const DefaultHttpBatchSize = 100

type ReportIdGenerator interface {
	Generate() string
}

type UuidReportGenerator struct {
}

func (u UuidReportGenerator) Generate() string {
	return uuid.New().String()
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHttpClient struct {
}

func (d DefaultHttpClient) Do(req *http.Request) (*http.Response, error) {
	response, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("Error sending request: %v\n", err)
	} else {
		log.Debugf("Sent %s %s: %s", req.Method, req.URL, response.Status)
	}
	return response, err
}

func NewDefaultHttpReporter(baseUrl string) HttpReporter {
	return HttpReporter{
		BaseURL:           baseUrl,
		HTTPClient:        DefaultHttpClient{},
		ReportIdGenerator: UuidReportGenerator{},
		BatchSize:         DefaultHttpBatchSize,
	}
}

// HttpReporter posts findings in batches and then marks the report complete.
type HttpReporter struct {
	BaseURL           string
	HTTPClient        HttpClient
	ReportIdGenerator ReportIdGenerator
	BatchSize         int
}

type findingBatch struct {
	Table    string         `json:"table"`
	Column   string         `json:"column"`
	Findings []core.Finding `json:"findings"`
}

type completion struct {
	Status        string               `json:"status"`
	Profile       core.EncodingProfile `json:"profile"`
	RowsScanned   int                  `json:"rows_scanned"`
	OffendingKeys []interface{}        `json:"offending_keys"`
}

func (h HttpReporter) Report(result core.ScanResult) error {
	reportId := h.ReportIdGenerator.Generate()
	log.Infof("Reporting %d findings to %s as report %s", len(result.Findings), h.BaseURL, reportId)

	batchSize := h.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultHttpBatchSize
	}

	for start := 0; start < len(result.Findings); start += batchSize {
		end := start + batchSize
		if end > len(result.Findings) {
			end = len(result.Findings)
		}
		batch := findingBatch{Table: result.Table, Column: result.Column, Findings: result.Findings[start:end]}
		if err := h.postFindings(batch, reportId); err != nil {
			return fmt.Errorf("failed to report findings: %w", err)
		}
	}

	keys := result.OffendingKeys
	if keys == nil {
		keys = []interface{}{}
	}
	err := h.signalCompletion(completion{
		Status:        "completed",
		Profile:       result.Profile,
		RowsScanned:   result.RowsScanned,
		OffendingKeys: keys,
	}, reportId)
	if err != nil {
		return fmt.Errorf("failed to signal completion: %w", err)
	}

	return nil
}

func (h HttpReporter) postFindings(batch findingBatch, reportId string) error {
	url := fmt.Sprintf("%s/reports/%s/results", h.BaseURL, reportId)
	return h.send("POST", url, batch)
}

func (h HttpReporter) signalCompletion(body completion, reportId string) error {
	url := fmt.Sprintf("%s/report/%s", h.BaseURL, reportId)
	return h.send("PATCH", url, body)
}

func (h HttpReporter) send(method, url string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	return nil
}
