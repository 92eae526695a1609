package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/reaandrew/badchars/config"
	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/scanners"
	"github.com/reaandrew/badchars/utils"
	log "github.com/sirupsen/logrus"
)

// LambdaResponse is the body returned for a completed scan.
type LambdaResponse struct {
	Result core.ScanResult `json:"result"`
}

// ScanRequest holds the only fields a caller may set on a scan.
type ScanRequest struct {
	Table          string `json:"table"`
	PkColumn       string `json:"pk_column"`
	Column         string `json:"column"`
	Profile        string `json:"profile"`
	BookmarkColumn string `json:"bookmark_column"`
	BookmarkValue  string `json:"bookmark_value"`
}

// apply copies the request onto cfg. Empty fields keep the configured value.
func (r ScanRequest) apply(cfg config.ScanConfig) config.ScanConfig {
	if r.Table != "" {
		cfg.Table = r.Table
	}
	if r.PkColumn != "" {
		cfg.PkColumn = r.PkColumn
	}
	if r.Column != "" {
		cfg.Column = r.Column
	}
	if r.Profile != "" {
		cfg.Profile = r.Profile
	}
	if r.BookmarkColumn != "" {
		cfg.BookmarkColumn = r.BookmarkColumn
		cfg.BookmarkValue = r.BookmarkValue
	}
	return cfg
}

// ScanFunc runs a prepared job. Tests replace it.
type ScanFunc func(ctx context.Context, job scanners.ColumnScanJob) (core.ScanResult, error)

var runScanJob ScanFunc = func(ctx context.Context, job scanners.ColumnScanJob) (core.ScanResult, error) {
	return job.Run(ctx)
}

// Handler is the Lambda function handler. Connection details come from the
// BADCHARS_* environment; the request body may only name the table, columns,
// profile and bookmark.
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cfg, err := config.ApplyEnv(config.Defaults())
	if err != nil {
		log.Printf("Error reading environment: %v", err)
		return toAPIGatewayResponse(500, errorBody(err)), nil
	}

	if request.Body != "" {
		var scanRequest ScanRequest
		if err := json.Unmarshal([]byte(request.Body), &scanRequest); err != nil {
			log.Printf("Error parsing request body: %v", err)
			return toAPIGatewayResponse(400, `{"error": "Invalid JSON format."}`), nil
		}
		cfg = scanRequest.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		log.Println(err)
		return toAPIGatewayResponse(400, errorBody(err)), nil
	}

	job := scanners.ColumnScanJob{Config: cfg}
	if utils.IsSsmReference(cfg.Password) {
		resolver, err := utils.NewSsmSecretResolver(ctx)
		if err != nil {
			return toAPIGatewayResponse(500, errorBody(err)), nil
		}
		job.Secrets = resolver
	}

	result, err := runScanJob(ctx, job)
	if err != nil {
		log.Printf("Error scanning %s.%s: %v", cfg.Table, cfg.Column, err)
		return toAPIGatewayResponse(500, errorBody(err)), nil
	}

	body, err := json.Marshal(LambdaResponse{Result: result})
	if err != nil {
		return toAPIGatewayResponse(500, errorBody(fmt.Errorf("failed to marshal result: %w", err))), nil
	}
	return toAPIGatewayResponse(200, string(body)), nil
}

func errorBody(err error) string {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(body)
}

// toAPIGatewayResponse builds the proxy response
func toAPIGatewayResponse(statusCode int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      statusCode,
		Headers:         map[string]string{"Content-Type": "application/json"},
		Body:            body,
		IsBase64Encoded: false,
	}
}
