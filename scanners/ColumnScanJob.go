package scanners

import (
	"context"
	"fmt"

	"github.com/reaandrew/badchars/config"
	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/reporters"
	"github.com/reaandrew/badchars/sources"
	"github.com/reaandrew/badchars/utils"
	log "github.com/sirupsen/logrus"
)

// SecretResolver turns secret references such as "ssm:/name" into values.
type SecretResolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// ColumnScanJob runs one scan end to end: connect, pull, classify, report and
// record a checkpoint.
type ColumnScanJob struct {
	Config      config.ScanConfig
	Reporter    reporters.Reporter
	Checkpoints core.CheckpointRepository
	Resume      bool
	Reset       bool
	Progress    utils.ProgressReporter
	Secrets     SecretResolver
}

func (j ColumnScanJob) Run(ctx context.Context) (core.ScanResult, error) {
	cfg := j.Config
	if err := cfg.Validate(); err != nil {
		return core.ScanResult{}, fmt.Errorf("invalid scan configuration: %w", err)
	}

	profile, err := core.ParseEncodingProfile(cfg.Profile)
	if err != nil {
		return core.ScanResult{}, err
	}

	if j.Secrets != nil {
		cfg.Password, err = j.Secrets.Resolve(ctx, cfg.Password)
		if err != nil {
			return core.ScanResult{}, fmt.Errorf("failed to resolve password: %w", err)
		}
	}

	settings, err := cfg.ConnectionSettings()
	if err != nil {
		return core.ScanResult{}, err
	}

	query, err := j.buildQuery(cfg)
	if err != nil {
		return core.ScanResult{}, err
	}

	db, err := sources.Open(ctx, settings)
	if err != nil {
		return core.ScanResult{}, err
	}
	defer db.Close()

	source, err := sources.NewSqlRowSource(ctx, db, settings.Dialect, query)
	if err != nil {
		return core.ScanResult{}, err
	}
	defer source.Close()

	scanner := NewTableScanner(cfg.Table, cfg.Column, j.Progress)
	result, err := scanner.Scan(source, profile)
	if err != nil {
		return core.ScanResult{}, err
	}

	if j.Reporter != nil {
		if err := j.Reporter.Report(result); err != nil {
			return result, fmt.Errorf("failed to report scan result: %w", err)
		}
	}

	if err := j.storeCheckpoint(cfg, settings.Dialect, result); err != nil {
		return result, err
	}
	return result, nil
}

func (j ColumnScanJob) buildQuery(cfg config.ScanConfig) (sources.TableQuery, error) {
	query := sources.TableQuery{
		Table:    cfg.Table,
		PkColumn: cfg.PkColumn,
		Column:   cfg.Column,
		Bookmark: cfg.Bookmark(),
	}
	if j.Checkpoints == nil {
		return query, nil
	}

	if j.Reset {
		if err := j.Checkpoints.Clear(cfg.Table, cfg.PkColumn, cfg.Column); err != nil {
			return query, err
		}
		log.Infof("Cleared checkpoint for %s.%s", cfg.Table, cfg.Column)
	}

	// The last key of a scan is only a usable bookmark if rows arrive in key order.
	query.OrderBy = cfg.PkColumn
	if !j.Resume {
		return query, nil
	}

	checkpoint, found, err := j.Checkpoints.Load(cfg.Table, cfg.PkColumn, cfg.Column)
	if err != nil {
		return query, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if !found {
		log.Infof("No checkpoint for %s.%s, scanning from the start", cfg.Table, cfg.Column)
		return query, nil
	}
	if query.Bookmark.IsSet() {
		log.Warnf("Checkpoint for %s.%s replaces bookmark %s > %s", cfg.Table, cfg.Column, query.Bookmark.Column, query.Bookmark.Value)
	}
	log.Infof("Resuming %s.%s after %s = %s", cfg.Table, cfg.Column, cfg.PkColumn, checkpoint.LastKey)
	query.Bookmark = &core.Bookmark{Column: cfg.PkColumn, Value: checkpoint.LastKey}
	return query, nil
}

func (j ColumnScanJob) storeCheckpoint(cfg config.ScanConfig, dialect sources.Dialect, result core.ScanResult) error {
	if j.Checkpoints == nil {
		return nil
	}
	if result.LastKey == nil {
		log.Infof("No rows scanned, keeping the previous checkpoint for %s.%s", cfg.Table, cfg.Column)
		return nil
	}
	err := j.Checkpoints.Store(core.Checkpoint{
		Table:    cfg.Table,
		PkColumn: cfg.PkColumn,
		Column:   cfg.Column,
		LastKey:  dialect.FormatKey(result.LastKey),
		Rows:     result.RowsScanned,
		Offences: len(result.OffendingKeys),
	})
	if err != nil {
		return fmt.Errorf("failed to store checkpoint: %w", err)
	}
	return nil
}
