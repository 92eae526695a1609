package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reaandrew/badchars/config"
	"github.com/reaandrew/badchars/reporters"
	"github.com/reaandrew/badchars/repositories"
	"github.com/reaandrew/badchars/scanners"
	"github.com/reaandrew/badchars/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Cli represents the command-line interface
type Cli struct {
	configPath     string
	envFile        string
	driver         string
	profile        string
	reportFormat   string
	baseUrl        string
	outputDir      string
	bookmarkColumn string
	bookmarkValue  string
	checkpoint     string
	resume         bool
	reset          bool
	progress       bool
	verbose        bool
}

// Execute sets up and runs the root command
func (cli *Cli) Execute() error {
	rootCmd := &cobra.Command{
		Use:          "badchars",
		Short:        "badchars finds rows whose text is invalid under Latin-1 or Windows-1252.",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.createScanCommand())

	return rootCmd.Execute()
}

// createScanCommand creates the 'scan' subcommand with its flags
func (cli *Cli) createScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [HOST USERNAME PASSWORD DATABASE TABLE PK_COLUMN COLUMN [PORT]]",
		Short: "Scan one column of one table for mojibake.",
		Long: "Scan one column of one table for byte values that are invalid under the chosen encoding.\n" +
			"Only a single table and a single column are checked per run.",
		Args: validateScanArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.verbose {
				log.SetLevel(log.DebugLevel)
			}
			cfg, err := cli.buildConfig(cmd, args)
			if err != nil {
				return err
			}
			return cli.runScan(cmd.Context(), cfg)
		},
	}

	flags := scanCmd.Flags()
	flags.StringVar(&cli.configPath, "config", "", "YAML or TOML file with scan settings")
	flags.StringVar(&cli.envFile, "env-file", "", "File with BADCHARS_* variables (defaults to .env when present)")
	flags.StringVar(&cli.driver, "driver", "mysql", "Database driver (supported: mysql, postgres, sqlite3)")
	flags.StringVar(&cli.profile, "profile", "cp1252", "Encoding profile (supported: cp1252, latin1)")
	flags.StringVar(&cli.reportFormat, "report", "console", "Report format (supported: console, json, xlsx, http)")
	flags.StringVar(&cli.baseUrl, "baseurl", "", "Http report base url")
	flags.StringVar(&cli.outputDir, "output-dir", ".", "Directory for json and xlsx reports")
	flags.StringVarP(&cli.bookmarkColumn, "bookmark_column", "b", "", "Column that can be used for narrowing down scanned records")
	flags.StringVarP(&cli.bookmarkValue, "bookmark_value", "v", "", "Value of the bookmark column to be used when filtering data")
	flags.StringVar(&cli.checkpoint, "checkpoint", "", "File that records the last key of each completed scan")
	flags.BoolVar(&cli.resume, "resume", false, "Continue after the key stored in --checkpoint")
	flags.BoolVar(&cli.reset, "reset-checkpoint", false, "Forget the key stored in --checkpoint before scanning")
	flags.BoolVar(&cli.progress, "progress", false, "Show a progress spinner on stderr")
	flags.BoolVar(&cli.verbose, "verbose", false, "Log at debug level")

	return scanCmd
}

func validateScanArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 7 || len(args) == 8 {
		return nil
	}
	return fmt.Errorf("expected 7 or 8 positional arguments, got %d", len(args))
}

// buildConfig layers defaults, config file, environment, positional arguments and flags.
func (cli *Cli) buildConfig(cmd *cobra.Command, args []string) (config.ScanConfig, error) {
	if err := config.LoadDotEnv(cli.envFile); err != nil {
		return config.ScanConfig{}, err
	}

	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return cfg, err
	}

	cfg, err = config.ApplyEnv(cfg)
	if err != nil {
		return cfg, err
	}

	if len(args) >= 7 {
		cfg.Host = args[0]
		cfg.Username = args[1]
		cfg.Password = args[2]
		cfg.Database = args[3]
		cfg.Table = args[4]
		cfg.PkColumn = args[5]
		cfg.Column = args[6]
	}
	if len(args) == 8 {
		port, err := strconv.Atoi(args[7])
		if err != nil {
			return cfg, fmt.Errorf("invalid port %q: %w", args[7], err)
		}
		cfg.Port = port
	}

	flags := cmd.Flags()
	overrides := map[string]func(){
		"driver":          func() { cfg.Driver = cli.driver },
		"profile":         func() { cfg.Profile = cli.profile },
		"report":          func() { cfg.Report = cli.reportFormat },
		"baseurl":         func() { cfg.BaseURL = cli.baseUrl },
		"output-dir":      func() { cfg.OutputDir = cli.outputDir },
		"bookmark_column": func() { cfg.BookmarkColumn = cli.bookmarkColumn },
		"bookmark_value":  func() { cfg.BookmarkValue = cli.bookmarkValue },
		"checkpoint":      func() { cfg.Checkpoint = cli.checkpoint },
	}
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}

	return cfg, cfg.Validate()
}

func (cli *Cli) runScan(ctx context.Context, cfg config.ScanConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reporter, err := reporters.CreateReporter(cfg.Report, reporters.ReporterOptions{
		ArtifactPrefix: utils.ArtifactPrefix(cfg.Table, cfg.Column),
		OutputDir:      cfg.OutputDir,
		BaseURL:        cfg.BaseURL,
	})
	if err != nil {
		return err
	}

	job := scanners.ColumnScanJob{
		Config:   cfg,
		Reporter: reporter,
		Resume:   cli.resume,
		Reset:    cli.reset,
	}

	if cli.progress {
		job.Progress = utils.NewBarProgressReporter(fmt.Sprintf("Scanning %s.%s", cfg.Table, cfg.Column))
	}

	if utils.IsSsmReference(cfg.Password) {
		resolver, err := utils.NewSsmSecretResolver(ctx)
		if err != nil {
			return err
		}
		job.Secrets = resolver
	}

	if cfg.Checkpoint != "" {
		checkpoints, err := repositories.NewBoltCheckpointRepository(cfg.Checkpoint)
		if err != nil {
			return err
		}
		defer checkpoints.Close()
		job.Checkpoints = checkpoints
	} else if cli.resume || cli.reset {
		return fmt.Errorf("--resume and --reset-checkpoint need --checkpoint")
	}

	result, err := job.Run(ctx)
	if err != nil {
		return err
	}
	log.WithField("offending", len(result.OffendingKeys)).Infof("Finished scanning %s.%s (%s)", cfg.Table, cfg.Column, result.Profile)
	return nil
}
