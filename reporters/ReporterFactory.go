package reporters

import (
	"fmt"
)

// ReporterOptions carries what the individual reporters need from the CLI.
type ReporterOptions struct {
	ArtifactPrefix string
	OutputDir      string
	BaseURL        string
}

func CreateReporter(reportFormat string, options ReporterOptions) (Reporter, error) {
	switch reportFormat {
	case "", "console":
		return NewConsoleReporter(), nil
	case "json":
		return JsonReporter{ArtifactPrefix: options.ArtifactPrefix, OutputDir: options.OutputDir}, nil
	case "xlsx":
		return XlsxReporter{ArtifactPrefix: options.ArtifactPrefix, OutputDir: options.OutputDir}, nil
	case "http":
		if options.BaseURL == "" {
			return nil, fmt.Errorf("http report needs a base url")
		}
		return NewDefaultHttpReporter(options.BaseURL), nil
	}

	return nil, fmt.Errorf("unknown report format: %s", reportFormat)
}
