package reportstorage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReportStorage places report artifacts in OutputDir, named
// <ArtifactPrefix>_<name>.
type FileReportStorage struct {
	ArtifactPrefix string
	OutputDir      string
}

func CreateFileReportStorage(artifactPrefix, outputDir string) FileReportStorage {
	return FileReportStorage{
		ArtifactPrefix: artifactPrefix,
		OutputDir:      outputDir,
	}
}

// Path returns where the artifact called name is written.
func (s FileReportStorage) Path(name string) string {
	dir := s.OutputDir
	if dir == "" {
		dir = "."
	}
	if s.ArtifactPrefix == "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s", s.ArtifactPrefix, name))
}

// Create opens the artifact for writing, creating the output directory if needed.
func (s FileReportStorage) Create(name string) (*os.File, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return outputFile, nil
}

// Store writes data as the artifact called name and returns its path.
func (s FileReportStorage) Store(name string, data []byte) (string, error) {
	outputFile, err := s.Create(name)
	if err != nil {
		return "", err
	}
	defer outputFile.Close()

	if _, err := outputFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write to output file %s: %w", outputFile.Name(), err)
	}
	return outputFile.Name(), nil
}
