package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"jfr/internal/domain"
)

// Save writes the retry report to the configured JSON output file.
func (s *JSONStorage) Save(report *domain.RetryReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal retry report: %w", err)
	}

	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write retry report: %w", err)
	}
	return nil
}

// Load reads the last retry report from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RetryReport, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read retry report: %w", err)
	}
	var report domain.RetryReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse retry report: %w", err)
	}
	return &report, nil
}
