package storage

import (
	"context"

	"jfr/internal/config"
	"jfr/internal/domain"
)

// Storage persists and loads retry reports (e.g. for the faills viewer).
type Storage interface {
	Save(report *domain.RetryReport) error
	Load() (*domain.RetryReport, error)
}

// Recorder appends retry reports to a long-lived history
type Recorder interface {
	Record(ctx context.Context, report *domain.RetryReport) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
