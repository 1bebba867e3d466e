package parser

import "jfr/internal/domain"

// Parser reads a host runner artifact into a run result
type Parser interface {
	Parse(artifactPath string) (*domain.RunResult, error)
}
