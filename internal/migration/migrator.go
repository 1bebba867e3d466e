package migration

import "context"

// Migrator prepares the retry history database
type Migrator interface {
	Run(ctx context.Context) error
}
