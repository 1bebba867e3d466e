package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"jfr/internal/config"
)

// DatabaseManager manages the retry history database
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// EnsureDatabase checks if the history database exists and creates it if it
// doesn't. It reports whether the database was created.
func (dm *DatabaseManager) EnsureDatabase(ctx context.Context) (bool, error) {
	dbName := dm.config.Database.Name
	if !isValidDatabaseName(dbName) {
		return false, fmt.Errorf("invalid database name: %s", dbName)
	}

	// Connect to MySQL server (without specifying database)
	db, err := sql.Open("mysql", dm.config.Database.DSN(false))
	if err != nil {
		return false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		return false, fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, db, dbName)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return false, nil
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return true, nil
}

// Open connects to the history database itself
func (dm *DatabaseManager) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("mysql", dm.config.Database.DSN(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	return db, nil
}

// databaseExists checks if a database exists
func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	// Check for SQL injection patterns
	upperName := strings.ToUpper(name)
	for _, keyword := range []string{"--", "DROP", "DELETE", "TRUNCATE"} {
		if strings.Contains(upperName, keyword) {
			return false
		}
	}
	return true
}
