package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string

	// Host test runner invocation, e.g. ["npx", "jest"]
	Command []string

	// Known-flaky catalog
	ConfigFile string

	// Report settings
	JUnitOutputDirectory string
	JUnitFileName        string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	RunDir         string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Retry history database
	Database Database

	// Command flags
	Flags Flags
}

// Database holds the connection settings of the retry history database
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath    string
	ConfigFile     string
	JUnitOutputDir string
	Command        string
	NameFilter     string
	Stale          bool
	RecordHistory  bool
	OpenFaills     bool
	Verbose        bool
	Debug          bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:          DefaultProjectPath,
		ConfigFile:           DefaultConfigFile,
		JUnitOutputDirectory: DefaultJUnitOutputDirectory,
		JUnitFileName:        DefaultJUnitFileName,
		OutputJSONFile:       DefaultOutputJSONFile,
		OutputJSONDir:        DefaultOutputJSONDir,
		RunDir:               DefaultRunDir,
		Database: Database{
			Host: "127.0.0.1",
			Port: "3306",
			User: "root",
			Name: DefaultHistoryDatabase,
		},
	}
	cfg.Command = make([]string, len(DefaultCommand))
	copy(cfg.Command, DefaultCommand)
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config and applies the project's .env, the environment and
// then flags, in increasing order of precedence.
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))

	cfg.applyEnv()
	cfg.applyFlags()

	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JFR_CONFIG_FILE"); v != "" {
		c.ConfigFile = v
	}
	if v := os.Getenv("JFR_JUNIT_OUTPUT_DIR"); v != "" {
		c.JUnitOutputDirectory = v
	}
	if v := os.Getenv("JFR_COMMAND"); v != "" {
		c.Command = strings.Fields(v)
	}
	if v := os.Getenv("JFR_PATHS_TO_IGNORE"); v != "" {
		c.PathsToIgnore = splitList(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		c.Database.Port = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_DATABASE"); v != "" {
		c.Database.Name = v
	}
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) applyFlags() {
	if c.Flags.ConfigFile != "" {
		c.ConfigFile = c.Flags.ConfigFile
	}
	if c.Flags.JUnitOutputDir != "" {
		c.JUnitOutputDirectory = c.Flags.JUnitOutputDir
	}
	if fields := strings.Fields(c.Flags.Command); len(fields) > 0 {
		c.Command = fields
	}
}

// resolve joins p onto the project path unless it is absolute
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}

// GetConfigFilePath returns the location of the known-flaky catalog
func (c *Config) GetConfigFilePath() string {
	return c.resolve(c.ConfigFile)
}

// GetJUnitOutputDir returns the directory the final report is moved to
func (c *Config) GetJUnitOutputDir() string {
	return c.resolve(c.JUnitOutputDirectory)
}

// GetJUnitFilePath returns where the report is generated before it is moved
func (c *Config) GetJUnitFilePath() string {
	return filepath.Join(c.ProjectPath, c.JUnitFileName)
}

// GetRunDir returns the directory the host runner writes its artifacts to
func (c *Config) GetRunDir() string {
	return c.resolve(c.RunDir)
}

// GetRootDir returns the absolute project root used to relativize test file paths
func (c *Config) GetRootDir() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return c.ProjectPath
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DSN returns the MySQL data source name. The database name is omitted when
// withDatabase is false, for server-level statements.
func (d Database) DSN(withDatabase bool) string {
	name := ""
	if withDatabase {
		name = d.Name
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, name)
}
