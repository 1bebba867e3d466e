package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is the default known-flaky catalog, relative to the project
	DefaultConfigFile = "jest.flakyRetry.json"
	// DefaultJUnitOutputDirectory is where the final junit.xml is moved to
	DefaultJUnitOutputDirectory = "build/results/unit"
	// DefaultJUnitFileName is the name of the generated report
	DefaultJUnitFileName = "junit.xml"
	// DefaultOutputJSONFile is the default retry report file name
	DefaultOutputJSONFile = "flaky-results.json"
	// DefaultOutputJSONDir is the default retry report directory
	DefaultOutputJSONDir = "storage"
	// DefaultRunDir holds the host runner's artifacts
	DefaultRunDir = ".jfr"
	// DefaultHistoryDatabase is the MySQL schema used for retry history
	DefaultHistoryDatabase = "jfr_history"
)

// DefaultCommand is the host test runner invocation
var DefaultCommand = []string{"npx", "jest"}

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"node_modules",
	"build",
	"coverage",
	"dist",
	"storage",
}
