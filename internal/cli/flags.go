package cli

import "jfr/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:    f.ProjectPath,
		ConfigFile:     f.ConfigFile,
		JUnitOutputDir: f.JUnitOutputDir,
		Command:        f.Command,
		NameFilter:     f.NameFilter,
		Stale:          f.Stale,
		RecordHistory:  f.RecordHistory,
		OpenFaills:     f.OpenFaills,
		Verbose:        f.Verbose,
		Debug:          f.Debug,
	}
}
