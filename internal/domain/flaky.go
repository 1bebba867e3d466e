package domain

// FlakyDeclaration is one entry of the known-flaky catalog.
//
// An empty FullName matches every case in the file. A nil FailureMessages
// matches any failure text; a non-nil slice requires at least one of its
// entries to be a prefix of at least one observed failure message.
type FlakyDeclaration struct {
	TestFilePath    string   `json:"testFilePath" yaml:"testFilePath"`
	FullName        string   `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	FailureMessages []string `json:"failureMessages,omitempty" yaml:"failureMessages,omitempty"`
}

// RetryCandidate is a failed test case that matched the catalog
type RetryCandidate struct {
	TestFilePath         string // as reported by the host runner
	RelativeTestFilePath string // relative to the project root
	Outcome              TestCaseOutcome
}
