package runner

import (
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a scripted conversation with Santa.
// It can either hold Steps, or be a sequence that references other Cases.
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for sequences (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one player choice and what should follow from it. Pick selects
// from the options currently on screen (1-based); otherwise Say and Points
// are sent as a custom option.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Pick         int          `json:"pick,omitempty"`
	Say          string       `json:"say,omitempty"`
	Points       int          `json:"points,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	// Outcome is one of reply, extraction_failed, transport_failed,
	// configuration_failed.
	Outcome  string `json:"outcome,omitempty"`
	Score    *int   `json:"score,omitempty"`
	MinScore *int   `json:"min_score,omitempty"`
	MaxScore *int   `json:"max_score,omitempty"`
	Victory  *bool  `json:"victory,omitempty"`

	MinOptions *int `json:"min_options,omitempty"`
	MaxOptions *int `json:"max_options,omitempty"`

	// Response Analysis
	ResponseContains    []string `json:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty"`
	ResponseMinLength   *int     `json:"response_min_length,omitempty"`
	ResponseMaxLength   *int     `json:"response_max_length,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	Outcome      string
	Strategy     string
	// RequestMessages is how many turns were sent, window plus the pick.
	RequestMessages int
	// RawReply is the model's unparsed text, kept for failure reports.
	RawReply string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	RunID    uuid.UUID // tags the suite's log lines
}
