package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special input values that trigger non-turn actions
const (
	// ResetGameStateInput restores the snapshot taken right after the game was created.
	ResetGameStateInput = "RESET_GAMESTATE"
)

// TestSuite defines a complete walkthrough against one story.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `yaml:"name"`
	Story string     `yaml:"story,omitempty"` // Used for regular tests
	Steps []TestStep `yaml:"steps,omitempty"` // Used for regular tests
	Cases []string   `yaml:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one player input and its expected outcome.
// Async steps go through the turn queue and wait for the turn.completed event.
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Input        string       `yaml:"input"`
	Async        bool         `yaml:"async,omitempty"`
	Expectations Expectations `yaml:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Location  *string  `yaml:"location,omitempty"`
	Score     *int     `yaml:"score,omitempty"`
	Moves     *int     `yaml:"moves,omitempty"`
	Deaths    *int     `yaml:"deaths,omitempty"`
	Ended     *bool    `yaml:"ended,omitempty"`
	Inventory []string `yaml:"inventory,omitempty"` // Full inventory contents (order independent)

	// Narration analysis
	NarrationContains    []string `yaml:"narration_contains,omitempty"`
	NarrationNotContains []string `yaml:"narration_not_contains,omitempty"`
	NarrationRegex       string   `yaml:"narration_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName  string
	Success   bool
	Error     error
	Duration  time.Duration
	Narration string
	RequestID string
	IsReset   bool // True for RESET_GAMESTATE steps, which do not count toward pass/fail metrics
}

// TestJob represents a loaded test suite
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	GameState uuid.UUID // ID of the game used for this run
}
