package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/session"
	"gopkg.in/yaml.v3"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes walkthroughs against a running adventure-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	StoryOverride     string // If set, overrides the story for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite executes a complete test suite on a fresh game
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	story := suite.Story
	if r.StoryOverride != "" {
		story = r.StoryOverride
	}

	var created handlers.TurnResponse
	if err := postJSON(ctx, r.Client, r.BaseURL+"/v1/gamestate", handlers.CreateGameStateRequest{Story: story}, http.StatusCreated, &created); err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameState = created.GameStateID

	snapshot, err := r.saveGame(ctx, created.GameStateID)
	if err != nil {
		result.Error = fmt.Errorf("failed to snapshot new game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, created.GameStateID, step, snapshot)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, gameStateID uuid.UUID, step TestStep, snapshot []byte) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	if result.StepName == "" {
		result.StepName = step.Input
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var narration string
	switch {
	case step.Input == ResetGameStateInput:
		var resp handlers.TurnResponse
		url := fmt.Sprintf("%s/v1/gamestate/%s/restore", r.BaseURL, gameStateID)
		if err := postJSON(ctx, r.Client, url, handlers.RestoreRequest{Blob: snapshot}, http.StatusOK, &resp); err != nil {
			result.Error = fmt.Errorf("failed to reset game: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		result.IsReset = true
		narration = resp.Narration

	case step.Async:
		stream, err := OpenEventStream(ctx, r.BaseURL, gameStateID)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
		defer stream.Close()

		requestID, err := PostTurnAsync(ctx, r.Client, r.BaseURL, gameStateID, step.Input)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
		result.RequestID = requestID

		turn, err := stream.WaitForTurn(requestID)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
		narration = turn.Narration

	default:
		resp, err := PostTurn(ctx, r.Client, r.BaseURL, gameStateID, step.Input)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
		narration = resp.Narration
	}
	result.Narration = narration

	sum, err := GetGameState(ctx, r.Client, r.BaseURL, gameStateID)
	if err != nil {
		result.Error = fmt.Errorf("failed to get game state after step: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if err := CheckExpectations(step.Expectations, sum, narration); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) saveGame(ctx context.Context, gameStateID uuid.UUID) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/gamestate/%s/save", r.BaseURL, gameStateID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("save endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	var save handlers.SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&save); err != nil {
		return nil, fmt.Errorf("failed to decode save: %w", err)
	}
	return save.Blob, nil
}

// CheckExpectations validates a step's expectations against the game after it ran
func CheckExpectations(exp Expectations, sum *session.GameSummary, narration string) error {
	if exp.Location != nil && sum.Location != *exp.Location {
		return fmt.Errorf("expected location %s, got %s", *exp.Location, sum.Location)
	}
	if exp.Score != nil && sum.Score != *exp.Score {
		return fmt.Errorf("expected score %d, got %d", *exp.Score, sum.Score)
	}
	if exp.Moves != nil && sum.Moves != *exp.Moves {
		return fmt.Errorf("expected moves %d, got %d", *exp.Moves, sum.Moves)
	}
	if exp.Deaths != nil && sum.Deaths != *exp.Deaths {
		return fmt.Errorf("expected deaths %d, got %d", *exp.Deaths, sum.Deaths)
	}
	if exp.Ended != nil && sum.Ended != *exp.Ended {
		return fmt.Errorf("expected ended to be %t, got %t", *exp.Ended, sum.Ended)
	}

	// Full inventory check (order independent)
	if len(exp.Inventory) > 0 {
		expected := make(map[string]bool)
		for _, item := range exp.Inventory {
			expected[item] = true
		}
		actual := make(map[string]bool)
		for _, item := range sum.Inventory {
			actual[item] = true
		}
		for item := range expected {
			if !actual[item] {
				return fmt.Errorf("expected inventory to contain '%s', but it's missing. Actual inventory: %v", item, sum.Inventory)
			}
		}
		for item := range actual {
			if !expected[item] {
				return fmt.Errorf("inventory contains unexpected item '%s'. Expected inventory: %v, Actual: %v", item, exp.Inventory, sum.Inventory)
			}
		}
	}

	lower := strings.ToLower(narration)
	for _, want := range exp.NarrationContains {
		if !strings.Contains(lower, strings.ToLower(want)) {
			return fmt.Errorf("expected narration to contain '%s', got %q", want, narration)
		}
	}
	for _, unwanted := range exp.NarrationNotContains {
		if strings.Contains(lower, strings.ToLower(unwanted)) {
			return fmt.Errorf("expected narration to NOT contain '%s', but it did", unwanted)
		}
	}

	if exp.NarrationRegex != "" {
		matched, err := regexp.MatchString(exp.NarrationRegex, narration)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("narration didn't match regex pattern: %s", exp.NarrationRegex)
		}
	}
	return nil
}
