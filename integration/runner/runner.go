package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/science-santa/internal/game"
	"github.com/jwebster45206/science-santa/internal/services"
	"github.com/jwebster45206/science-santa/pkg/dialogue"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted conversations against an LLM provider
type Runner struct {
	LLM               services.LLMService
	Settings          game.Settings
	Timeout           time.Duration // per step
	Logger            func(format string, args ...interface{})
	SlogLogger        *slog.Logger
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(llm services.LLMService) *Runner {
	return &Runner{
		LLM:               llm,
		Timeout:           60 * time.Second,
		Logger:            func(string, ...interface{}) {},
		SlogLogger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
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

		// a sequence may reference another sequence
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite plays a suite from a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
		RunID:   uuid.Must(uuid.NewV7()),
	}

	log := r.SlogLogger.With("suite", suite.Name, "run_id", result.RunID.String())
	ctrl := game.NewController(r.LLM, game.NopPresenter{}, log, r.Settings)

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, ctrl, suite.Name, step)
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

func (r *Runner) runStep(ctx context.Context, ctrl *game.Controller, suiteName string, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		TestName: suiteName,
		StepName: step.Name,
	}

	option, err := chooseOption(ctrl.Snapshot().Options, step)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	turn, ok := ctrl.Begin(option)
	if !ok {
		result.Error = fmt.Errorf("option was ignored: a turn is already in flight")
		result.Duration = time.Since(start)
		return result
	}

	result.RequestMessages = len(turn.Request().Messages)

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	outcome := turn.Run(stepCtx)
	cancel()
	ctrl.Finish(outcome)

	snap := ctrl.Snapshot()
	result.ResponseText = snap.History[len(snap.History)-1].Text
	result.Outcome = outcome.Kind.String()
	result.Strategy = outcome.Strategy.String()
	result.RawReply = outcome.Raw
	result.Duration = time.Since(start)

	if err := checkExpectations(step.Expectations, outcome, snap.Score, snap.VictoryShown, snap.Options, result.ResponseText); err != nil {
		result.Error = err
		return result
	}

	result.Success = true
	return result
}

// chooseOption resolves a step to the option the player would click.
func chooseOption(options []dialogue.Option, step TestStep) (dialogue.Option, error) {
	if step.Pick > 0 {
		if step.Pick > len(options) {
			return dialogue.Option{}, fmt.Errorf("pick %d requested but only %d options are available", step.Pick, len(options))
		}
		return options[step.Pick-1], nil
	}
	if step.Say == "" {
		return dialogue.Option{}, fmt.Errorf("step needs either pick or say")
	}
	return dialogue.Option{Text: step.Say, Points: step.Points}, nil
}

func checkExpectations(exp Expectations, outcome game.Outcome, score int, victory bool, options []dialogue.Option, responseText string) error {
	var failures []string

	if exp.Outcome != "" && exp.Outcome != outcome.Kind.String() {
		failures = append(failures, fmt.Sprintf("outcome: expected %s, got %s (%v)", exp.Outcome, outcome.Kind, outcome.Err))
	}
	if exp.Score != nil && *exp.Score != score {
		failures = append(failures, fmt.Sprintf("score: expected %d, got %d", *exp.Score, score))
	}
	if exp.MinScore != nil && score < *exp.MinScore {
		failures = append(failures, fmt.Sprintf("score: expected at least %d, got %d", *exp.MinScore, score))
	}
	if exp.MaxScore != nil && score > *exp.MaxScore {
		failures = append(failures, fmt.Sprintf("score: expected at most %d, got %d", *exp.MaxScore, score))
	}
	if exp.Victory != nil && *exp.Victory != victory {
		failures = append(failures, fmt.Sprintf("victory: expected %t, got %t", *exp.Victory, victory))
	}
	if exp.MinOptions != nil && len(options) < *exp.MinOptions {
		failures = append(failures, fmt.Sprintf("options: expected at least %d, got %d", *exp.MinOptions, len(options)))
	}
	if exp.MaxOptions != nil && len(options) > *exp.MaxOptions {
		failures = append(failures, fmt.Sprintf("options: expected at most %d, got %d", *exp.MaxOptions, len(options)))
	}

	lower := strings.ToLower(responseText)
	for _, want := range exp.ResponseContains {
		if !strings.Contains(lower, strings.ToLower(want)) {
			failures = append(failures, fmt.Sprintf("response should contain %q", want))
		}
	}
	for _, unwanted := range exp.ResponseNotContains {
		if strings.Contains(lower, strings.ToLower(unwanted)) {
			failures = append(failures, fmt.Sprintf("response should not contain %q", unwanted))
		}
	}
	if exp.ResponseRegex != "" {
		re, err := regexp.Compile(exp.ResponseRegex)
		if err != nil {
			failures = append(failures, fmt.Sprintf("invalid response_regex: %v", err))
		} else if !re.MatchString(responseText) {
			failures = append(failures, fmt.Sprintf("response does not match %q", exp.ResponseRegex))
		}
	}
	if exp.ResponseMinLength != nil && len(responseText) < *exp.ResponseMinLength {
		failures = append(failures, fmt.Sprintf("response length %d below minimum %d", len(responseText), *exp.ResponseMinLength))
	}
	if exp.ResponseMaxLength != nil && len(responseText) > *exp.ResponseMaxLength {
		failures = append(failures, fmt.Sprintf("response length %d above maximum %d", len(responseText), *exp.ResponseMaxLength))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}
