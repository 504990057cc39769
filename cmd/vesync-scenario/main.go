// Command vesync-scenario replays scripted VeSync client sessions against a
// running twin-vesync and reports each step.
//
// Usage:
//
//	go run ./cmd/vesync-scenario                       # builtin smoke scenarios
//	go run ./cmd/vesync-scenario --url http://localhost:8000 ./scenarios/
//	go run ./cmd/vesync-scenario ./scenarios/login.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wondertwin-ai/twin-vesync/internal/scenario"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "Base URL of the running twin")
	flag.Parse()

	if err := run(*baseURL, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(baseURL string, args []string) error {
	scenarios, err := load(args)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(baseURL)
	if ok, detail := runner.Ready(); !ok {
		return fmt.Errorf("twin at %s is not healthy: %s", baseURL, detail)
	}

	totalPassed, totalFailed := 0, 0
	for _, s := range scenarios {
		result, err := runner.Run(s)
		p, f := printScenarioResult(s, result, err)
		totalPassed += p
		totalFailed += f
	}

	fmt.Println()
	fmt.Printf("Results: %d passed, %d failed, %d total\n", totalPassed, totalFailed, totalPassed+totalFailed)
	if totalFailed > 0 {
		return fmt.Errorf("%d step(s) failed", totalFailed)
	}
	return nil
}

// load reads a scenario file, a directory of scenarios, or the builtin set.
func load(args []string) ([]*scenario.Scenario, error) {
	if len(args) == 0 {
		return scenario.Builtin()
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path %s: %w", path, err)
	}
	if info.IsDir() {
		return scenario.LoadDir(path)
	}
	s, err := scenario.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return []*scenario.Scenario{s}, nil
}

// printScenarioResult prints one scenario's steps and returns pass/fail counts.
func printScenarioResult(s *scenario.Scenario, result *scenario.Result, err error) (passed, failed int) {
	fmt.Printf("\n--- %s ---\n", s.Name)
	if s.Description != "" {
		fmt.Printf("    %s\n", s.Description)
	}
	fmt.Println()

	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
		return 0, 1
	}

	for _, sr := range result.Steps {
		if sr.Passed {
			fmt.Printf("  PASS  %-50s (%s)\n", sr.Name, sr.Duration.Round(time.Millisecond))
			passed++
		} else {
			fmt.Printf("  FAIL  %-50s (%s)\n", sr.Name, sr.Duration.Round(time.Millisecond))
			fmt.Printf("        %s\n", sr.Error)
			failed++
		}
	}

	fmt.Printf("\n  Scenario: %s (%s)\n", passFailLabel(result.Passed), result.Duration.Round(time.Millisecond))
	return
}

func passFailLabel(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}
