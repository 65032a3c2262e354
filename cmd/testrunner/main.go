package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/iley/lirc/internal/build"
	"github.com/iley/lirc/internal/codegen"
	"github.com/iley/lirc/internal/config"
	"github.com/iley/lirc/internal/ir"
)

// TestCase represents a single test case
type TestCase struct {
	Name         string
	LirFile      string
	ExpectedFile string
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".lir") {
			baseName := strings.TrimSuffix(filepath.Base(path), ".lir")
			expectedFile := strings.TrimSuffix(path, ".lir") + ".out"

			if _, err := os.Stat(expectedFile); err == nil {
				tests = append(tests, TestCase{
					Name:         baseName,
					LirFile:      path,
					ExpectedFile: expectedFile,
				})
			}
		}

		return nil
	})

	return tests, err
}

// runTest executes a test binary and returns its exit status
func runTest(binaryPath string) (int, error) {
	cmd := exec.Command(binaryPath)
	err := cmd.Run()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return exitError.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

// readExpectedStatus reads the expected exit status from file
func readExpectedStatus(expectedFile string) (int, error) {
	content, err := os.ReadFile(expectedFile)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

type result int

const (
	resultPass result = iota
	resultFail
	resultSkip
)

// runSingleTest runs a single test case and returns its status
func runSingleTest(cfg *config.Config, target codegen.Target, testCase TestCase) (result, string) {
	fmt.Printf("Running test %s... ", testCase.Name)

	binaryPath, err := build.Program(cfg, []string{testCase.LirFile}, build.Options{
		Target: target,
		Mode:   ir.DecodeLines,
		Keep:   true,
	})
	if errors.Is(err, codegen.ErrUnsupportedInstruction) {
		return resultSkip, fmt.Sprintf("not supported on %s", target)
	}
	if err != nil {
		return resultFail, fmt.Sprintf("compilation error: %v", err)
	}

	actualStatus, err := runTest(binaryPath)
	if err != nil {
		return resultFail, fmt.Sprintf("runtime error: %v", err)
	}

	expectedStatus, err := readExpectedStatus(testCase.ExpectedFile)
	if err != nil {
		return resultFail, fmt.Sprintf("error reading expected exit status: %v", err)
	}

	// The kernel keeps only the low 8 bits of the status.
	if actualStatus == expectedStatus&0xff {
		// Test passed - clean up generated files
		cleanupFiles(testCase.LirFile, binaryPath)
		return resultPass, ""
	}

	// Test failed - leave files for inspection
	return resultFail, fmt.Sprintf("exit status mismatch: expected %d, actual %d", expectedStatus&0xff, actualStatus)
}

// cleanupFiles removes the binary and every intermediate file next to it, ignoring any errors
func cleanupFiles(lirFile, binaryPath string) {
	base := strings.TrimSuffix(lirFile, ".lir")
	for _, suffix := range []string{".asm", ".ll", ".o"} {
		os.Remove(base + suffix)
	}
	os.Remove(binaryPath)
}

// findTestCase finds a test case by number or path
func findTestCase(tests []TestCase, identifier string) (*TestCase, error) {
	if strings.Contains(identifier, "/") || strings.HasSuffix(identifier, ".lir") {
		identifier = strings.TrimSuffix(filepath.Base(identifier), ".lir")
		for _, test := range tests {
			if test.Name == identifier {
				return &test, nil
			}
		}
		return nil, fmt.Errorf("test not found: %s", identifier)
	}

	// If identifier is just a number, find test that starts with that number
	for _, test := range tests {
		if strings.HasPrefix(test.Name, identifier+"_") || test.Name == identifier {
			return &test, nil
		}
	}

	return nil, fmt.Errorf("test not found: %s", identifier)
}

func main() {
	cfg := config.Load()
	target, err := codegen.TargetFromName(cfg.Target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	testsDir := "tests"
	tests, err := discoverTests(testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	if len(tests) == 0 {
		fmt.Println("No tests found in tests/ directory")
		return
	}

	// Sort tests by name for consistent ordering
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Name < tests[j].Name
	})

	var testsToRun []TestCase
	if len(os.Args) > 1 {
		testCase, err := findTestCase(tests, os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		testsToRun = []TestCase{*testCase}
		fmt.Printf("Running specific test: %s\n", testCase.Name)
	} else {
		testsToRun = tests
		if len(tests) == 1 {
			fmt.Printf("Found 1 test\n")
		} else {
			fmt.Printf("Found %d tests\n", len(tests))
		}
	}

	passed := 0
	failed := 0
	skipped := 0

	for _, test := range testsToRun {
		status, msg := runSingleTest(cfg, target, test)
		switch status {
		case resultPass:
			fmt.Println("PASS")
			passed++
		case resultSkip:
			fmt.Printf("SKIP - %s\n", msg)
			skipped++
		default:
			fmt.Printf("FAIL - %s\n", msg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed, %d skipped. All good!\n", passed, skipped)
	} else {
		fmt.Printf("Test Results: %d passed, %d skipped, %d failed\n", passed, skipped, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
