package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"hrm/replay-go/pkg/level"
	"hrm/replay-go/pkg/replay"
)

func runSuite(args []string) int {
	workers := 0
	path := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--workers":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "hrm suite: --workers requires a count")
				return 2
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "hrm suite: --workers requires a positive count, got %q\n", args[i])
				return 2
			}
			workers = n
		default:
			if path != "" {
				fmt.Fprintf(os.Stderr, "hrm suite: unexpected argument %q\n", args[i])
				return 2
			}
			path = args[i]
		}
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "hrm suite: expected a suite file")
		return 2
	}

	suite, err := level.LoadSuite(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm suite: %v\n", err)
		return 2
	}

	cases := make([]replay.Case, 0, len(suite.Cases))
	for _, sc := range suite.Cases {
		programPath := sc.Program
		if !filepath.IsAbs(programPath) {
			programPath = filepath.Join(suite.Dir, programPath)
		}
		program, err := loadProgram(programPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hrm suite: %v\n", err)
			return 2
		}
		lvl, err := level.Resolve(sc.Level, suite.Dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hrm suite: %v\n", err)
			return 2
		}
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("%s vs %s", sc.Program, lvl.Name)
		}
		cases = append(cases, replay.Case{Name: name, Program: program, Level: lvl})
	}

	reports, err := replay.RunAll(cases, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm suite: %v\n", err)
		return 2
	}

	failures := 0
	for i, report := range reports {
		printReport(cases[i].Name, report)
		if report.Verdict != replay.VerdictMatch {
			failures++
		}
	}
	fmt.Printf("%d/%d cases passed\n", len(cases)-failures, len(cases))
	if failures > 0 {
		return 1
	}
	return 0
}
