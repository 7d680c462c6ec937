package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"hrm/replay-go/pkg/level"
	"hrm/replay-go/pkg/machine"
	"hrm/replay-go/pkg/parser"
	"hrm/replay-go/pkg/replay"
)

type runOptions struct {
	levelNumber int
	levelFile   string
	trace       bool
	program     string
}

func parseRunArgs(args []string) (*runOptions, error) {
	opts := &runOptions{levelNumber: -1}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--level":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--level requires a level number")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, fmt.Errorf("--level requires a level number, got %q", args[i])
			}
			opts.levelNumber = n
		case "--level-file":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--level-file requires a path")
			}
			opts.levelFile = args[i]
		case "--trace":
			opts.trace = true
		default:
			if strings.HasPrefix(args[i], "-") {
				return nil, fmt.Errorf("unknown flag %q", args[i])
			}
			if opts.program != "" {
				return nil, fmt.Errorf("unexpected argument %q", args[i])
			}
			opts.program = args[i]
		}
	}
	if opts.program == "" {
		return nil, fmt.Errorf("no program file given")
	}
	if (opts.levelNumber < 0) == (opts.levelFile == "") {
		return nil, fmt.Errorf("exactly one of --level or --level-file is required")
	}
	return opts, nil
}

func resolveRunLevel(opts *runOptions) (*level.Level, error) {
	if opts.levelFile == "" {
		return level.Builtin(opts.levelNumber)
	}
	path := opts.levelFile
	if rest, ok := strings.CutPrefix(path, "pack:"); ok {
		resolved, err := resolvePackPath(rest)
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return level.Load(path)
}

func runReplay(args []string) int {
	opts, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm run: %v\n", err)
		return 2
	}

	program, err := loadProgram(opts.program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm run: %v\n", err)
		return 2
	}
	lvl, err := resolveRunLevel(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm run: %v\n", err)
		return 2
	}

	var report replay.Report
	if opts.trace {
		report, err = traceReplay(program, lvl)
	} else {
		report, err = replay.Run(program, lvl)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm run: %v\n", err)
		return 2
	}

	printReport(fmt.Sprintf("%s vs %s", opts.program, lvl.Name), report)
	if report.Verdict != replay.VerdictMatch {
		return 1
	}
	return 0
}

// traceReplay drives the machine one step at a time, printing each
// executed instruction, then judges the outbox the same way replay.Run
// does.
func traceReplay(program *machine.Program, lvl *level.Level) (replay.Report, error) {
	m, err := machine.New(program, lvl.Config(), lvl.Floor.Tiles, lvl.Inbox)
	if err != nil {
		return replay.Report{}, err
	}
	for attempt := 1; !m.Halted(); attempt++ {
		pc := m.PC()
		if pc < 0 || pc >= len(program.Instructions) {
			break
		}
		in := program.Instructions[pc]
		m.Step()
		hands := "-"
		if v, ok := m.Hands(); ok {
			hands = v.String()
		}
		fmt.Printf("step %-5d pc=%-4d %-14s hands=%s\n", attempt, pc, in, hands)
	}
	m.Run()
	return replay.Judge(m.Outbox(), lvl.Expected, m.Fault()), nil
}

func loadProgram(path string) (*machine.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	program, err := parser.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "hrm check: expected exactly one program file")
		return 2
	}
	if _, err := loadProgram(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "hrm check: %v\n", err)
		return 1
	}
	fmt.Printf("%s: ok\n", args[0])
	return 0
}

func runFormat(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "hrm fmt: expected exactly one program file")
		return 2
	}
	program, err := loadProgram(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm fmt: %v\n", err)
		return 1
	}
	fmt.Print(parser.Format(program))
	return 0
}

func runLevels(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "hrm levels takes no arguments")
		return 2
	}
	for _, lvl := range level.Builtins() {
		fmt.Printf("%3d  %-20s inbox %2d values, floor %2d tiles\n",
			lvl.Number, lvl.Name, len(lvl.Inbox), lvl.Floor.Size)
	}
	return 0
}

func printReport(name string, report replay.Report) {
	switch report.Verdict {
	case replay.VerdictMatch:
		fmt.Printf("%s: %s\n", name, verdictLabel("match", colorGreen))
		fmt.Printf("  outbox: %s\n", formatValues(report.Outbox))
	case replay.VerdictMismatch:
		fmt.Printf("%s: %s at index %d\n", name, verdictLabel("mismatch", colorRed), report.Diverged)
		fmt.Printf("  expected: %s\n", formatValues(report.Expected))
		fmt.Printf("  got:      %s\n", formatValues(report.Outbox))
	case replay.VerdictFailed:
		fmt.Printf("%s: %s: %v\n", name, verdictLabel("failed", colorRed), report.Fault)
		fmt.Printf("  outbox so far: %s\n", formatValues(report.Outbox))
	}
}

func formatValues(values []machine.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

const (
	colorGreen = "\x1b[32m"
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

func verdictLabel(text, color string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return color + text + colorReset
}
