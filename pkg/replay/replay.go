// Package replay runs a compiled program against a level and judges the
// produced outbox against the level's expected outbox.
package replay

import (
	"fmt"
	"runtime"
	"sync"

	"hrm/replay-go/pkg/level"
	"hrm/replay-go/pkg/machine"
)

// Verdict classifies the outcome of one replay.
type Verdict int

const (
	// VerdictMatch: the program completed and the outbox matched.
	VerdictMatch Verdict = iota
	// VerdictMismatch: the program completed cleanly but produced the
	// wrong outbox. This is a property of the program, not an engine
	// error.
	VerdictMismatch
	// VerdictFailed: the machine halted with a runtime fault.
	VerdictFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictMatch:
		return "match"
	case VerdictMismatch:
		return "mismatch"
	case VerdictFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown_verdict_%d", int(v))
	}
}

// Report describes one finished replay.
type Report struct {
	Verdict  Verdict
	Outbox   []machine.Value
	Expected []machine.Value
	// Diverged is the first index at which the outbox differs from the
	// expected sequence; for a length mismatch it is the length of the
	// shorter sequence. -1 unless Verdict is VerdictMismatch.
	Diverged int
	// Fault is the machine's error, set only for VerdictFailed.
	Fault *machine.RuntimeError
}

// Run replays one program against one level on a fresh machine.
// A machine construction failure (an invalid level) is returned as an
// error distinct from any verdict.
func Run(program *machine.Program, lvl *level.Level) (Report, error) {
	outbox, fault, err := machine.Run(program, lvl.Config(), lvl.Floor.Tiles, lvl.Inbox)
	if err != nil {
		return Report{}, err
	}
	return Judge(outbox, lvl.Expected, fault), nil
}

// Judge builds the report for a finished run. Hosts that drive the
// machine themselves (a tracing stepper, for instance) use this to get
// the same comparison Run applies.
func Judge(outbox, expected []machine.Value, fault *machine.RuntimeError) Report {
	report := Report{Outbox: outbox, Expected: expected, Diverged: -1}
	if fault != nil {
		report.Verdict = VerdictFailed
		report.Fault = fault
		return report
	}
	if at, ok := firstDivergence(outbox, expected); ok {
		report.Verdict = VerdictMismatch
		report.Diverged = at
		return report
	}
	report.Verdict = VerdictMatch
	return report
}

// firstDivergence reports the first index at which the sequences differ.
func firstDivergence(got, want []machine.Value) (int, bool) {
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if !got[i].Equal(want[i]) {
			return i, true
		}
	}
	if len(got) != len(want) {
		return n, true
	}
	return 0, false
}

// Case pairs a compiled program with the level it must solve.
type Case struct {
	Name    string
	Program *machine.Program
	Level   *level.Level
}

// RunAll replays independent cases across a bounded worker pool. Every
// run builds an isolated machine, so the only coordination is handing
// out work; reports land at the index of their case.
func RunAll(cases []Case, workers int) ([]Report, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cases) {
		workers = len(cases)
	}

	reports := make([]Report, len(cases))
	errs := make([]error, len(cases))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i], errs[i] = Run(cases[i].Program, cases[i].Level)
			}
		}()
	}
	for i := range cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("replay: case %d (%s): %w", i, cases[i].Name, err)
		}
	}
	return reports, nil
}
