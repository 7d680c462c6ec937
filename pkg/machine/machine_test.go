package machine

import (
	"reflect"
	"testing"
)

var testConfig = Config{FloorSize: 16, ValueBound: 999, StepLimit: 1000}

func runProgram(t *testing.T, instrs []Instruction, cfg Config, init map[int]Value, inbox []Value) ([]Value, *RuntimeError) {
	t.Helper()
	program := &Program{Instructions: instrs}
	out, fault, err := Run(program, cfg, init, inbox)
	if err != nil {
		t.Fatalf("Run returned setup error: %v", err)
	}
	return out, fault
}

func wantFault(t *testing.T, fault *RuntimeError, kind ErrorKind) {
	t.Helper()
	if fault == nil {
		t.Fatalf("expected %s fault, run completed cleanly", kind)
	}
	if fault.Kind != kind {
		t.Fatalf("fault kind = %s, want %s (%v)", fault.Kind, kind, fault)
	}
}

func wantClean(t *testing.T, fault *RuntimeError) {
	t.Helper()
	if fault != nil {
		t.Fatalf("expected clean completion, got %v", fault)
	}
}

func TestIdentityPassthrough(t *testing.T) {
	inboxes := [][]Value{
		nil,
		{Num(0)},
		{Num(1), Num(-2), Num(3)},
		{Char('a'), Num(7), Char('z'), Char('a')},
	}
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpOutbox},
		{Op: OpJump, Target: 0, Label: "a"},
	}
	for _, inbox := range inboxes {
		out, fault := runProgram(t, program, testConfig, nil, inbox)
		wantClean(t, fault)
		if len(inbox) == 0 && len(out) == 0 {
			continue
		}
		if !reflect.DeepEqual(out, inbox) {
			t.Fatalf("outbox = %v, want %v", out, inbox)
		}
	}
}

func TestPairSumScenario(t *testing.T) {
	// INBOX / COPYTO 0 / INBOX / ADD 0 / OUTBOX / JUMP start
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpCopyTo, Tile: 0},
		{Op: OpInbox},
		{Op: OpAdd, Tile: 0},
		{Op: OpOutbox},
		{Op: OpJump, Target: 0, Label: "a"},
	}

	out, fault := runProgram(t, program, testConfig, nil, []Value{Num(2), Num(3), Num(4), Num(5)})
	wantClean(t, fault)
	if want := []Value{Num(5), Num(9)}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}

	// A letter in the second slot faults before anything is emitted.
	out, fault = runProgram(t, program, testConfig, nil, []Value{Num(2), Char('a')})
	wantFault(t, fault, ErrTypeMismatch)
	if fault.Instruction != 3 {
		t.Fatalf("fault instruction = %d, want 3 (the ADD)", fault.Instruction)
	}
	if len(out) != 0 {
		t.Fatalf("outbox = %v, want empty", out)
	}
}

func TestUnconditionalLoopHitsStepLimit(t *testing.T) {
	program := []Instruction{{Op: OpJump, Target: 0, Label: "a"}}
	cfg := testConfig
	cfg.StepLimit = 50
	_, fault := runProgram(t, program, cfg, nil, nil)
	wantFault(t, fault, ErrStepLimitExceeded)
	if fault.Step != 51 {
		t.Fatalf("fault step = %d, want 51", fault.Step)
	}
}

func TestIndirectResolvesOnEveryExecution(t *testing.T) {
	// The same COPYFROM [9] runs twice; bumping tile 9 in between must
	// change the effective address.
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpCopyFrom, Mode: ModeIndirect, Tile: 9},
		{Op: OpOutbox},
		{Op: OpBumpUp, Tile: 9},
		{Op: OpJump, Target: 0, Label: "a"},
	}
	init := map[int]Value{
		9: Num(0),
		0: Char('x'),
		1: Char('y'),
	}
	out, fault := runProgram(t, program, testConfig, init, []Value{Num(0), Num(0)})
	wantClean(t, fault)
	if want := []Value{Char('x'), Char('y')}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}
}

func TestFaultTable(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instruction
		init   map[int]Value
		inbox  []Value
		kind   ErrorKind
	}{
		{
			name:   "outbox with empty hands",
			instrs: []Instruction{{Op: OpOutbox}},
			kind:   ErrEmptyHands,
		},
		{
			name:   "copyto with empty hands",
			instrs: []Instruction{{Op: OpCopyTo, Tile: 0}},
			kind:   ErrEmptyHands,
		},
		{
			name:   "copyfrom empty tile",
			instrs: []Instruction{{Op: OpCopyFrom, Tile: 3}},
			kind:   ErrTileEmpty,
		},
		{
			name:   "add against empty tile",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpAdd, Tile: 3}},
			inbox:  []Value{Num(1)},
			kind:   ErrTileEmpty,
		},
		{
			name:   "add letter tile",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpAdd, Tile: 0}},
			init:   map[int]Value{0: Char('q')},
			inbox:  []Value{Num(1)},
			kind:   ErrTypeMismatch,
		},
		{
			name:   "sub two letters",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpSub, Tile: 0}},
			init:   map[int]Value{0: Char('a')},
			inbox:  []Value{Char('b')},
			kind:   ErrTypeMismatch,
		},
		{
			name:   "bump letter tile",
			instrs: []Instruction{{Op: OpBumpUp, Tile: 0}},
			init:   map[int]Value{0: Char('q')},
			kind:   ErrTypeMismatch,
		},
		{
			name:   "bump empty tile",
			instrs: []Instruction{{Op: OpBumpDown, Tile: 0}},
			kind:   ErrTileEmpty,
		},
		{
			name:   "add overflow",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpAdd, Tile: 0}},
			init:   map[int]Value{0: Num(1)},
			inbox:  []Value{Num(999)},
			kind:   ErrOverflow,
		},
		{
			name:   "sub underflow",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpSub, Tile: 0}},
			init:   map[int]Value{0: Num(1)},
			inbox:  []Value{Num(-999)},
			kind:   ErrOverflow,
		},
		{
			name:   "bump past bound",
			instrs: []Instruction{{Op: OpBumpUp, Tile: 0}},
			init:   map[int]Value{0: Num(999)},
			kind:   ErrOverflow,
		},
		{
			name:   "direct address outside floor",
			instrs: []Instruction{{Op: OpCopyFrom, Tile: 16}},
			kind:   ErrInvalidAddress,
		},
		{
			name:   "indirect through empty tile",
			instrs: []Instruction{{Op: OpCopyFrom, Mode: ModeIndirect, Tile: 0}},
			kind:   ErrTileEmpty,
		},
		{
			name:   "indirect through letter",
			instrs: []Instruction{{Op: OpCopyFrom, Mode: ModeIndirect, Tile: 0}},
			init:   map[int]Value{0: Char('p')},
			kind:   ErrTypeMismatch,
		},
		{
			name:   "indirect through negative number",
			instrs: []Instruction{{Op: OpCopyFrom, Mode: ModeIndirect, Tile: 0}},
			init:   map[int]Value{0: Num(-1)},
			kind:   ErrInvalidAddress,
		},
		{
			name:   "indirect past floor end",
			instrs: []Instruction{{Op: OpCopyFrom, Mode: ModeIndirect, Tile: 0}},
			init:   map[int]Value{0: Num(16)},
			kind:   ErrInvalidAddress,
		},
		{
			name:   "conditional jump with empty hands",
			instrs: []Instruction{{Op: OpJumpIfZero, Target: 0, Label: "a"}},
			kind:   ErrEmptyHands,
		},
		{
			name:   "conditional jump on letter",
			instrs: []Instruction{{Op: OpInbox}, {Op: OpJumpIfNegative, Target: 0, Label: "a"}},
			inbox:  []Value{Char('a')},
			kind:   ErrTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fault := runProgram(t, tt.instrs, testConfig, tt.init, tt.inbox)
			wantFault(t, fault, tt.kind)
		})
	}
}

func TestOutboxKeepsHands(t *testing.T) {
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpOutbox},
		{Op: OpOutbox},
	}
	out, fault := runProgram(t, program, testConfig, nil, []Value{Num(7)})
	wantClean(t, fault)
	if want := []Value{Num(7), Num(7)}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}
}

func TestBumpWritesBackAndLoadsHands(t *testing.T) {
	program := []Instruction{
		{Op: OpBumpUp, Tile: 0},
		{Op: OpOutbox},
		{Op: OpCopyFrom, Tile: 0},
		{Op: OpOutbox},
		{Op: OpBumpDown, Tile: 0},
		{Op: OpOutbox},
	}
	out, fault := runProgram(t, program, testConfig, map[int]Value{0: Num(5)}, nil)
	wantClean(t, fault)
	if want := []Value{Num(6), Num(6), Num(5)}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}
}

func TestConditionalJumps(t *testing.T) {
	// Emit only positive values.
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpJumpIfZero, Target: 0, Label: "a"},
		{Op: OpJumpIfNegative, Target: 0, Label: "a"},
		{Op: OpOutbox},
		{Op: OpJump, Target: 0, Label: "a"},
	}
	inbox := []Value{Num(0), Num(3), Num(-2), Num(9)}
	out, fault := runProgram(t, program, testConfig, nil, inbox)
	wantClean(t, fault)
	if want := []Value{Num(3), Num(9)}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}
}

func TestJumpToTrailingLabelCompletes(t *testing.T) {
	// A label after the last instruction resolves to the program length;
	// jumping there is a clean halt.
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpJump, Target: 3, Label: "done"},
		{Op: OpOutbox},
	}
	out, fault := runProgram(t, program, testConfig, nil, []Value{Num(1)})
	wantClean(t, fault)
	if len(out) != 0 {
		t.Fatalf("outbox = %v, want empty", out)
	}
}

func TestRunsAreIsolated(t *testing.T) {
	// Two runs over the same program and seed must not observe each
	// other's floor writes.
	program := &Program{Instructions: []Instruction{
		{Op: OpInbox},
		{Op: OpAdd, Tile: 0},
		{Op: OpCopyTo, Tile: 0},
		{Op: OpOutbox},
	}}
	init := map[int]Value{0: Num(10)}
	for i := 0; i < 2; i++ {
		out, fault, err := Run(program, testConfig, init, []Value{Num(1)})
		if err != nil {
			t.Fatalf("Run returned setup error: %v", err)
		}
		wantClean(t, fault)
		if want := []Value{Num(11)}; !reflect.DeepEqual(out, want) {
			t.Fatalf("run %d: outbox = %v, want %v", i, out, want)
		}
	}
}

func TestStepLimitBoundary(t *testing.T) {
	// Exactly StepLimit executed instructions followed by a clean halt is
	// not a fault.
	program := []Instruction{
		{Op: OpInbox},
		{Op: OpOutbox},
	}
	cfg := testConfig
	cfg.StepLimit = 2
	out, fault := runProgram(t, program, cfg, nil, []Value{Num(4)})
	wantClean(t, fault)
	if want := []Value{Num(4)}; !reflect.DeepEqual(out, want) {
		t.Fatalf("outbox = %v, want %v", out, want)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	program := &Program{}
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative floor", Config{FloorSize: -1, ValueBound: 999, StepLimit: 10}},
		{"zero bound", Config{FloorSize: 4, ValueBound: 0, StepLimit: 10}},
		{"zero step limit", Config{FloorSize: 4, ValueBound: 999, StepLimit: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(program, tt.cfg, nil, nil); err == nil {
				t.Fatal("New accepted an invalid config")
			}
		})
	}
}

func TestNewRejectsSeedOutsideFloor(t *testing.T) {
	program := &Program{}
	if _, err := New(program, testConfig, map[int]Value{16: Num(1)}, nil); err == nil {
		t.Fatal("New accepted a seed tile outside the floor")
	}
}

func TestEmptyProgramCompletesImmediately(t *testing.T) {
	out, fault := runProgram(t, nil, testConfig, nil, []Value{Num(1)})
	wantClean(t, fault)
	if len(out) != 0 {
		t.Fatalf("outbox = %v, want empty", out)
	}
}
