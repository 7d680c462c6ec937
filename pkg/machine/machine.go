// Package machine is the execution engine: a single-register machine
// over a tile floor, fed by an inbox and emitting to an outbox. It runs
// compiled programs deterministically; every failure is a returned
// RuntimeError verdict, never a panic.
package machine

import "fmt"

// Config carries the level-supplied execution limits. Every field is
// required: the engine refuses to guess a floor size, numeric range or
// step ceiling on its own.
type Config struct {
	// FloorSize is the number of addressable tiles.
	FloorSize int
	// ValueBound is the inclusive magnitude limit for numbers; any
	// arithmetic result outside [-ValueBound, ValueBound] is an
	// Overflow fault.
	ValueBound int
	// StepLimit bounds the number of executed instructions, turning a
	// non-terminating program into a StepLimitExceeded fault instead of
	// a hang.
	StepLimit int
}

func (c Config) validate() error {
	if c.FloorSize < 0 {
		return fmt.Errorf("machine: floor size %d is negative", c.FloorSize)
	}
	if c.ValueBound <= 0 {
		return fmt.Errorf("machine: value bound %d must be positive", c.ValueBound)
	}
	if c.StepLimit <= 0 {
		return fmt.Errorf("machine: step limit %d must be positive", c.StepLimit)
	}
	return nil
}

// Machine executes one program against one inbox. All state is held here;
// nothing is shared between machines, so independent runs may proceed on
// any number of goroutines.
type Machine struct {
	program  *Program
	cfg      Config
	floor    *Floor
	inbox    []Value
	cursor   int
	outbox   []Value
	pc       int
	hands    Value
	hasHands bool
	steps    int
	halted   bool
	fault    *RuntimeError
}

// New builds a machine with a fresh floor seeded from init. The program
// and inbox are treated as immutable inputs.
func New(program *Program, cfg Config, init map[int]Value, inbox []Value) (*Machine, error) {
	if program == nil {
		return nil, fmt.Errorf("machine: nil program")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	floor, err := NewFloor(cfg.FloorSize, init)
	if err != nil {
		return nil, err
	}
	return &Machine{
		program: program,
		cfg:     cfg,
		floor:   floor,
		inbox:   inbox,
	}, nil
}

// Run is the whole-run convenience over New and Machine.Run.
func Run(program *Program, cfg Config, init map[int]Value, inbox []Value) ([]Value, *RuntimeError, error) {
	m, err := New(program, cfg, init, inbox)
	if err != nil {
		return nil, nil, err
	}
	out, fault := m.Run()
	return out, fault, nil
}

// Run drives the machine until it halts and returns the produced outbox.
// A nil RuntimeError means the program completed cleanly, either by
// exhausting the inbox at an INBOX instruction or by running off the end
// of the program.
func (m *Machine) Run() ([]Value, *RuntimeError) {
	for !m.Step() {
	}
	return m.outbox, m.fault
}

// Step executes one instruction and reports whether the machine has
// halted. Once halted, further calls are no-ops. Hosts that trace
// execution read PC before each call and inspect the machine after.
func (m *Machine) Step() bool {
	if m.halted || m.fault != nil {
		return true
	}
	if m.pc < 0 || m.pc >= len(m.program.Instructions) {
		m.halted = true
		return true
	}

	at := m.pc
	jumped, completed := m.exec(m.program.Instructions[at], at)
	if m.fault != nil {
		return true
	}
	if completed {
		m.halted = true
		return true
	}

	m.steps++
	if m.steps > m.cfg.StepLimit {
		m.fault = &RuntimeError{
			Kind:        ErrStepLimitExceeded,
			Instruction: at,
			Step:        m.steps,
			Message:     fmt.Sprintf("step limit %d exceeded", m.cfg.StepLimit),
		}
		return true
	}
	if !jumped {
		m.pc++
	}
	return false
}

// PC returns the index of the next instruction to execute.
func (m *Machine) PC() int { return m.pc }

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() int { return m.steps }

// Hands returns the working register; the second result is false while
// the hands are empty.
func (m *Machine) Hands() (Value, bool) { return m.hands, m.hasHands }

// Outbox returns the values emitted so far.
func (m *Machine) Outbox() []Value { return m.outbox }

// Fault returns the fault that halted the machine, if any.
func (m *Machine) Fault() *RuntimeError { return m.fault }

// Halted reports whether the machine has stopped, cleanly or not.
func (m *Machine) Halted() bool { return m.halted || m.fault != nil }

func (m *Machine) failAt(at int, kind ErrorKind, format string, args ...any) {
	m.fault = &RuntimeError{
		Kind:        kind,
		Instruction: at,
		Step:        m.steps + 1,
		Message:     fmt.Sprintf(format, args...),
	}
}

// exec runs one instruction. It reports whether the instruction took a
// jump (so the pc must not advance) and whether it completed the run.
// Faults are recorded on the machine.
func (m *Machine) exec(in Instruction, at int) (jumped, completed bool) {
	switch in.Op {
	case OpInbox:
		if m.cursor >= len(m.inbox) {
			// Inbox exhaustion is the clean terminal state, not a fault.
			return false, true
		}
		m.hands, m.hasHands = m.inbox[m.cursor], true
		m.cursor++

	case OpOutbox:
		if !m.hasHands {
			m.failAt(at, ErrEmptyHands, "OUTBOX with empty hands")
			return false, false
		}
		// Hands are not cleared: the worker keeps carrying the value
		// until it is overwritten.
		m.outbox = append(m.outbox, m.hands)

	case OpCopyFrom:
		addr, ok := m.resolve(in, at)
		if !ok {
			return false, false
		}
		v, written := m.floor.At(addr)
		if !written {
			m.failAt(at, ErrTileEmpty, "COPYFROM empty tile %d", addr)
			return false, false
		}
		m.hands, m.hasHands = v, true

	case OpCopyTo:
		if !m.hasHands {
			m.failAt(at, ErrEmptyHands, "COPYTO with empty hands")
			return false, false
		}
		addr, ok := m.resolve(in, at)
		if !ok {
			return false, false
		}
		m.floor.Set(addr, m.hands)

	case OpAdd, OpSub:
		if !m.hasHands {
			m.failAt(at, ErrEmptyHands, "%s with empty hands", in.Op)
			return false, false
		}
		addr, ok := m.resolve(in, at)
		if !ok {
			return false, false
		}
		v, written := m.floor.At(addr)
		if !written {
			m.failAt(at, ErrTileEmpty, "%s against empty tile %d", in.Op, addr)
			return false, false
		}
		if m.hands.Kind() != KindNumber || v.Kind() != KindNumber {
			m.failAt(at, ErrTypeMismatch, "%s needs numbers, have %s and %s", in.Op, m.hands.Kind(), v.Kind())
			return false, false
		}
		result := m.hands.Number() + v.Number()
		if in.Op == OpSub {
			result = m.hands.Number() - v.Number()
		}
		if !m.inBound(result) {
			m.failAt(at, ErrOverflow, "%s result %d outside [%d, %d]", in.Op, result, -m.cfg.ValueBound, m.cfg.ValueBound)
			return false, false
		}
		m.hands, m.hasHands = Num(result), true

	case OpBumpUp, OpBumpDown:
		addr, ok := m.resolve(in, at)
		if !ok {
			return false, false
		}
		v, written := m.floor.At(addr)
		if !written {
			m.failAt(at, ErrTileEmpty, "%s against empty tile %d", in.Op, addr)
			return false, false
		}
		if v.Kind() != KindNumber {
			m.failAt(at, ErrTypeMismatch, "%s against letter tile %d", in.Op, addr)
			return false, false
		}
		delta := 1
		if in.Op == OpBumpDown {
			delta = -1
		}
		result := v.Number() + delta
		if !m.inBound(result) {
			m.failAt(at, ErrOverflow, "%s result %d outside [%d, %d]", in.Op, result, -m.cfg.ValueBound, m.cfg.ValueBound)
			return false, false
		}
		// Bump both writes the tile back and loads the hands.
		m.floor.Set(addr, Num(result))
		m.hands, m.hasHands = Num(result), true

	case OpJump:
		m.pc = in.Target
		return true, false

	case OpJumpIfZero, OpJumpIfNegative:
		if !m.hasHands {
			m.failAt(at, ErrEmptyHands, "%s with empty hands", in.Op)
			return false, false
		}
		if m.hands.Kind() != KindNumber {
			m.failAt(at, ErrTypeMismatch, "%s on a letter", in.Op)
			return false, false
		}
		n := m.hands.Number()
		if (in.Op == OpJumpIfZero && n == 0) || (in.Op == OpJumpIfNegative && n < 0) {
			m.pc = in.Target
			return true, false
		}

	default:
		m.failAt(at, ErrInvalidAddress, "unknown opcode %s", in.Op)
		return false, false
	}
	return false, false
}

// resolve computes the effective tile address for in, re-reading the
// pointer tile on every execution when the mode is indirect.
func (m *Machine) resolve(in Instruction, at int) (int, bool) {
	addr := in.Tile
	if addr < 0 || addr >= m.floor.Size() {
		m.failAt(at, ErrInvalidAddress, "tile %d outside floor of size %d", addr, m.floor.Size())
		return 0, false
	}
	if in.Mode == ModeDirect {
		return addr, true
	}
	v, written := m.floor.At(addr)
	if !written {
		m.failAt(at, ErrTileEmpty, "indirect through empty tile %d", addr)
		return 0, false
	}
	if v.Kind() != KindNumber {
		m.failAt(at, ErrTypeMismatch, "indirect through letter tile %d", addr)
		return 0, false
	}
	target := v.Number()
	if target < 0 || target >= m.floor.Size() {
		m.failAt(at, ErrInvalidAddress, "indirect tile %d points at %d, outside floor of size %d", addr, target, m.floor.Size())
		return 0, false
	}
	return target, true
}

func (m *Machine) inBound(n int) bool {
	return n >= -m.cfg.ValueBound && n <= m.cfg.ValueBound
}
