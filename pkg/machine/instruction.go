package machine

import "fmt"

// Opcode enumerates the fixed instruction set.
type Opcode int

const (
	OpInbox Opcode = iota
	OpOutbox
	OpCopyFrom
	OpCopyTo
	OpAdd
	OpSub
	OpBumpUp
	OpBumpDown
	OpJump
	OpJumpIfZero
	OpJumpIfNegative
)

// String returns the save-file mnemonic.
func (op Opcode) String() string {
	switch op {
	case OpInbox:
		return "INBOX"
	case OpOutbox:
		return "OUTBOX"
	case OpCopyFrom:
		return "COPYFROM"
	case OpCopyTo:
		return "COPYTO"
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpBumpUp:
		return "BUMPUP"
	case OpBumpDown:
		return "BUMPDN"
	case OpJump:
		return "JUMP"
	case OpJumpIfZero:
		return "JUMPZ"
	case OpJumpIfNegative:
		return "JUMPN"
	default:
		return fmt.Sprintf("unknown_opcode_%d", int(op))
	}
}

// TakesAddress reports whether the opcode carries a tile operand.
func (op Opcode) TakesAddress() bool {
	switch op {
	case OpCopyFrom, OpCopyTo, OpAdd, OpSub, OpBumpUp, OpBumpDown:
		return true
	default:
		return false
	}
}

// IsJump reports whether the opcode carries a label operand.
func (op Opcode) IsJump() bool {
	switch op {
	case OpJump, OpJumpIfZero, OpJumpIfNegative:
		return true
	default:
		return false
	}
}

// AddressMode selects how a tile operand names its target.
type AddressMode int

const (
	// ModeDirect addresses the operand tile itself.
	ModeDirect AddressMode = iota
	// ModeIndirect reads the operand tile and uses the number it holds as
	// the effective address. Resolution happens on every execution, never
	// at parse time.
	ModeIndirect
)

// Instruction is one slot of a compiled program.
//
// Tile and Mode are meaningful when Op.TakesAddress(); Target and Label
// when Op.IsJump(). Target is the label's resolved instruction index and
// Label its original spelling, kept so programs format back to text.
type Instruction struct {
	Op     Opcode
	Mode   AddressMode
	Tile   int
	Target int
	Label  string
}

func (in Instruction) String() string {
	switch {
	case in.Op.IsJump():
		return fmt.Sprintf("%s %s", in.Op, in.Label)
	case in.Op.TakesAddress() && in.Mode == ModeIndirect:
		return fmt.Sprintf("%s [%d]", in.Op, in.Tile)
	case in.Op.TakesAddress():
		return fmt.Sprintf("%s %d", in.Op, in.Tile)
	default:
		return in.Op.String()
	}
}

// Label records a named marker over an instruction index. A label line
// does not occupy an instruction slot; Index is the index of the next
// real instruction, which for a trailing label equals the program length.
type Label struct {
	Name  string
	Index int
}

// Program is a compiled, jump-resolved instruction sequence. Programs are
// immutable once built; runs never mutate them, so one Program may back
// any number of concurrent machines.
type Program struct {
	Instructions []Instruction
	Labels       []Label
}
