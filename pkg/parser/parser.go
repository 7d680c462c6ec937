// Package parser turns saved program text into executable programs.
//
// The save format is line oriented: an optional header, one instruction
// per line, label declarations of the form "name:", COMMENT markers and
// DEFINE blobs carrying cosmetic editor data. Parsing runs in two passes:
// the first collects instructions and label indices, the second resolves
// every jump operand against the label table. Either the whole program
// parses or a ParseError is returned; nothing partial escapes.
package parser

import (
	"strconv"
	"strings"

	"hrm/replay-go/pkg/machine"
)

// Header is the banner the game writes at the top of every save file.
// It is accepted and ignored; programs without it also parse.
const Header = "-- HUMAN RESOURCE MACHINE PROGRAM --"

var opcodes = map[string]machine.Opcode{
	"INBOX":    machine.OpInbox,
	"OUTBOX":   machine.OpOutbox,
	"COPYFROM": machine.OpCopyFrom,
	"COPYTO":   machine.OpCopyTo,
	"ADD":      machine.OpAdd,
	"SUB":      machine.OpSub,
	"BUMPUP":   machine.OpBumpUp,
	"BUMPDN":   machine.OpBumpDown,
	"JUMP":     machine.OpJump,
	"JUMPZ":    machine.OpJumpIfZero,
	"JUMPN":    machine.OpJumpIfNegative,
}

type pendingJump struct {
	instr int
	label string
	line  int
}

// Parse compiles save-file text into a program.
func Parse(src string) (*machine.Program, error) {
	var (
		instrs     []machine.Instruction
		labels     []machine.Label
		labelIndex = map[string]int{}
		jumps      []pendingJump
		inDefine   bool
	)

	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		// DEFINE blobs carry base64 editor data and run until a ';'.
		if inDefine {
			if strings.Contains(line, ";") {
				inDefine = false
			}
			continue
		}

		switch {
		case line == "" || line == Header:
			continue
		case strings.HasPrefix(line, "DEFINE "):
			if !strings.Contains(line, ";") {
				inDefine = true
			}
			continue
		case strings.HasPrefix(line, "COMMENT"):
			fields := strings.Fields(line)
			if len(fields) != 2 || !allDigits(fields[1]) {
				return nil, errorf(InvalidSyntax, lineNo, "malformed comment marker %q", line)
			}
			continue
		}

		if name, ok := strings.CutSuffix(line, ":"); ok {
			if !validLabel(name) {
				return nil, errorf(InvalidSyntax, lineNo, "malformed label declaration %q", line)
			}
			if _, exists := labelIndex[name]; exists {
				return nil, errorf(DuplicateLabel, lineNo, "label %q declared twice", name)
			}
			labelIndex[name] = len(instrs)
			labels = append(labels, machine.Label{Name: name, Index: len(instrs)})
			continue
		}

		fields := strings.Fields(line)
		op, ok := opcodes[fields[0]]
		if !ok {
			return nil, errorf(UnknownOpcode, lineNo, "unknown opcode %q", fields[0])
		}

		switch {
		case op.TakesAddress():
			if len(fields) != 2 {
				return nil, errorf(InvalidSyntax, lineNo, "%s takes exactly one address operand", op)
			}
			mode, addr, err := parseAddress(fields[1], lineNo)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, machine.Instruction{Op: op, Mode: mode, Tile: addr})

		case op.IsJump():
			if len(fields) != 2 {
				return nil, errorf(InvalidSyntax, lineNo, "%s takes exactly one label operand", op)
			}
			if !validLabel(fields[1]) {
				return nil, errorf(InvalidSyntax, lineNo, "malformed label %q", fields[1])
			}
			jumps = append(jumps, pendingJump{instr: len(instrs), label: fields[1], line: lineNo})
			instrs = append(instrs, machine.Instruction{Op: op, Label: fields[1]})

		default:
			if len(fields) != 1 {
				return nil, errorf(InvalidSyntax, lineNo, "%s takes no operand", op)
			}
			instrs = append(instrs, machine.Instruction{Op: op})
		}
	}

	// Second pass: rewrite jump operands to instruction indices. A label
	// declared after the last instruction resolves to the program length,
	// which the machine treats as falling off the end.
	for _, j := range jumps {
		index, ok := labelIndex[j.label]
		if !ok {
			return nil, errorf(UnresolvedLabel, j.line, "jump to undeclared label %q", j.label)
		}
		instrs[j.instr].Target = index
	}

	return &machine.Program{Instructions: instrs, Labels: labels}, nil
}

func parseAddress(operand string, lineNo int) (machine.AddressMode, int, error) {
	mode := machine.ModeDirect
	if strings.HasPrefix(operand, "[") {
		if !strings.HasSuffix(operand, "]") {
			return 0, 0, errorf(InvalidAddress, lineNo, "unterminated indirect address %q", operand)
		}
		mode = machine.ModeIndirect
		operand = operand[1 : len(operand)-1]
	}
	if !allDigits(operand) {
		return 0, 0, errorf(InvalidAddress, lineNo, "address %q is not a non-negative integer", operand)
	}
	addr, err := strconv.Atoi(operand)
	if err != nil {
		return 0, 0, errorf(InvalidAddress, lineNo, "address %q is not a non-negative integer", operand)
	}
	return mode, addr, nil
}

func validLabel(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
