// Package level carries the replay inputs that live outside the program:
// the inbox, the expected outbox, the initial floor layout and the
// execution limits. Levels come from the builtin table or from YAML files.
package level

import (
	"fmt"

	"hrm/replay-go/pkg/machine"
)

// Game-standard limits, used when a level file leaves them unset. The
// machine itself never assumes them; they are applied here, at the
// configuration layer.
const (
	DefaultValueBound = 999
	DefaultStepLimit  = 10000
)

// Floor describes the initial tile layout for a level.
type Floor struct {
	Size  int
	Tiles map[int]machine.Value
}

// Level bundles everything one replay needs besides the program.
type Level struct {
	Number     int
	Name       string
	Inbox      []machine.Value
	Expected   []machine.Value
	Floor      Floor
	ValueBound int
	StepLimit  int
}

// Config assembles the machine configuration for this level.
func (l *Level) Config() machine.Config {
	return machine.Config{
		FloorSize:  l.Floor.Size,
		ValueBound: l.ValueBound,
		StepLimit:  l.StepLimit,
	}
}

func (l *Level) validate() error {
	if l.Floor.Size < 0 {
		return fmt.Errorf("level: floor size %d is negative", l.Floor.Size)
	}
	for addr := range l.Floor.Tiles {
		if addr < 0 || addr >= l.Floor.Size {
			return fmt.Errorf("level: floor tile %d outside floor of size %d", addr, l.Floor.Size)
		}
	}
	if l.ValueBound <= 0 {
		return fmt.Errorf("level: value bound %d must be positive", l.ValueBound)
	}
	if l.StepLimit <= 0 {
		return fmt.Errorf("level: step limit %d must be positive", l.StepLimit)
	}
	return nil
}

func nums(ns ...int) []machine.Value {
	vs := make([]machine.Value, len(ns))
	for i, n := range ns {
		vs[i] = machine.Num(n)
	}
	return vs
}

func word(s string) []machine.Value {
	vs := make([]machine.Value, 0, len(s))
	for _, r := range s {
		vs = append(vs, machine.Char(r))
	}
	return vs
}

func zeroTerminated(words ...string) []machine.Value {
	var vs []machine.Value
	for _, w := range words {
		vs = append(vs, word(w)...)
		vs = append(vs, machine.Num(0))
	}
	return vs
}
