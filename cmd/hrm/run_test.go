package main

import (
	"testing"

	"hrm/replay-go/pkg/machine"
)

func TestParseRunArgs(t *testing.T) {
	opts, err := parseRunArgs([]string{"--level", "4", "--trace", "solution.hrm"})
	if err != nil {
		t.Fatalf("parseRunArgs returned error: %v", err)
	}
	if opts.levelNumber != 4 || !opts.trace || opts.program != "solution.hrm" {
		t.Fatalf("options = %+v", opts)
	}

	opts, err = parseRunArgs([]string{"--level-file", "custom.yml", "solution.hrm"})
	if err != nil {
		t.Fatalf("parseRunArgs returned error: %v", err)
	}
	if opts.levelFile != "custom.yml" || opts.levelNumber != -1 {
		t.Fatalf("options = %+v", opts)
	}
}

func TestParseRunArgsRejects(t *testing.T) {
	tests := [][]string{
		{},
		{"solution.hrm"},
		{"--level", "4"},
		{"--level", "x", "solution.hrm"},
		{"--level", "4", "--level-file", "custom.yml", "solution.hrm"},
		{"--bogus", "solution.hrm"},
		{"--level", "4", "a.hrm", "b.hrm"},
	}
	for _, args := range tests {
		if _, err := parseRunArgs(args); err == nil {
			t.Fatalf("parseRunArgs(%q) succeeded, want error", args)
		}
	}
}

func TestFormatValues(t *testing.T) {
	got := formatValues([]machine.Value{machine.Num(4), machine.Char('h'), machine.Num(-1)})
	if want := "[4, h, -1]"; got != want {
		t.Fatalf("formatValues = %q, want %q", got, want)
	}
	if got := formatValues(nil); got != "[]" {
		t.Fatalf("formatValues(nil) = %q, want []", got)
	}
}

func TestValidPackName(t *testing.T) {
	for name, want := range map[string]bool{
		"community-levels": true,
		"Pack_2":           true,
		"":                 false,
		"a/b":              false,
		"a b":              false,
	} {
		if got := validPackName(name); got != want {
			t.Fatalf("validPackName(%q) = %v, want %v", name, got, want)
		}
	}
}
