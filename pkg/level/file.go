package level

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"hrm/replay-go/pkg/machine"
)

// The on-disk shape of a level file. Inbox, expected and tile entries may
// be integers or single-character strings, so they decode through
// yaml.Node to keep the two value kinds distinct.
type levelFile struct {
	Name     string      `yaml:"name"`
	Number   int         `yaml:"number"`
	Inbox    []yaml.Node `yaml:"inbox"`
	Expected []yaml.Node `yaml:"expected"`
	Floor    struct {
		Size  int               `yaml:"size"`
		Tiles map[int]yaml.Node `yaml:"tiles"`
	} `yaml:"floor"`
	ValueBound *int `yaml:"value_bound"`
	StepLimit  *int `yaml:"step_limit"`
}

// Load parses a YAML level file. Unknown fields are rejected; a missing
// value_bound or step_limit falls back to the game-standard defaults.
func Load(path string) (*Level, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw levelFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("level: parse %s: %w", path, err)
	}

	lvl := &Level{
		Number:     raw.Number,
		Name:       raw.Name,
		Floor:      Floor{Size: raw.Floor.Size},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
	if raw.ValueBound != nil {
		lvl.ValueBound = *raw.ValueBound
	}
	if raw.StepLimit != nil {
		lvl.StepLimit = *raw.StepLimit
	}

	if lvl.Inbox, err = decodeValues(raw.Inbox, "inbox"); err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	if lvl.Expected, err = decodeValues(raw.Expected, "expected"); err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	if len(raw.Floor.Tiles) > 0 {
		lvl.Floor.Tiles = make(map[int]machine.Value, len(raw.Floor.Tiles))
		for addr, node := range raw.Floor.Tiles {
			v, err := decodeValue(&node)
			if err != nil {
				return nil, fmt.Errorf("level: %s: floor tile %d: %w", path, addr, err)
			}
			lvl.Floor.Tiles[addr] = v
		}
	}

	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := lvl.validate(); err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return lvl, nil
}

func decodeValues(nodes []yaml.Node, field string) ([]machine.Value, error) {
	values := make([]machine.Value, 0, len(nodes))
	for i := range nodes {
		v, err := decodeValue(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeValue(node *yaml.Node) (machine.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return machine.Value{}, fmt.Errorf("expected a number or a single character, got a %v node", node.Kind)
	}
	switch node.Tag {
	case "!!int":
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return machine.Value{}, fmt.Errorf("bad integer %q", node.Value)
		}
		return machine.Num(n), nil
	case "!!str":
		if utf8.RuneCountInString(node.Value) != 1 {
			return machine.Value{}, fmt.Errorf("letter %q must be a single character", node.Value)
		}
		r, _ := utf8.DecodeRuneInString(node.Value)
		return machine.Char(r), nil
	default:
		return machine.Value{}, fmt.Errorf("expected a number or a single character, got %s", node.Tag)
	}
}
