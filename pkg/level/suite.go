package level

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuiteCase names one replay: a program file and the level it must solve.
// The level reference is either "builtin:N" or a path to a level file,
// relative to the suite file.
type SuiteCase struct {
	Name    string `yaml:"name"`
	Program string `yaml:"program"`
	Level   string `yaml:"level"`
}

// Suite is a batch of replay cases loaded from one YAML file.
type Suite struct {
	Dir   string
	Cases []SuiteCase
}

type suiteFile struct {
	Cases []SuiteCase `yaml:"cases"`
}

// LoadSuite parses a suite file. Paths inside the suite stay relative
// until resolved against the suite's directory.
func LoadSuite(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw suiteFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	if len(raw.Cases) == 0 {
		return nil, fmt.Errorf("suite: %s declares no cases", path)
	}
	for i, c := range raw.Cases {
		if c.Program == "" {
			return nil, fmt.Errorf("suite: %s: case %d has no program", path, i)
		}
		if c.Level == "" {
			return nil, fmt.Errorf("suite: %s: case %d has no level", path, i)
		}
	}
	return &Suite{Dir: filepath.Dir(path), Cases: raw.Cases}, nil
}

// Resolve loads the level a reference names. "builtin:N" selects from the
// builtin table; anything else is a level file path resolved against dir.
func Resolve(ref, dir string) (*Level, error) {
	if rest, ok := strings.CutPrefix(ref, "builtin:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("level: bad builtin reference %q", ref)
		}
		return Builtin(n)
	}
	if !filepath.IsAbs(ref) && dir != "" {
		ref = filepath.Join(dir, ref)
	}
	return Load(ref)
}
