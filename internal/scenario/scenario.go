// Package scenario loads and replays scripted VeSync client sessions against a
// running twin.
package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

// Scenario is a complete session script loaded from a YAML file.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Reset       bool   `yaml:"reset"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single request/expect pair within a scenario.
type Step struct {
	Name    string  `yaml:"name"`
	Request Request `yaml:"request"`
	Expect  Expect  `yaml:"expect"`
}

// Request defines the HTTP request to make during a step. The app's common
// headers are sent unless the step overrides them; a header set to "" is
// omitted.
type Request struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	Body    map[string]any    `yaml:"body"`
}

// Expect defines the expected results of a step. Status defaults to 200, the
// status every VeSync envelope is returned with.
type Expect struct {
	Status       int               `yaml:"status"`
	Code         *int              `yaml:"code"`
	BodyContains string            `yaml:"body_contains"`
	JSON         map[string]string `yaml:"json"`
}

// LoadScenario parses a single YAML scenario file.
func LoadScenario(p string) (*Scenario, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", p, err)
	}
	return parse(p, data)
}

func parse(name string, data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", name, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", name)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", name)
	}
	for i, step := range s.Steps {
		if step.Request.Method == "" || !strings.HasPrefix(step.Request.Path, "/") {
			return nil, fmt.Errorf("scenario %s: step %d needs a method and a rooted path", name, i+1)
		}
	}
	return &s, nil
}

// Load reads every .yaml and .yml file at the root of fsys, in name order.
func Load(fsys fs.FS) ([]*Scenario, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading scenario %s: %w", name, err)
		}
		s, err := parse(name, data)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		return nil, errors.New("no scenario files found")
	}
	return scenarios, nil
}

// LoadDir loads every scenario file in a directory.
func LoadDir(dir string) ([]*Scenario, error) {
	return Load(os.DirFS(dir))
}

// Builtin returns the smoke scenarios compiled into the binary.
func Builtin() ([]*Scenario, error) {
	sub, err := fs.Sub(builtin, "scenarios")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}
