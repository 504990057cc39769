// Package catalog loads the per-model operation specs the twin validates
// requests against, and classifies every model into a device family.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed specs
var embedded embed.FS

// FamilyDirs are the spec directories holding one YAML file per model, in
// load order. Later files win when two models share a URL prefix.
var FamilyDirs = []string{"vesyncoutlet", "vesyncfan", "vesyncbulb", "vesyncswitch"}

// AccountFile holds the account-level operations (login, device listing).
const AccountFile = "vesync/VeSync.yaml"

// Account operation names.
const (
	OpLogin      = "login"
	OpGetDevices = "get_devices"
)

// Shared cloud endpoints that carry the device command in the body.
const (
	BypassV1Path = "/cloud/v1/deviceManaged/bypass"
	BypassV2Path = "/cloud/v2/deviceManaged/bypassV2"
)

// managedSegment marks the shared cloud endpoints whose full path is indexed.
const managedSegment = "deviceManaged"

// Catalog is the loaded spec tree. It is read-only after Load.
type Catalog struct {
	models   map[string]*ModelSpec
	order    []string
	account  map[string]*OperationSpec
	prefixes map[string]string
}

// Default loads the spec tree compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "specs")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads a spec tree from disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("spec dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("spec dir %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load reads the account operations and every model file under the family
// directories. Any malformed file fails the whole load.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		models:   make(map[string]*ModelSpec),
		prefixes: make(map[string]string),
	}

	account, err := readOperations(fsys, AccountFile)
	if err != nil {
		return nil, err
	}
	c.account = make(map[string]*OperationSpec, len(account))
	for _, op := range account {
		c.account[op.Name] = op
	}
	for _, name := range []string{OpLogin, OpGetDevices} {
		if _, ok := c.account[name]; !ok {
			return nil, fmt.Errorf("%s: missing %s operation", AccountFile, name)
		}
	}

	for _, dir := range FamilyDirs {
		entries, err := fs.ReadDir(fsys, dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
				continue
			}
			file := path.Join(dir, e.Name())
			ops, err := readOperations(fsys, file)
			if err != nil {
				return nil, err
			}
			c.add(dir, strings.TrimSuffix(e.Name(), ".yaml"), ops)
		}
	}
	return c, nil
}

func (c *Catalog) add(dir, model string, ops []*OperationSpec) {
	configModule, ok := ConfigModuleFor(model)
	if !ok {
		for _, op := range ops {
			if v, ok := op.Body.Lookup("configModule"); ok {
				configModule, _ = v.(string)
				break
			}
		}
	}

	spec := &ModelSpec{
		Model:        model,
		Dir:          dir,
		Family:       Classify(model, configModule),
		ConfigModule: configModule,
		Operations:   ops,
	}
	if _, dup := c.models[model]; !dup {
		c.order = append(c.order, model)
	}
	c.models[model] = spec

	for _, op := range ops {
		for _, key := range prefixKeys(op.URL) {
			c.prefixes[key] = model
		}
	}
}

// prefixKeys returns the index keys of an operation URL: its first segment,
// its first three slash-separated parts, and for deviceManaged endpoints the
// whole path.
func prefixKeys(url string) []string {
	parts := strings.Split(url, "/")
	var keys []string
	if strings.HasPrefix(url, "/") && len(parts) > 1 {
		keys = append(keys, parts[1])
	} else {
		keys = append(keys, parts[0])
	}
	if len(parts) > 2 {
		keys = append(keys, strings.Join(parts[:3], "/"))
		for _, p := range parts {
			if p == managedSegment {
				keys = append(keys, url)
				break
			}
		}
	}
	return keys
}

func readOperations(fsys fs.FS, file string) ([]*OperationSpec, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s: empty spec", file)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level must map operation names to specs", file)
	}

	ops := make([]*OperationSpec, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		op := &OperationSpec{Name: root.Content[i].Value}
		if err := root.Content[i+1].Decode(op); err != nil {
			return nil, fmt.Errorf("%s: operation %s: %w", file, op.Name, err)
		}
		if err := op.normalize(); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Model returns the spec of a model.
func (c *Catalog) Model(name string) (*ModelSpec, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Models returns every loaded model in load order.
func (c *Catalog) Models() []*ModelSpec {
	out := make([]*ModelSpec, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.models[name])
	}
	return out
}

// Account returns an account-level operation (OpLogin, OpGetDevices).
func (c *Catalog) Account(name string) (*OperationSpec, bool) {
	op, ok := c.account[name]
	return op, ok
}

// ModelForPath resolves a model from a URL path through the prefix index:
// exact key first, then the first three parts, then the first segment.
func (c *Catalog) ModelForPath(p string) (string, bool) {
	if m, ok := c.prefixes[p]; ok {
		return m, true
	}
	keys := prefixKeys(p)
	for i := len(keys) - 1; i >= 0; i-- {
		if m, ok := c.prefixes[keys[i]]; ok {
			return m, true
		}
	}
	return "", false
}

// Prefixes returns a copy of the URL prefix index.
func (c *Catalog) Prefixes() map[string]string {
	out := make(map[string]string, len(c.prefixes))
	for k, v := range c.prefixes {
		out[k] = v
	}
	return out
}

// SharedPrefixes reports, for every first-segment prefix, the models whose
// operations use it, keeping only prefixes used by more than one model.
func (c *Catalog) SharedPrefixes() map[string][]string {
	owners := make(map[string]map[string]bool)
	for _, m := range c.Models() {
		for _, op := range m.Operations {
			key := prefixKeys(op.URL)[0]
			if owners[key] == nil {
				owners[key] = make(map[string]bool)
			}
			owners[key][m.Model] = true
		}
	}
	out := make(map[string][]string)
	for key, set := range owners {
		if len(set) < 2 {
			continue
		}
		models := make([]string, 0, len(set))
		for m := range set {
			models = append(models, m)
		}
		sort.Strings(models)
		out[key] = models
	}
	return out
}
