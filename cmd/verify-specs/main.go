// Command verify-specs validates a VeSync operation spec tree.
//
// It loads the embedded specs (or a directory given with --spec-dir) and
// checks that every supported device has a spec, that every operation can be
// routed to its device, and that shared URL prefixes are accounted for.
//
// Usage:
//
//	go run ./cmd/verify-specs
//	go run ./cmd/verify-specs --spec-dir ./internal/catalog/specs
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
)

// checkResult stores the outcome of a single check.
type checkResult struct {
	Name   string
	Passed bool
	Detail string
}

// Body fields that let the resolver find the device without a path parameter.
var deviceIDFields = []string{"cid", "uuid", "deviceId"}

func main() {
	specDir := flag.String("spec-dir", "", "Directory of device operation specs (default: embedded)")
	flag.Parse()

	results := run(*specDir)
	printResults(results)

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}

// run performs all validation checks and returns the results.
func run(specDir string) []checkResult {
	var results []checkResult

	// 1. Load
	cat, err := load(specDir)
	if err != nil {
		return append(results, checkResult{"Load specs", false, err.Error()})
	}
	source := specDir
	if source == "" {
		source = "embedded"
	}
	results = append(results, checkResult{"Load specs", true, fmt.Sprintf("%s, %d model(s)", source, len(cat.Models()))})

	// 2. Coverage of the supported-device table
	results = append(results, checkCoverage(cat))

	// 3. Per-model checks
	for _, m := range cat.Models() {
		results = append(results, validateModel(cat, m)...)
	}

	// 4. Shared prefixes are informational; the resolver separates them by id.
	results = append(results, reportShared(cat))

	return results
}

func load(specDir string) (*catalog.Catalog, error) {
	if specDir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(specDir)
}

func checkCoverage(cat *catalog.Catalog) checkResult {
	var missing []string
	for _, d := range catalog.Devices() {
		if d.Model == catalog.DuplicateAlias {
			continue
		}
		if _, ok := cat.Model(d.Model); !ok {
			missing = append(missing, d.Model)
		}
	}
	if len(missing) > 0 {
		return checkResult{"Supported devices have specs", false, "missing: " + strings.Join(missing, ", ")}
	}
	return checkResult{"Supported devices have specs", true, fmt.Sprintf("%d device(s)", len(catalog.Devices())-1)}
}

func validateModel(cat *catalog.Catalog, m *catalog.ModelSpec) []checkResult {
	var results []checkResult
	prefix := fmt.Sprintf("[%s]", m.Model)

	if m.Family == catalog.FamilyUnknown {
		results = append(results, checkResult{prefix + " family", false, "no responder family for config module " + m.ConfigModule})
	} else {
		results = append(results, checkResult{prefix + " family", true, m.Family.String()})
	}

	shared := cat.SharedPrefixes()
	for _, op := range m.Operations {
		name := fmt.Sprintf("%s %s", prefix, op.Name)

		if !RootedURL(op.URL) {
			results = append(results, checkResult{name + " url rooted", false, op.URL})
			continue
		}

		if !CarriesDeviceID(op) {
			results = append(results, checkResult{name + " device id", false, "no path parameter or id field in body"})
		}

		// Dedicated prefixes must route straight back to their model's line.
		if _, isShared := shared[firstSegment(op.URL)]; isShared {
			continue
		}
		routed, ok := cat.ModelForPath(op.URL)
		if !ok {
			results = append(results, checkResult{name + " routes", false, "no model for " + op.URL})
			continue
		}
		if rm, _ := cat.Model(routed); rm == nil || rm.Dir != m.Dir {
			results = append(results, checkResult{name + " routes", false, fmt.Sprintf("%s routes to %s", op.URL, routed)})
		}
	}

	if len(results) == 1 {
		results = append(results, checkResult{prefix + " operations", true, fmt.Sprintf("%d operation(s)", len(m.Operations))})
	}
	return results
}

func reportShared(cat *catalog.Catalog) checkResult {
	shared := cat.SharedPrefixes()
	keys := make([]string, 0, len(shared))
	for k := range shared {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s(%d)", k, len(shared[k])))
	}
	return checkResult{"Shared prefixes", true, strings.Join(parts, " ")}
}

// RootedURL reports whether an operation URL is an absolute path.
func RootedURL(url string) bool {
	return strings.HasPrefix(url, "/")
}

// CarriesDeviceID reports whether a request built from op identifies its
// device, through a {param} segment or an id field in the body.
func CarriesDeviceID(op *catalog.OperationSpec) bool {
	if strings.Contains(op.URL, "{") {
		return true
	}
	for _, f := range deviceIDFields {
		if op.Body.Has(f) {
			return true
		}
	}
	return false
}

func firstSegment(url string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(url, "/"), "/")
	return seg
}

func printResults(results []checkResult) {
	passed, failed := 0, 0
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		if r.Detail != "" {
			fmt.Printf("  %s  %s: %s\n", status, r.Name, r.Detail)
		} else {
			fmt.Printf("  %s  %s\n", status, r.Name)
		}
	}
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
}
