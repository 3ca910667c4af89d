package cascade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Loader builds a prioritized cascade of configuration sources and applies them to a destination struct. Register sources in call order from lowest to highest priority using the With*
// methods, then call StrictlyLoad. The zero value is ready to use.
type Loader struct {
	sources []cascadeSource // low to high priority
}

// Providence records which source last assigned a field. A struct field named XProvidence of type Providence (or *Providence) is filled in whenever field X is assigned.
type Providence struct {
	SourceType       string // "default", "map", "json_file", or "env"
	SourceIdentifier string // absolute path for json_file; "" otherwise
}

// IsSet reports whether any source assigned the field.
func (p Providence) IsSet() bool {
	return p.SourceType != ""
}

// Default reports whether the value came from defaults.
func (p Providence) Default() bool {
	return p.SourceType == "default"
}

// LoadReport lists the sources that contributed values to a load, in the order they were applied. Missing, unreadable, and empty sources are omitted.
type LoadReport struct {
	Sources []Providence
}

// New returns a new Loader. It is equivalent to &Loader{} and exists to support fluent chaining.
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values. Keys may use dot-notation and are matched case-insensitively. A nil map contributes no values.
func (c *Loader) WithDefaults(m map[string]any) *Loader {
	c.sources = append(c.sources, &sourceMap{isDefaults: true, m: m})
	return c
}

// WithJSONFile registers a JSON file as a source. path is expanded with ExpandPath when read; a missing file contributes no values.
func (c *Loader) WithJSONFile(path string) *Loader {
	c.sources = append(c.sources, &sourceJSONFile{path: path})
	return c
}

// WithNearestJSONFile searches upward from start (or the working directory, if start is "") for the first non-empty file named fileName and registers it. fileName must be relative
// and may include directories (ex: ".minedit/config.json"); it panics if fileName is absolute. If start names a file, its directory is used. If nothing is found, the loader is unchanged.
func (c *Loader) WithNearestJSONFile(fileName string, start string) *Loader {
	if filepath.IsAbs(fileName) {
		panic("fileName shouldn't be absolute")
	}
	if path := findNearest(fileName, start); path != "" {
		c.sources = append(c.sources, &sourceJSONFile{path: path})
	}
	return c
}

// WithEnv registers environment variables as a source. m maps a configuration key (dots denote nesting) to an environment variable name. Unset and empty variables are ignored; present
// values are strings.
func (c *Loader) WithEnv(m map[string]string) *Loader {
	c.sources = append(c.sources, &sourceEnv{keyToEnv: m})
	return c
}

// WithEnvList is like WithEnv, but each present value is split into a []string with split. It is intended for list-valued settings like extra command-line arguments.
func (c *Loader) WithEnvList(m map[string]string, split func(string) ([]string, error)) *Loader {
	c.sources = append(c.sources, &sourceEnv{keyToEnv: m, split: split})
	return c
}

// StrictlyLoad loads configuration from c's sources into dest, a non-nil pointer to a struct. Later sources overwrite earlier values.
//
// Values are coerced to the field type when reasonable: "4" to 4 for an int, "30s" or 30 (seconds) for a time.Duration, a single string to a one-element []string. A field tagged
// `cascade:",required"` must be set by some source. Missing or unreadable sources, empty files, and unknown keys are not errors. A source that cannot be parsed, or a value that
// cannot be coerced, is an error naming the source; loading stops there.
func (c *Loader) StrictlyLoad(dest any) error {
	_, err := c.StrictlyLoadWithReport(dest)
	return err
}

// StrictlyLoadWithReport is StrictlyLoad, but also reports which sources contributed.
func (c *Loader) StrictlyLoadWithReport(dest any) (LoadReport, error) {
	var report LoadReport

	destVal := reflect.ValueOf(dest)
	if dest == nil || destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return report, fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	structVal := destVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return report, fmt.Errorf("dest must be a pointer to struct, got %s", structVal.Kind())
	}

	present := map[string]bool{}
	for _, src := range c.sources {
		m, err := src.ToMap()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return report, fmt.Errorf("%s: %w", src.Name(), err)
		}
		prov := src.Providence()
		if len(m) > 0 {
			report.Sources = append(report.Sources, prov)
		}

		d := decoder{prov: prov, present: present}
		if err := d.decodeStruct(structVal, m, ""); err != nil {
			return report, fmt.Errorf("%s: %w", src.Name(), err)
		}
	}

	if err := checkRequired(structVal, "", present); err != nil {
		return report, err
	}
	return report, nil
}

// findNearest walks from start toward the filesystem root and returns the first path dir/fileName whose contents are not blank, or "".
func findNearest(fileName string, start string) string {
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		}
	}
	if start == "" {
		return ""
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
