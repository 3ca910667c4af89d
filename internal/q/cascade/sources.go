package cascade

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// cascadeSource supplies key/value data to the loader in normalized form.
type cascadeSource interface {
	// Name returns a human-readable label used in error messages.
	Name() string

	// Providence identifies the source for fields it assigns.
	Providence() Providence

	// ToMap returns a normalized map:
	//   - keys are lower cased and contain no "." (dots are expanded into nested maps)
	//   - values are nil, string, bool, int, float64, []string, or a nested map[string]any
	ToMap() (map[string]any, error)
}

// sourceMap adapts a Go map into a cascadeSource.
type sourceMap struct {
	isDefaults bool
	m          map[string]any
}

// sourceJSONFile reads a single JSON object from a file at load time. Blank files contribute no values.
type sourceJSONFile struct {
	path string
}

// sourceEnv reads environment variables mapped to configuration keys.
type sourceEnv struct {
	keyToEnv map[string]string              // ex: {"tool.path": "MINEDIT_TOOL_PATH"}
	split    func(string) ([]string, error) // if non-nil, values become []string
}

func (s *sourceMap) Name() string {
	if s.isDefaults {
		return "Defaults"
	}
	return "Go Map"
}

func (s *sourceMap) Providence() Providence {
	if s.isDefaults {
		return Providence{SourceType: "default"}
	}
	return Providence{SourceType: "map"}
}

func (s *sourceMap) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for k, v := range s.m {
		if err := mergeIntoObject(out, strings.Split(k, "."), v, k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *sourceJSONFile) Name() string {
	return fmt.Sprintf("JSON File: %s", s.path)
}

func (s *sourceJSONFile) Providence() Providence {
	return Providence{SourceType: "json_file", SourceIdentifier: ExpandPath(s.path)}
}

func (s *sourceJSONFile) ToMap() (map[string]any, error) {
	if s.path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(ExpandPath(s.path))
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level JSON must be an object")
	}
	normalized, err := normalizeJSONMap(obj)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := mergeMap(out, normalized, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sourceEnv) Name() string {
	return "ENV"
}

func (s *sourceEnv) Providence() Providence {
	return Providence{SourceType: "env"}
}

// ToMap reads each mapped variable. Unset and empty variables set no key: an empty variable overriding a JSON file setting is almost never intended.
func (s *sourceEnv) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for key, envVar := range s.keyToEnv {
		if envVar == "" {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		var v any = val
		if s.split != nil {
			parts, err := s.split(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", envVar, err)
			}
			v = parts
		}
		if err := mergeIntoObject(out, strings.Split(key, "."), v, key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeIntoObject inserts value into obj along parts, lowercasing each segment. A map value at the leaf is deep-merged. Setting the same leaf twice, or descending through a non-object,
// is a key conflict. fullKey annotates errors.
func mergeIntoObject(obj map[string]any, parts []string, value any, fullKey string) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid key")
	}
	part := strings.ToLower(parts[0])

	if len(parts) > 1 {
		existing, ok := obj[part]
		if !ok {
			child := map[string]any{}
			obj[part] = child
			return mergeIntoObject(child, parts[1:], value, fullKey)
		}
		m, isMap := existing.(map[string]any)
		if !isMap {
			return fmt.Errorf("key conflict at '%s': '%s' is not an object", fullKey, part)
		}
		return mergeIntoObject(m, parts[1:], value, fullKey)
	}

	if mv, ok := value.(map[string]any); ok {
		existing, exists := obj[part]
		if !exists {
			dest := map[string]any{}
			obj[part] = dest
			return mergeMap(dest, mv, fullKey)
		}
		dest, isMap := existing.(map[string]any)
		if !isMap {
			return fmt.Errorf("key conflict: key '%s' was already set", fullKey)
		}
		return mergeMap(dest, mv, fullKey)
	}

	if err := validateAllowedValue(value); err != nil {
		return fmt.Errorf("invalid value for key '%s': %w", fullKey, err)
	}
	if _, exists := obj[part]; exists {
		return fmt.Errorf("key conflict: key '%s' was already set", fullKey)
	}
	obj[part] = value
	return nil
}

// mergeMap merges src into dest, expanding dotted keys. baseKey prefixes error paths.
func mergeMap(dest map[string]any, src map[string]any, baseKey string) error {
	for k, v := range src {
		full := strings.ToLower(k)
		if baseKey != "" {
			full = baseKey + "." + full
		}
		if err := mergeIntoObject(dest, strings.Split(k, "."), v, full); err != nil {
			return err
		}
	}
	return nil
}

func validateAllowedValue(v any) error {
	switch v.(type) {
	case nil, int, float64, bool, string, []string:
		return nil
	default:
		return fmt.Errorf("type %T is not allowed", v)
	}
}

func normalizeJSONMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		nv, err := normalizeJSONValue(v)
		if err != nil {
			return nil, fmt.Errorf("key '%s': %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

// normalizeJSONValue converts decoded JSON into allowed values. Arrays must hold only strings; an empty array is []string{}.
func normalizeJSONValue(v any) (any, error) {
	switch vv := v.(type) {
	case nil, string, bool, float64:
		return vv, nil
	case map[string]any:
		return normalizeJSONMap(vv)
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("array element %d is %T; only string arrays are supported", i, e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
