// Package cascade loads layered configuration into Go structs from multiple sources with predictable precedence.
//
// A Loader holds sources registered from lowest to highest priority with the With* methods; StrictlyLoad applies them in order to a destination struct.
//
// Sources
//   - Defaults from a map[string]any whose keys may use dot-notation to denote nesting.
//   - JSON files read at load time, either at a fixed path (WithJSONFile) or the nearest one found walking up from a directory (WithNearestJSONFile).
//   - Environment variables mapped to keys (WithEnv), optionally split into lists (WithEnvList).
//
// Keys are case-insensitive and dot-separated for nesting. A field's key is its cascade tag name, else its json tag name, else its Go name. Unknown keys are ignored. A field named
// XProvidence records which source last set field X.
//
// Example
//
//	type Config struct {
//	    Host    string `cascade:",required"`
//	    Timeout time.Duration
//	}
//
//	var cfg Config
//	err := New().
//	    WithDefaults(map[string]any{"host": "localhost", "timeout": "30s"}).
//	    WithNearestJSONFile(".app/config.json", "").
//	    WithEnv(map[string]string{"host": "APP_HOST"}).
//	    StrictlyLoad(&cfg)
package cascade
