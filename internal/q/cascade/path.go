package cascade

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandPath returns path as an absolute path, replacing a leading "~" with the user's home directory. "~/" and "~\" are both accepted on every OS. "~user" forms are left alone.
// The empty string stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if rest, ok := cutHome(path); ok {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			path = filepath.Join(home, rest)
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// cutHome reports whether path starts with a bare home reference and returns what follows it.
func cutHome(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	if rest[0] == '/' || rest[0] == '\\' {
		return rest[1:], true
	}
	return "", false
}

// InUserConfigDirectory joins subPath onto the directory where per-user config lives: the home directory, or %USERPROFILE%\AppData\Local on Windows.
func InUserConfigDirectory(subPath string) string {
	base := "~"
	if runtime.GOOS == "windows" {
		base = "~/AppData/Local"
	}
	return filepath.Join(ExpandPath(base), subPath)
}
