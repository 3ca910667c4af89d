// Package pyfiles finds the Python source files named by command-line paths.
//
// Files named explicitly are always taken. Directories are walked recursively for Python files, skipping hidden directories, __pycache__, node_modules, and
// virtualenvs (any directory holding a pyvenv.cfg).
package pyfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var pythonExts = map[string]bool{
	".py":  true,
	".pyi": true,
	".pyw": true,
}

var skippedDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
}

// StdinPath is the path that means "read stdin". Collect passes it through.
const StdinPath = "-"

// IsPython reports whether path names a Python source file: a Python extension, or no extension and a "#!" line that mentions python. Only the first line of an
// extensionless file is read; unreadable files are not Python.
func IsPython(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		return pythonExts[ext]
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(line, "#!") && strings.Contains(line, "python")
}

// Collect expands paths into files, in argument order, with directories expanded in lexical order. A file reached twice is returned once. A path that does not
// exist is an error.
func Collect(paths []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if p == StdinPath {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDir(path, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && IsPython(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	return out, nil
}

func skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") || skippedDirs[name] {
		return true
	}
	_, err := os.Stat(filepath.Join(path, "pyvenv.cfg"))
	return !errors.Is(err, fs.ErrNotExist)
}
