package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RecursiveList walks dir and returns the suffix-stripped base name of every
// regular script file found. Nested directories are flattened and duplicate
// names are kept. A missing root yields an empty list.
func RecursiveList(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("scripts: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return []string{}, nil
	}

	names := make([]string, 0)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isRegularEntry(path, d) {
			return nil
		}
		if name, ok := scriptName(d.Name()); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scripts: walk %s: %w", dir, err)
	}
	return names, nil
}

func isRegularEntry(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	return isRegularFile(path)
}

// scriptName strips the canonical suffix. Dotfiles such as ".lua" are not
// scripts.
func scriptName(base string) (string, bool) {
	if filepath.Ext(base) != Suffix {
		return "", false
	}
	name := strings.TrimSuffix(base, Suffix)
	if name == "" {
		return "", false
	}
	return name, true
}
