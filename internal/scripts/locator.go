package scripts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// Suffix is the canonical script extension.
	Suffix = ".lua"
	// DefaultDir is the managed scripts directory, relative to the working directory.
	DefaultDir = "../scripts"
)

var (
	ErrNotFound = errors.New("scripts: not found")
	// ErrNotLocated marks a relative suffixed identifier that matched nowhere
	// in the search order. Callers terminate with exit status 1.
	ErrNotLocated = fmt.Errorf("%w: could not locate script", ErrNotFound)
)

// Reference is one resolved script identifier.
type Reference struct {
	Identifier string
	HasSuffix  bool
	Path       string
	// Trusted is set when the script came from the managed directory only.
	Trusted bool
}

// Locator resolves identifiers against an ordered search context:
// working directory, managed scripts directory, then SearchPath.
type Locator struct {
	WorkDir    string
	ScriptsDir string
	SearchPath []string
	logger     zerolog.Logger
}

// ManagedDir anchors a relative scripts directory at workDir. An empty dir
// means DefaultDir.
func ManagedDir(workDir, dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workDir, dir)
	}
	return filepath.Clean(dir)
}

// NewLocator builds a locator over the managed directory derived from
// workDir and scriptsDir.
func NewLocator(workDir, scriptsDir string, searchPath []string, logger zerolog.Logger) *Locator {
	return &Locator{
		WorkDir:    workDir,
		ScriptsDir: ManagedDir(workDir, scriptsDir),
		SearchPath: searchPath,
		logger:     logger,
	}
}

// SearchPathFromEnv splits a PATH-like value and keeps existing directories
// in listed order.
func SearchPathFromEnv(value string) []string {
	dirs := make([]string, 0)
	for _, dir := range filepath.SplitList(value) {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Resolve maps identifier to an existing script file.
//
// Suffixed identifiers are paths: absolute ones must exist, relative ones are
// searched in the working directory, the managed directory and SearchPath, in
// that order. Suffix-less identifiers are looked up by base name in the
// managed directory only and come back Trusted.
func (l *Locator) Resolve(identifier string) (Reference, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return Reference{}, fmt.Errorf("%w: empty script identifier", ErrNotFound)
	}
	ref := Reference{Identifier: id, HasSuffix: strings.HasSuffix(id, Suffix)}

	if !ref.HasSuffix {
		return l.resolveManaged(ref)
	}
	if filepath.IsAbs(id) {
		if !isRegularFile(id) {
			return Reference{}, fmt.Errorf("%w: file does not exist: %s", ErrNotFound, id)
		}
		ref.Path = id
		return ref, nil
	}

	for _, dir := range l.searchOrder() {
		candidate := filepath.Join(dir, id)
		if !isRegularFile(candidate) {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return Reference{}, fmt.Errorf("scripts: resolve %s: %w", candidate, err)
		}
		ref.Path = abs
		l.logger.Debug().Str("identifier", id).Str("path", abs).Msg("script located")
		return ref, nil
	}
	return Reference{}, fmt.Errorf("%w: %s", ErrNotLocated, id)
}

func (l *Locator) resolveManaged(ref Reference) (Reference, error) {
	candidate := filepath.Join(l.ScriptsDir, filepath.Base(ref.Identifier)+Suffix)
	if !isRegularFile(candidate) {
		l.logger.Warn().Str("path", candidate).Msg("script path unaccepted")
		return Reference{}, fmt.Errorf("%w: script not available: %s", ErrNotFound, ref.Identifier)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return Reference{}, fmt.Errorf("scripts: resolve %s: %w", candidate, err)
	}
	ref.Path = abs
	ref.Trusted = true
	return ref, nil
}

func (l *Locator) searchOrder() []string {
	order := make([]string, 0, len(l.SearchPath)+2)
	order = append(order, l.WorkDir, l.ScriptsDir)
	return append(order, l.SearchPath...)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
