package stacktrace

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// rootPrefixes is the process-wide table of absolute root prefixes stripped
// from reported paths: the module's own source root and the Go installation
// root, both in forward-slash form.
//
// The table is computed at most once per process and shared by all
// normalizations. sync.OnceValue makes the lazy initialization safe under
// concurrent first use.
var rootPrefixes = sync.OnceValue(computeRootPrefixes)

// normalizeSelf is this file's path relative to the module root, used to
// recover the module root from the compile-time path of this file.
const normalizeSelf = "internal/stacktrace/normalize.go"

// computeRootPrefixes derives the prefix table from the runtime's view of
// this package and the Go installation.
func computeRootPrefixes() []string {
	var prefixes []string

	if _, file, _, ok := runtime.Caller(0); ok {
		file = filepath.ToSlash(file)
		if root := strings.TrimSuffix(file, "/"+normalizeSelf); root != file {
			prefixes = append(prefixes, root)
		}
	}

	if goroot := runtime.GOROOT(); goroot != "" {
		prefixes = append(prefixes, filepath.ToSlash(goroot))
	}

	return prefixes
}

// NormalizePath truncates path to root-relative form by stripping the first
// matching root prefix. Paths outside every known root are returned
// unchanged.
func NormalizePath(path string) string {
	return normalizeAgainst(path, rootPrefixes())
}

// normalizeAgainst is the prefix-stripping core, split out so tests can
// supply their own prefix table without touching the memoized one.
func normalizeAgainst(path string, prefixes []string) string {
	slashed := filepath.ToSlash(path)
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(slashed, prefix) {
			return strings.TrimPrefix(slashed, prefix)
		}
	}
	return path
}
