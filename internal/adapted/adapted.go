// Use of code in this package is governed by Go's BSD-style license.

// Package adapted holds the host-command resolution logic musil's
// `exec` builtin needs on top of os/exec.
package adapted

import (
	"os"
	"strings"
)

// LookPath resolves name against path the way a shell would: a name
// that already looks like a path (starts with /, ./ or ../) bypasses
// path entirely, otherwise every directory in path is tried in turn.
// The bool result reports whether the resolved file is executable.
func LookPath(name, path string) (string, bool, error) {
	const notFound = "command not found"

	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		exe, err := findPath(name)
		if err == nil {
			return name, exe, nil
		}
		return "", false, &pathError{name, err.Error()}
	}

	if path == "" {
		return "", false, &pathError{name, notFound}
	}

	for _, dir := range strings.Split(path, ":") {
		candidate := dir + "/" + name
		if exe, err := findPath(candidate); err == nil {
			return candidate, exe, nil
		}
	}

	return "", false, &pathError{name, notFound}
}

type pathError struct {
	Path string
	Err  string
}

func (e *pathError) Error() string {
	return e.Path + ": " + e.Err
}

func findPath(file string) (bool, error) {
	d, err := os.Stat(file)
	if err != nil {
		return false, err
	}

	m := d.Mode()
	switch {
	case m.IsDir():
		return false, nil
	case m&0o111 != 0:
		return true, nil
	default:
		return false, os.ErrPermission
	}
}
