// Package runtime holds the fixed bundle of target-surface support files
// that ship alongside every emitted program (§5: "the library of built-in
// runtime classes shipped alongside generated output"). The bundle is not
// generated from the source program -- it is copied verbatim into the
// output library directory every run, the way the original transpiler's
// builtin module sits next to its own emitted output.
package runtime

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed resources
var bundle embed.FS

const resourceDir = "resources"

// ModuleName is the Python module name the emitted program imports the
// runtime support from (`from minnow_runtime import *`).
const ModuleName = "minnow_runtime"

// CopyTo writes every file in the bundle into libDir, creating it if
// necessary. It is called once per compiler run, after a successful emit,
// to populate out/<libdir>/ alongside the emitted entry file.
func CopyTo(libDir string) error {
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return fmt.Errorf("creating runtime library dir: %w", err)
	}

	entries, err := fs.ReadDir(bundle, resourceDir)
	if err != nil {
		return fmt.Errorf("reading embedded runtime bundle: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(bundle, filepath.Join(resourceDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading embedded runtime file %s: %w", entry.Name(), err)
		}
		dest := filepath.Join(libDir, entry.Name())
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("writing runtime file %s: %w", dest, err)
		}
	}
	return nil
}
