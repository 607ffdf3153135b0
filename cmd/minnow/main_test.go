package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/internal/ictiobus/icterrors"
)

func Test_ReportDiagnostic_UsesFullMessageForDiagnosticErrors(t *testing.T) {
	assert := assert.New(t)

	old := os.Stderr
	r, w, err := os.Pipe()
	assert.NoError(err)
	os.Stderr = w

	reportDiagnostic(icterrors.NewSyntaxError("bad token"))

	w.Close()
	os.Stderr = old

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	assert.Contains(string(buf[:n]), "syntax error: bad token")
}

func Test_ReportDiagnostic_FallsBackToPlainErrorText(t *testing.T) {
	assert := assert.New(t)

	old := os.Stderr
	r, w, err := os.Pipe()
	assert.NoError(err)
	os.Stderr = w

	reportDiagnostic(errors.New("plain failure"))

	w.Close()
	os.Stderr = old

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	assert.Contains(string(buf[:n]), "plain failure")
}

func Test_ApplyConfigFile_MissingFileIsNotAnError(t *testing.T) {
	assert := assert.New(t)

	assert.NotPanics(func() {
		applyConfigFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	})
}

func Test_ApplyConfigFile_FillsUnsetFlagsOnly(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "minnow.toml")
	assert.NoError(os.WriteFile(cfgPath, []byte("out = \"from-config\"\nentry = \"entry-from-config.py\"\n"), 0o644))

	savedOut, savedEntry := *flagOut, *flagEntry
	savedOutFlag := *pflag.Lookup("out")
	defer func() {
		*flagOut = savedOut
		*flagEntry = savedEntry
		*pflag.Lookup("out") = savedOutFlag
	}()

	*flagOut = "out"
	pflag.Lookup("out").Changed = false
	*flagEntry = "program.py"
	pflag.Lookup("entry").Changed = false

	applyConfigFile(cfgPath)

	assert.Equal("from-config", *flagOut)
	assert.Equal("entry-from-config.py", *flagEntry)
}

func Test_ApplyConfigFile_DoesNotOverrideExplicitFlag(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "minnow.toml")
	assert.NoError(os.WriteFile(cfgPath, []byte("out = \"from-config\"\n"), 0o644))

	savedOut := *flagOut
	savedOutFlag := *pflag.Lookup("out")
	defer func() {
		*flagOut = savedOut
		*pflag.Lookup("out") = savedOutFlag
	}()

	*flagOut = "explicitly-set"
	pflag.Lookup("out").Changed = true

	applyConfigFile(cfgPath)

	assert.Equal("explicitly-set", *flagOut)
}
