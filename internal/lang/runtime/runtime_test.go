package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CopyTo_WritesEmbeddedResourceFiles(t *testing.T) {
	assert := assert.New(t)

	dest := filepath.Join(t.TempDir(), "lib")
	assert.NoError(CopyTo(dest))

	data, err := os.ReadFile(filepath.Join(dest, "minnow_runtime.py"))
	assert.NoError(err)
	assert.Contains(string(data), "class Object")
	assert.Contains(string(data), "def isinstance_of")
}

func Test_CopyTo_CreatesDestinationDir(t *testing.T) {
	assert := assert.New(t)

	dest := filepath.Join(t.TempDir(), "a", "b", "lib")
	assert.NoError(CopyTo(dest))

	info, err := os.Stat(dest)
	assert.NoError(err)
	assert.True(info.IsDir())
}

func Test_CopyTo_Idempotent(t *testing.T) {
	assert := assert.New(t)

	dest := filepath.Join(t.TempDir(), "lib")
	assert.NoError(CopyTo(dest))
	assert.NoError(CopyTo(dest))

	data, err := os.ReadFile(filepath.Join(dest, "minnow_runtime.py"))
	assert.NoError(err)
	assert.NotEmpty(data)
}

func Test_ModuleName_MatchesImportTarget(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("minnow_runtime", ModuleName)
}
