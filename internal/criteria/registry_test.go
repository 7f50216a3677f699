package criteria

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/attrmask"
)

func TestLookupWellKnown(t *testing.T) {
	r := NewRegistry()
	d, ok := r.Lookup("Size")
	require.True(t, ok)
	assert.Equal(t, ValueSize, d.ValueType)
	assert.True(t, d.BaseAttrMask.Has(attrmask.AttrSize))
}

func TestLookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("colour")
	assert.False(t, ok)
}

func TestLookupXattrDynamic(t *testing.T) {
	r := NewRegistry()
	d, ok := r.Lookup("xattr.project_id")
	require.True(t, ok)
	assert.True(t, d.IsXattr)
	assert.True(t, d.BaseAttrMask.Has(attrmask.AttrXattr))
}

func TestLoadExtensionsFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "criteria.toml")
	content := `
[[criteria]]
name = "project"
xattr_key = "project_id"
comparable = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadExtensions(path))

	d, ok := r.Lookup("project")
	require.True(t, ok)
	assert.True(t, d.IsXattr)
}
