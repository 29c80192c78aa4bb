package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
	require.NoError(t, err)
}

func TestLoader_Documents_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeDoc(t, dir, "base.yaml", `
name: base
default: true
sections:
  - name: Identity
    fields:
      - source: firstName
        label: First Name
      - source: dateOfBirth
        label: Date of Birth
        format: date
`)
	writeDoc(t, dir, "acme.yml", `
name: acme
extends: base
tenantId: "t-1"
addSections:
  - name: Clinical
    fields:
      - source: immunizations[0].name
        label: Immunization
`)

	ld, err := New(dir)()
	require.NoError(t, err)

	docs := ld.Documents()

	require.Len(t, docs, 2)
	assert.True(t, docs["base"].Default)
	assert.Equal(t, "base", docs["acme"].Extends)
	assert.Equal(t, "t-1", docs["acme"].TenantID)
	require.Len(t, docs["base"].Sections, 1)
	assert.Equal(t, "date", docs["base"].Sections[0].Fields[1].Format)
}

func TestLoader_Documents_SkipsMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeDoc(t, dir, "good.yaml", `
name: good
sections:
  - name: S
    fields:
      - source: a
        label: A
`)
	writeDoc(t, dir, "broken.yaml", "{not yaml: [")
	writeDoc(t, dir, "invalid.yaml", `
sections:
  - name: S
    fields:
      - source: a
        label: A
`)

	ld, err := New(dir)()
	require.NoError(t, err)

	docs := ld.Documents()

	require.Len(t, docs, 1)
	assert.Contains(t, docs, "good")
}

func TestLoader_Documents_IgnoresNonYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeDoc(t, dir, "readme.txt", "not a mapping")
	writeDoc(t, dir, "doc.yaml", "name: doc\n")

	ld, err := New(dir)()
	require.NoError(t, err)

	assert.Len(t, ld.Documents(), 1)
}

func TestLoader_DuplicateName_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeDoc(t, dir, "a.yaml", "name: twice\n")
	writeDoc(t, dir, "b.yaml", "name: twice\n")

	ld, err := New(dir)()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
	assert.Nil(t, ld)
}

func TestLoader_MissingDir_Fails(t *testing.T) {
	t.Parallel()

	ld, err := New("/nonexistent/mappings")()

	require.Error(t, err)
	assert.Nil(t, ld)
}

func TestLoader_FilePath_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file.yaml")

	err := os.WriteFile(path, []byte("name: x\n"), 0o600)
	require.NoError(t, err)

	ld, err := New(path)()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathIsFile)
	assert.Nil(t, ld)
}

func TestLoader_Documents_ReturnsCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeDoc(t, dir, "doc.yaml", "name: doc\n")

	ld, err := New(dir)()
	require.NoError(t, err)

	first := ld.Documents()
	delete(first, "doc")

	assert.Len(t, ld.Documents(), 1)
}
