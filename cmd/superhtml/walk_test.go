package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmltok"
)

func TestParseMode(t *testing.T) {
	cases := map[string]elements.ValidationMode{
		"off":            elements.ModeOff,
		"standard":       elements.ModeStandard,
		"web-components": elements.ModeWebComponents,
	}
	for in, want := range cases {
		got, err := parseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := parseMode("bogus")
	assert.Error(t, err)
}

func TestWalkFilesSkipsUnrecognizedExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte(`<p>hi</p>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(`not html`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.shtml"), []byte(`<p :if="$true">hi</p>`), 0o644))

	var seen []string
	err := walkFiles([]string{dir}, elements.ModeStandard, func(pf parsedFile) error {
		seen = append(seen, filepath.Base(pf.path))
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.html", "c.shtml"}, seen)
}

func TestWalkFilesOnDirectFileRootIgnoresExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.weird")
	require.NoError(t, os.WriteFile(path, []byte(`<p>hi</p>`), 0o644))

	var seen []string
	err := walkFiles([]string{path}, elements.ModeStandard, func(pf parsedFile) error {
		seen = append(seen, pf.path)
		assert.Equal(t, htmltok.HTML, pf.lang)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, seen)
}
