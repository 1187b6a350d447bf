package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java"
)

func TestLoadConfigAddsCommandLineRoots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src/main/java"), 0o755))

	flags = globalFlags{dir: dir, sourceRoots: []string{"gen"}, classPath: []string{"x.jar"}}
	t.Cleanup(func() { flags = globalFlags{} })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main/java", "gen"}, cfg.SourceRoots)
	assert.Equal(t, []string{"x.jar"}, cfg.ClassPath)
}

func TestWithClass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src/main/java/p/A.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("package p; public class A {}"), 0o644))

	flags = globalFlags{dir: dir}
	t.Cleanup(func() { flags = globalFlags{} })

	var got string
	require.NoError(t, withClass("p.A", func(c *java.Class) error {
		got = c.FullyQualifiedName()
		return nil
	}))
	assert.Equal(t, "p.A", got)

	err := withClass("p.Missing", func(*java.Class) error { return nil })
	assert.ErrorContains(t, err, "class p.Missing not found")
}
