package java

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// objectSource stands in for the JDK root classes so tests can check
// members inherited from them.
const objectSource = `package java.lang;
public class Object {
    public boolean equals(Object obj) { return this == obj; }
    public native int hashCode();
    public String toString() { return null; }
}`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// newTestLibrary returns a library with one source root holding files.
func newTestLibrary(t *testing.T, files map[string]string, opts ...Option) *Library {
	t.Helper()
	l := NewLibrary(opts...)
	l.RegisterSourceRoot(writeTree(t, files))
	return l
}

func methodNames(views []MethodView) []string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.Name()
	}
	return names
}
