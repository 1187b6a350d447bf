package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java"
)

const helperSource = `package shop.util;

/**
 * Money helpers.
 * @since 1.2
 */
public final class Money {
    public static final int SCALE = 2;
    private static int hidden;

    public static Money of(long cents, String currency) { return null; }
    public Money plus(Money other) { return null; }
    private static void reset() {}

    public static class Rounding {}
    private static class Secret {}
}
`

const orderSource = `package shop.orders;

import shop.util.Money;

public class Order {
    Money total;
    Line first;

    class Line {
        Money price = Money.of(1, "EUR");
    }
}
`

func newTestCodebase(t *testing.T) (*Codebase, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range map[string]string{
		"shop/util/Money.java":   helperSource,
		"shop/orders/Order.java": orderSource,
	} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	lib := java.NewLibrary()
	lib.RegisterSourceRoot(root)
	cb := New(lib, []string{root})
	require.NoError(t, cb.ScanFile(filepath.Join(root, "shop/orders/Order.java")))
	return cb, root
}

func TestClassAt(t *testing.T) {
	cb, root := newTestCodebase(t)
	path := filepath.Join(root, "shop/orders/Order.java")

	tests := []struct {
		name   string
		line   int
		column int
		fqn    string
	}{
		{"import", 3, 19, "shop.util.Money"},
		{"field type", 6, 5, "shop.util.Money"},
		{"end of identifier", 6, 9, "shop.util.Money"},
		{"nested class in scope", 7, 6, "shop.orders.Order$Line"},
		{"own class", 5, 14, "shop.orders.Order"},
		{"qualifier of a call", 10, 24, "shop.util.Money"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := cb.ClassAt(path, tt.line, tt.column)
			require.NotNil(t, cls)
			assert.Equal(t, tt.fqn, cls.FullyQualifiedName())
		})
	}

	assert.Nil(t, cb.ClassAt(path, 6, 2), "indentation")
	assert.Nil(t, cb.ClassAt(path, 99, 0))
	assert.Nil(t, cb.ClassAt(filepath.Join(root, "missing.java"), 1, 0))
}

func TestReferenceAt(t *testing.T) {
	content := []byte("a\n  java.util.Map.Entry<K, V> e;\r\n")
	assert.Equal(t, "java.util.Map.Entry", referenceAt(content, 2, 20))
	assert.Equal(t, "java.util.Map", referenceAt(content, 2, 13))
	assert.Equal(t, "java", referenceAt(content, 2, 2))
	assert.Equal(t, "", referenceAt(content, 2, 0))
	assert.Equal(t, "", referenceAt(content, 5, 0))
}

func TestHover(t *testing.T) {
	cb, root := newTestCodebase(t)
	text := cb.Hover(filepath.Join(root, "shop/orders/Order.java"), 6, 6)
	assert.Contains(t, text, "public final class shop.util.Money extends java.lang.Object")
	assert.Contains(t, text, "Money helpers.")
	assert.Contains(t, text, "*@since* 1.2")
}

func TestDefinition(t *testing.T) {
	cb, root := newTestCodebase(t)
	loc, ok := cb.Definition(filepath.Join(root, "shop/orders/Order.java"), 6, 6)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "shop/util/Money.java"), loc.Path)
	assert.Equal(t, 7, loc.Line)

	_, ok = cb.Definition(filepath.Join(root, "shop/orders/Order.java"), 1, 0)
	assert.False(t, ok)
}

func TestCompletionsAtPoint(t *testing.T) {
	cb, root := newTestCodebase(t)
	path := filepath.Join(root, "shop/orders/Order.java")
	file := cb.GetFile(path)
	require.NotNil(t, file)

	col := findTriggerPosition(file.Content, 10, 30)
	require.Equal(t, 27, col)

	items := cb.CompletionsAtPoint(path, 10, col)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"of", "SCALE", "Rounding"}, labels)
	assert.Equal(t, "of(${1:cents}, ${2:currency})", items[0].InsertText)
	assert.Equal(t, CompletionKindClass, items[2].Kind)
}

func TestFindTriggerPosition(t *testing.T) {
	content := []byte("x = Money.pl\ny = a + b")
	assert.Equal(t, 9, findTriggerPosition(content, 1, 12))
	assert.Equal(t, -1, findTriggerPosition(content, 2, 9))
	assert.Equal(t, -1, findTriggerPosition(content, 3, 0))
}

func TestScanFileRegistersNewSources(t *testing.T) {
	cb, root := newTestCodebase(t)
	path := filepath.Join(root, "shop/orders/Invoice.java")
	require.NoError(t, os.WriteFile(path, []byte("package shop.orders; public class Invoice {}"), 0o644))

	require.NoError(t, cb.ScanFile(path))
	require.True(t, cb.known(path))
	assert.False(t, cb.Library().Resolve("shop.orders.Invoice").IsPlaceholder())

	before := len(cb.Library().Sources())
	require.NoError(t, cb.ScanFile(path))
	assert.Len(t, cb.Library().Sources(), before)
}

func TestUpdateFileKeepsLastGoodParse(t *testing.T) {
	cb, root := newTestCodebase(t)
	path := filepath.Join(root, "shop/orders/Order.java")
	cb.UpdateFile(path, []byte("package shop.orders; class Order {"))

	f := cb.GetFile(path)
	require.Error(t, f.ParseErr)
	require.NotNil(t, f.File)
	assert.Equal(t, "shop.orders", f.File.Package)
}

func TestWatcherScan(t *testing.T) {
	cb, root := newTestCodebase(t)
	w := NewFileWatcher(cb)
	w.scan()
	assert.NotNil(t, cb.GetFile(filepath.Join(root, "shop/util/Money.java")))

	path := filepath.Join(root, "shop/orders/Order.java")
	require.NoError(t, os.Remove(path))
	w.scan()
	assert.Nil(t, cb.GetFile(path))
}

func TestWatcherSkipsPreloadedFiles(t *testing.T) {
	cb, root := newTestCodebase(t)
	require.NoError(t, cb.Library().Preload(context.Background()))
	money := filepath.Join(root, "shop/util/Money.java")
	require.NotNil(t, cb.Library().SourceByPath(money))
	sources := len(cb.Library().Sources())

	NewFileWatcher(cb).scan()

	assert.Nil(t, cb.GetFile(money), "loaded files that are not open stay unparsed")
	assert.NotNil(t, cb.GetFile(filepath.Join(root, "shop/orders/Order.java")))
	assert.Len(t, cb.Library().Sources(), sources)
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	got, err := uriToPath(string(pathToURI(path)))
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
