package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java/parser"
)

func TestSourceTypeNameResolution(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"n/util/Helper.java": "package n.util; public class Helper { public static class Tool {} }",
		"n/app/Sibling.java": "package n.app; public class Sibling {}",
		"n/app/Main.java": `package n.app;

import java.util.Map;
import n.util.*;
import n.util.Helper.Tool;

public class Main<K> {
    Map.Entry<K, String> entry;
    Sibling sibling;
    Helper helper;
    Tool tool;
    Local local;
    Inner inner;
    Thread thread;
    Unknown unknown;
    K key;
    java.util.List<? extends Number> numbers;
    n.util.Helper.Tool qualifiedTool;
    Main<K> self;

    class Inner {
        Inner next;
        Main<K> owner;
    }
}

class Local {}
`,
	})
	main := l.Resolve("n.app.Main")
	require.False(t, main.IsPlaceholder())

	tests := []struct {
		field   string
		fqn     string
		generic string
	}{
		{"entry", "java.util.Map$Entry", "java.util.Map.Entry<K,java.lang.String>"},
		{"sibling", "n.app.Sibling", "n.app.Sibling"},
		{"helper", "n.util.Helper", "n.util.Helper"},
		{"tool", "n.util.Helper$Tool", "n.util.Helper.Tool"},
		{"local", "n.app.Local", "n.app.Local"},
		{"inner", "n.app.Main$Inner", "n.app.Main.Inner"},
		{"thread", "java.lang.Thread", "java.lang.Thread"},
		{"unknown", "n.app.Unknown", "n.app.Unknown"},
		{"key", "K", "K"},
		{"numbers", "java.util.List", "java.util.List<? extends java.lang.Number>"},
		{"qualifiedTool", "n.util.Helper$Tool", "n.util.Helper.Tool"},
		{"self", "n.app.Main", "n.app.Main<K>"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := main.FieldByName(tt.field)
			require.NotNil(t, f)
			assert.Equal(t, tt.fqn, f.Type().FullyQualifiedName())
			assert.Equal(t, tt.generic, f.Type().GenericValue())
		})
	}

	assert.True(t, main.FieldByName("key").Type().IsTypeVariable())
	tool := main.FieldByName("tool").Type().Class()
	require.NotNil(t, tool)
	assert.False(t, tool.IsPlaceholder())
	assert.True(t, main.FieldByName("thread").Type().Class().IsPlaceholder())

	inner := main.NestedClassByName("Inner")
	require.NotNil(t, inner)
	assert.Equal(t, "n.app.Main$Inner", inner.FieldByName("next").Type().Name)
	assert.Equal(t, "n.app.Main", inner.FieldByName("owner").Type().Name)
	assert.True(t, inner.IsInner())
	assert.False(t, main.IsInner())
}

func TestTypeArraysAndPrimitives(t *testing.T) {
	l := NewLibrary()
	_, err := l.AddSourceString(`package p;
class Grid {
    int[][] cells;
    String[] names;
    void run() {}
}`)
	require.NoError(t, err)
	grid := l.Resolve("p.Grid")

	cells := grid.FieldByName("cells").Type()
	assert.True(t, cells.IsArray())
	assert.Equal(t, 2, cells.Dims)
	assert.Equal(t, "int[][]", cells.FullyQualifiedName())
	assert.Equal(t, "int", cells.Value())
	assert.True(t, cells.ElementType().ElementType().IsPrimitive())
	assert.Nil(t, cells.Class())

	names := grid.FieldByName("names").Type()
	assert.Equal(t, "java.lang.String[]", names.CanonicalName())
	assert.True(t, names.IsA(NewType("java.lang.String", 1)))
	assert.False(t, names.IsA(NewType("java.lang.String", 0)))

	assert.True(t, grid.Methods()[0].Returns().IsVoid())
	assert.False(t, grid.Methods()[0].Returns().IsPrimitive())
}

func TestResolveIn(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"n/util/Helper.java": "package n.util; public class Helper { public static class Tool {} }",
		"n/app/Main.java":    "package n.app; public class Main { class Inner {} }",
	})
	f, err := parser.Parse([]byte(`package n.app;
import n.util.Helper;
class Editing {}
`), "Editing.java")
	require.NoError(t, err)

	assert.Equal(t, "n.util.Helper", l.ResolveIn(f, "Helper", "").FullyQualifiedName())
	assert.Equal(t, "n.util.Helper$Tool", l.ResolveIn(f, "Helper.Tool", "").FullyQualifiedName())
	assert.Equal(t, "n.app.Main", l.ResolveIn(f, "Main", "").FullyQualifiedName())
	assert.Equal(t, "n.app.Main$Inner", l.ResolveIn(f, "Inner", "n.app.Main").FullyQualifiedName())
	assert.Equal(t, "java.lang.String", l.ResolveIn(f, "String", "").FullyQualifiedName())
	assert.True(t, l.ResolveIn(f, "Inner", "").IsPlaceholder())
}
