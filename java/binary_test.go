package java

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/classfile"
	"github.com/dhamidi/jmodel/classfile/classfiletest"
)

// compiledClasses returns class files keyed by jar entry name.
func compiledClasses() map[string][]byte {
	outer := classfiletest.New("com/example/Outer").
		Interfaces("java/lang/Comparable").
		Signature("<T:Ljava/lang/Number;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;").
		Field(classfile.AccPrivate|classfile.AccFinal, "name", "Ljava/lang/String;").
		Method(classfile.AccPublic, "<init>", "(Ljava/lang/String;)V", classfiletest.ParameterNames("name")).
		Method(classfile.AccStatic, "<clinit>", "()V").
		Method(classfile.AccPublic|classfile.AccVarargs, "format", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;",
			classfiletest.ParameterNames("pattern", "args")).
		Method(classfile.AccPublic, "compareTo", "(Ljava/lang/Number;)I",
			classfiletest.Signature("(TT;)I"),
			classfiletest.Throws("java/io/IOException"),
			classfiletest.ParameterNames("other")).
		Method(classfile.AccPublic|classfile.AccBridge, "compareTo", "(Ljava/lang/Object;)I").
		Method(classfile.AccPrivate|classfile.AccStatic|classfile.AccSynthetic, "lambda$format$0", "()V").
		InnerClass("com/example/Outer$Inner", "com/example/Outer", "Inner", classfile.AccPublic).
		InnerClass("com/example/Outer$Nested", "com/example/Outer", "Nested", classfile.AccPublic|classfile.AccStatic).
		InnerClass("com/example/Outer$1", "", "", 0).
		Bytes()

	inner := classfiletest.New("com/example/Outer$Inner").
		Field(classfile.AccFinal|classfile.AccSynthetic, "this$0", "Lcom/example/Outer;").
		Method(0, "<init>", "(Lcom/example/Outer;I)V",
			classfiletest.LocalVariables(
				classfiletest.LocalVar{Slot: 0, Name: "this", Desc: "Lcom/example/Outer$Inner;"},
				classfiletest.LocalVar{Slot: 1, Name: "this$0", Desc: "Lcom/example/Outer;"},
				classfiletest.LocalVar{Slot: 2, Name: "count", Desc: "I"},
			)).
		InnerClass("com/example/Outer$Inner", "com/example/Outer", "Inner", classfile.AccPublic).
		Bytes()

	nested := classfiletest.New("com/example/Outer$Nested").
		Method(classfile.AccPublic|classfile.AccStatic, "of", "(JI)Lcom/example/Outer$Nested;",
			classfiletest.LocalVariables(
				classfiletest.LocalVar{Slot: 0, Name: "value", Desc: "J"},
				classfiletest.LocalVar{Slot: 2, Name: "scale", Desc: "I"},
			)).
		Method(classfile.AccPublic, "plain", "(Ljava/lang/String;)V").
		InnerClass("com/example/Outer$Nested", "com/example/Outer", "Nested", classfile.AccPublic|classfile.AccStatic).
		Bytes()

	color := classfiletest.New("com/example/Color").
		Flags(classfile.AccPublic|classfile.AccFinal|classfile.AccSuper|classfile.AccEnum).
		Super("java/lang/Enum").
		Signature("Ljava/lang/Enum<Lcom/example/Color;>;").
		Field(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal|classfile.AccEnum, "RED", "Lcom/example/Color;").
		Field(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal|classfile.AccEnum, "GREEN", "Lcom/example/Color;").
		Field(classfile.AccPrivate|classfile.AccStatic|classfile.AccFinal|classfile.AccSynthetic, "$VALUES", "[Lcom/example/Color;").
		Method(classfile.AccPrivate, "<init>", "(Ljava/lang/String;I)V").
		Method(classfile.AccPublic|classfile.AccStatic, "values", "()[Lcom/example/Color;").
		Bytes()

	shape := classfiletest.New("com/example/Shape").
		Flags(classfile.AccPublic|classfile.AccInterface|classfile.AccAbstract).
		Method(classfile.AccPublic|classfile.AccAbstract, "area", "()D").
		Method(classfile.AccPublic, "describe", "()Ljava/lang/String;").
		Deprecated().
		Bytes()

	return map[string][]byte{
		"com/example/Outer.class":        outer,
		"com/example/Outer$Inner.class":  inner,
		"com/example/Outer$Nested.class": nested,
		"com/example/Color.class":        color,
		"com/example/Shape.class":        shape,
	}
}

func writeClassDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range compiledClasses() {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root
}

func writeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.jar")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range compiledClasses() {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func newBinaryLibrary(t *testing.T) *Library {
	t.Helper()
	l := NewLibrary()
	p, err := l.AddClassPath(writeClassDir(t))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return l
}

func TestSourceShadowsBinary(t *testing.T) {
	l := newBinaryLibrary(t)
	l.RegisterSourceRoot(writeTree(t, map[string]string{
		"com/example/Outer.java": "package com.example; public class Outer { public void fromSource() {} }",
	}))

	outer := l.Resolve("com.example.Outer")
	require.False(t, outer.IsPlaceholder())
	assert.Equal(t, OriginSource, outer.Origin())
	assert.Equal(t, []string{"fromSource"}, methodNames(outer.MergedMethods(false)))

	color := l.Resolve("com.example.Color")
	assert.Equal(t, OriginBinary, color.Origin())
}

func TestBinaryClass(t *testing.T) {
	l := newBinaryLibrary(t)
	outer := l.Resolve("com.example.Outer")

	require.False(t, outer.IsPlaceholder())
	assert.Equal(t, OriginBinary, outer.Origin())
	assert.Nil(t, outer.Source())
	assert.Equal(t, KindClass, outer.Kind())
	assert.Equal(t, []string{"public"}, outer.Modifiers())
	assert.Equal(t, "java.lang.Object", outer.Superclass().Name)

	require.Len(t, outer.TypeParameters(), 1)
	assert.Equal(t, "T extends java.lang.Number", outer.TypeParameters()[0].String())
	require.Len(t, outer.Interfaces(), 1)
	assert.Equal(t, "java.lang.Comparable<T>", outer.Interfaces()[0].GenericValue())

	require.Len(t, outer.Fields(), 1)
	assert.Equal(t, "private final java.lang.String com.example.Outer.name", outer.Fields()[0].String())

	require.Len(t, outer.Constructors(), 1)
	assert.Equal(t, "Outer(java.lang.String name)", outer.Constructors()[0].DeclarationSignature(false))

	assert.Equal(t, []string{"format", "compareTo"}, methodNames(outer.MergedMethods(false)))
	format := outer.Methods()[0]
	assert.True(t, format.IsVarArgs())
	assert.Equal(t, "public java.lang.String format(java.lang.String pattern, java.lang.Object... args)", format.DeclarationSignature(true))

	compareTo := outer.Methods()[1]
	assert.True(t, compareTo.Parameters()[0].Type().IsTypeVariable())
	assert.Equal(t, "java.lang.Number", compareTo.Parameters()[0].ResolvedValue())
	assert.Equal(t, "public int com.example.Outer.compareTo(java.lang.Number) throws java.io.IOException", compareTo.String())
	assert.True(t, outer.IsA("java.lang.Comparable"))
}

func TestBinaryNestedClasses(t *testing.T) {
	l := newBinaryLibrary(t)

	inner := l.Resolve("com.example.Outer$Inner")
	require.False(t, inner.IsPlaceholder())
	outer := inner.DeclaringClass()
	require.NotNil(t, outer)
	assert.Same(t, l.Resolve("com.example.Outer"), outer)
	assert.Len(t, outer.NestedClasses(), 2)
	assert.Same(t, inner, outer.NestedClassByName("Inner"))
	assert.Same(t, inner, l.Resolve("com.example.Outer.Inner"))

	assert.Equal(t, []string{"public"}, inner.Modifiers())
	assert.False(t, inner.IsStatic())
	assert.Empty(t, inner.Fields(), "synthetic fields are skipped")
	require.Len(t, inner.Constructors(), 1)
	assert.Equal(t, "Inner(int count)", inner.Constructors()[0].DeclarationSignature(false))

	nested := l.Resolve("com.example.Outer$Nested")
	assert.True(t, nested.IsStatic())
	of := nested.Methods()[0]
	assert.Equal(t, "of(value, scale)", of.CallSignature())
	assert.Equal(t, "com.example.Outer$Nested", of.Returns().FullyQualifiedName())
	assert.Equal(t, "com.example.Outer.Nested", of.Returns().CanonicalName())
	assert.Equal(t, "plain(p0)", nested.Methods()[1].CallSignature())
}

func TestBinaryEnumAndInterface(t *testing.T) {
	l := newBinaryLibrary(t)

	color := l.Resolve("com.example.Color")
	assert.True(t, color.IsEnum())
	assert.Equal(t, []string{"public", "final"}, color.Modifiers())
	assert.Equal(t, "java.lang.Enum", color.Superclass().Name)
	var constants []string
	for _, f := range color.EnumConstants() {
		constants = append(constants, f.Name())
	}
	assert.Equal(t, []string{"RED", "GREEN"}, constants)
	assert.NotNil(t, color.EnumConstantByName("GREEN"))
	require.Len(t, color.Constructors(), 1)
	assert.Empty(t, color.Constructors()[0].Parameters())
	assert.Equal(t, "com.example.Color[]", color.Methods()[0].Returns().FullyQualifiedName())

	shape := l.Resolve("com.example.Shape")
	assert.True(t, shape.IsInterface())
	assert.Nil(t, shape.Superclass())
	assert.Equal(t, []string{"public"}, shape.Methods()[0].Modifiers())
	assert.True(t, shape.Methods()[1].IsDefault())
	require.Len(t, shape.Annotations(), 1)
	assert.Equal(t, "java.lang.Deprecated", shape.Annotations()[0].Name)
}

func TestBinaryProviderReadsJars(t *testing.T) {
	l := NewLibrary()
	p, err := l.AddClassPath(writeJar(t))
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, l.ContainsReference("com.example.Color"))
	assert.False(t, l.ContainsReference("com.example.Missing"))
	color := l.Resolve("com.example.Color")
	assert.False(t, color.IsPlaceholder())
	assert.Len(t, color.EnumConstants(), 2)
	assert.Len(t, l.Resolve("com.example.Outer").NestedClasses(), 2)
}

func TestBinaryProviderRejectsMissingPath(t *testing.T) {
	_, err := NewLibrary().AddClassPath(filepath.Join(t.TempDir(), "missing.jar"))
	assert.Error(t, err)
}

func TestBinaryParseFailureIsReported(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bad"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad", "Broken.class"), []byte("not a class"), 0o644))

	l := NewLibrary()
	_, err := l.AddClassPath(root)
	require.NoError(t, err)

	_, err = l.Lookup("bad.Broken")
	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, l.Resolve("bad.Broken").IsPlaceholder())
}

func TestSourceExtendingBinaryClass(t *testing.T) {
	l := newBinaryLibrary(t)
	l.RegisterSourceRoot(writeTree(t, map[string]string{
		"app/Thing.java": `package app;
import com.example.*;
public class Thing extends Outer<Integer> implements Shape {
    public double area() { return 0; }
}`,
	}))

	thing := l.Resolve("app.Thing")
	require.Equal(t, OriginSource, thing.Origin())
	assert.Equal(t, "com.example.Outer<java.lang.Integer>", thing.Superclass().GenericValue())
	assert.Equal(t, OriginBinary, thing.SuperClass().Origin())
	assert.True(t, thing.IsA("java.lang.Comparable"))
	assert.True(t, thing.IsSubtypeOf(l.Resolve("com.example.Shape")))
	assert.Equal(t, []string{"area", "format", "compareTo", "describe"}, methodNames(thing.MergedMethods(true)))
}
