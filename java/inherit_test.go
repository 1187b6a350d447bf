package java

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubtypeOf(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"java/lang/Object.java": objectSource,
		"h/C.java":              "package h; public class C implements java.io.Serializable {}",
		"h/B.java":              "package h; public class B extends C implements Runnable {}",
		"h/A.java":              "package h; public class A extends B {}",
		"h/Other.java":          "package h; public class Other {}",
	})
	a, b, c := l.Resolve("h.A"), l.Resolve("h.B"), l.Resolve("h.C")
	other := l.Resolve("h.Other")
	object := l.Resolve("java.lang.Object")

	for _, cls := range []*Class{a, b, c, other, object} {
		assert.True(t, cls.IsSubtypeOf(cls), "%s is a subtype of itself", cls)
	}
	assert.True(t, a.IsSubtypeOf(b))
	assert.True(t, a.IsSubtypeOf(c), "subtyping is transitive")
	assert.True(t, a.IsSubtypeOf(object))
	assert.True(t, a.IsSubtypeOf(l.Resolve("java.lang.Runnable")))
	assert.False(t, c.IsSubtypeOf(a))
	assert.False(t, a.IsSubtypeOf(other))
	assert.False(t, a.IsSubtypeOf(nil))

	assert.True(t, a.IsA("java.io.Serializable"), "unresolved ancestors still count by name")
	assert.True(t, a.IsA("h.C"))
	assert.False(t, a.IsA("java.util.List"))
}

func TestIsSubtypeOfComparesByName(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"p/Base.java": "package p; public class Base {}",
		"p/Sub.java":  "package p; public class Sub extends Base {}",
	})
	other := NewLibrary()
	stranger := other.Resolve("p.Base")
	require.True(t, stranger.IsPlaceholder())

	assert.True(t, l.Resolve("p.Sub").IsSubtypeOf(stranger))
	assert.True(t, l.Resolve("p.Base").Equal(stranger))
}

func TestMergedMethodsDiamond(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"d/I1.java": "package d; public interface I1 { void m(); void one(); }",
		"d/I2.java": "package d; public interface I2 { void m(); void two(String s); }",
		"d/C.java":  "package d; public abstract class C implements I1, I2 { public void own() {} }",
	})
	c := l.Resolve("d.C")

	views := c.MergedMethods(true)
	assert.Equal(t, []string{"own", "m", "one", "two"}, methodNames(views))

	var m []MethodView
	for _, v := range views {
		if v.Name() == "m" {
			m = append(m, v)
		}
	}
	require.Len(t, m, 1)
	assert.Equal(t, "d.I1", m[0].DeclaringClass().FullyQualifiedName(), "the first declared interface wins")
	assert.Same(t, c, m[0].CallingClass)
	assert.True(t, m[0].IsInherited())

	assert.Equal(t, []string{"own"}, methodNames(c.MergedMethods(false)))
}

func TestMergedMethodsOverridesAndPrivates(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"java/lang/Object.java": objectSource,
		"o/Base.java": `package o;
public class Base {
    public String describe() { return "base"; }
    public void describe(int depth) {}
    private void secret() {}
    protected void hook() {}
}`,
		"o/Derived.java": `package o;
public class Derived extends Base {
    public String describe() { return "derived"; }
    private void mine() {}
    public String toString() { return ""; }
}`,
	})
	derived := l.Resolve("o.Derived")

	views := derived.MergedMethods(true)
	assert.Equal(t, []string{"describe", "toString", "describe", "hook", "equals", "hashCode"}, methodNames(views))
	assert.Equal(t, "o.Derived", views[0].DeclaringClass().FullyQualifiedName())
	assert.False(t, views[0].IsInherited())
	assert.Equal(t, "o.Derived", views[1].DeclaringClass().FullyQualifiedName())
	assert.Equal(t, "o.Base", views[2].DeclaringClass().FullyQualifiedName())
	assert.Equal(t, "java.lang.Object", views[4].DeclaringClass().FullyQualifiedName())

	assert.Equal(t, []string{"describe", "mine", "toString"}, methodNames(derived.MergedMethods(false)))
}

func TestMethodsBySignature(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"s/Base.java": `package s;
public class Base implements Api {
    private void hidden() {}
    public void run(int times) {}
}`,
		"s/Api.java":     "package s; public interface Api { void run(int times); void log(String... parts); }",
		"s/Derived.java": "package s; public class Derived extends Base { public void run(int times) {} }",
	})
	derived := l.Resolve("s.Derived")
	base := l.Resolve("s.Base")
	intType := []Type{NewType("int", 0)}

	all := derived.MethodsBySignature("run", intType, true, false)
	require.Len(t, all, 3)
	assert.Equal(t, "s.Derived", all[0].DeclaringClass().FullyQualifiedName())
	assert.Equal(t, "s.Base", all[1].DeclaringClass().FullyQualifiedName())
	assert.Equal(t, "s.Api", all[2].DeclaringClass().FullyQualifiedName())

	assert.Len(t, derived.MethodsBySignature("run", intType, false, false), 1)
	assert.Empty(t, derived.MethodsBySignature("hidden", nil, true, false))
	assert.NotNil(t, base.MethodBySignature("hidden", nil, false, false))
	assert.Nil(t, derived.MethodBySignature("run", []Type{NewType("long", 0)}, true, false))

	strs := []Type{NewType("java.lang.String", 0), NewType("java.lang.String", 0)}
	assert.NotNil(t, derived.MethodBySignature("log", strs, true, true))
	assert.Nil(t, derived.MethodBySignature("log", strs, true, false))
}

func TestBeanProperties(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"z/Animal.java": `package z;
public class Animal {
    public String getName() { return null; }
}`,
		"z/Dog.java": `package z;
public class Dog extends Animal {
    public boolean isGoodBoy() { return true; }
    public void setGoodBoy(boolean good) {}
    public String getURL() { return null; }
    public static Dog getInstance() { return null; }
    public int getAge(int offset) { return 0; }
    public void setup() {}
    public void settle(int a, int b) {}
}`,
	})
	dog := l.Resolve("z.Dog")

	props := dog.BeanProperties(true)
	var names []string
	for _, p := range props {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"goodBoy", "URL", "name"}, names)

	name := dog.BeanProperty("name", true)
	require.NotNil(t, name)
	assert.Equal(t, "java.lang.String", name.Type.FullyQualifiedName())
	require.NotNil(t, name.Accessor)
	assert.Nil(t, name.Mutator)
	assert.Equal(t, "z.Animal", name.Accessor.DeclaringClass().FullyQualifiedName())
	assert.Same(t, dog, name.Accessor.CallingClass)

	goodBoy := dog.BeanProperty("goodBoy", true)
	require.NotNil(t, goodBoy)
	assert.True(t, goodBoy.IsReadable())
	assert.True(t, goodBoy.IsWritable())
	assert.Equal(t, "boolean", goodBoy.Type.Name)

	assert.Nil(t, dog.BeanProperty("name", false))
	assert.Nil(t, dog.BeanProperty("instance", true), "static methods are not accessors")
	assert.Nil(t, dog.BeanProperty("age", true), "accessors take no arguments")
}

func TestBeanPropertyTypeLastWriterWins(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"q/Getter.java": "package q; public class Getter { public int getSize() { return 0; } public void setSize(String s) {} }",
		"q/Setter.java": "package q; public class Setter { public void setSize(String s) {} public int getSize() { return 0; } }",
	})

	assert.Equal(t, "java.lang.String", l.Resolve("q.Getter").BeanProperty("size", false).Type.FullyQualifiedName())
	assert.Equal(t, "int", l.Resolve("q.Setter").BeanProperty("size", false).Type.FullyQualifiedName())
}

func TestTagsByNameOverDiamond(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"t/Top.java": `package t;
/**
 * @since 1.0
 * @author top
 */
public interface Top {}`,
		"t/Left.java":  "package t;\n/** @author left */\npublic interface Left extends Top {}",
		"t/Right.java": "package t;\n/** @author right */\npublic interface Right extends Top {}",
		"t/Impl.java": `package t;
/**
 * An implementation.
 * @author impl
 */
public class Impl implements Left, Right {}`,
	})
	impl := l.Resolve("t.Impl")

	values := func(tags []*DocTag) []string {
		var vs []string
		for _, tag := range tags {
			vs = append(vs, tag.Value)
		}
		return vs
	}
	assert.Equal(t, []string{"impl", "left", "top", "right"}, values(impl.TagsByName("author", true)))
	assert.Equal(t, []string{"1.0"}, values(impl.TagsByName("since", true)))
	assert.Equal(t, []string{"impl"}, values(impl.TagsByName("author", false)))
	assert.Empty(t, impl.TagsByName("since", false))
	assert.Equal(t, "An implementation.", impl.Comment())
	assert.Equal(t, "impl", impl.TagByName("author").Value)
	assert.Same(t, impl, impl.TagByName("author").Context)
}

func TestDerivedClasses(t *testing.T) {
	l := newTestLibrary(t, map[string]string{
		"k/Animal.java": "package k; public class Animal {}",
		"k/Dog.java":    "package k; public class Dog extends Animal {}",
		"k/Puppy.java":  "package k; public class Puppy extends Dog {}",
		"k/Cat.java":    "package k; public class Cat {}",
	})
	require.NoError(t, l.Preload(context.Background()))

	var names []string
	for _, c := range l.Resolve("k.Animal").DerivedClasses() {
		names = append(names, c.FullyQualifiedName())
	}
	assert.ElementsMatch(t, []string{"k.Dog", "k.Puppy"}, names)
	assert.Empty(t, l.Resolve("k.Puppy").DerivedClasses())
}
