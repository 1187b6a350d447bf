package java

import (
	"strings"
	"sync/atomic"
)

type ClassKind string

const (
	KindClass      ClassKind = "class"
	KindInterface  ClassKind = "interface"
	KindEnum       ClassKind = "enum"
	KindAnnotation ClassKind = "annotation"
)

// Origin records which provider created a class.
type Origin int

const (
	OriginSource Origin = iota
	OriginBinary
	OriginPlaceholder
)

func (o Origin) String() string {
	switch o {
	case OriginSource:
		return "source"
	case OriginBinary:
		return "binary"
	}
	return "placeholder"
}

// Handle identifies a class independently of its name. Handles are unique
// across all libraries of a process, so classes reached through a parent
// library never collide with local ones in a visited set.
type Handle uint64

var nextHandle atomic.Uint64

func newHandle() Handle {
	return Handle(nextHandle.Add(1))
}

// Class is a class, interface, enum or annotation type. Classes are created
// by a library and are unique per fully qualified name within it; the
// superclass and interfaces are held as type references and resolved
// through the library when queried.
type Class struct {
	library *Library
	handle  Handle
	origin  Origin
	loadErr error

	name        string
	fqn         string
	pkg         string
	kind        ClassKind
	modifiers   []string
	superclass  *Type
	interfaces  []Type
	typeParams  []*TypeVariable
	annotations []Type

	outer  *Class
	nested []*Class

	fields       []*Field
	methods      []*Method
	constructors []*Method

	comment string
	tags    []*DocTag
	source  *Source
	line    int
}

func (c *Class) Name() string               { return c.name }
func (c *Class) FullyQualifiedName() string { return c.fqn }
func (c *Class) CanonicalName() string      { return CanonicalName(c.fqn) }
func (c *Class) PackageName() string        { return c.pkg }
func (c *Class) Kind() ClassKind            { return c.kind }
func (c *Class) Handle() Handle             { return c.handle }
func (c *Class) Library() *Library          { return c.library }
func (c *Class) Origin() Origin             { return c.origin }
func (c *Class) Source() *Source            { return c.source }
func (c *Class) Line() int                  { return c.line }
func (c *Class) Comment() string            { return c.comment }
func (c *Class) Tags() []*DocTag            { return c.tags }
func (c *Class) Annotations() []Type        { return c.annotations }

// Package returns the package node the class belongs to.
func (c *Class) Package() *Package {
	return c.library.Package(c.pkg)
}

func (c *Class) IsInterface() bool  { return c.kind == KindInterface }
func (c *Class) IsEnum() bool       { return c.kind == KindEnum }
func (c *Class) IsAnnotation() bool { return c.kind == KindAnnotation }

// IsPlaceholder reports whether no provider could supply the class.
func (c *Class) IsPlaceholder() bool { return c.origin == OriginPlaceholder }

// LoadError returns the provider error that caused the class to be replaced
// by a placeholder, if any.
func (c *Class) LoadError() error { return c.loadErr }

func (c *Class) Modifiers() []string { return c.modifiers }

func (c *Class) hasModifier(mod string) bool {
	for _, m := range c.modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

func (c *Class) IsPublic() bool    { return c.hasModifier("public") }
func (c *Class) IsProtected() bool { return c.hasModifier("protected") }
func (c *Class) IsPrivate() bool   { return c.hasModifier("private") }
func (c *Class) IsAbstract() bool  { return c.hasModifier("abstract") || c.kind == KindInterface }
func (c *Class) IsFinal() bool     { return c.hasModifier("final") }
func (c *Class) IsStatic() bool    { return c.hasModifier("static") }

// DeclaringClass returns the enclosing class of a nested class.
func (c *Class) DeclaringClass() *Class { return c.outer }

// IsInner reports whether the class is nested in another class.
func (c *Class) IsInner() bool { return c.outer != nil }

func (c *Class) NestedClasses() []*Class { return c.nested }

// NestedClassByName finds a nested class by simple name or by a dotted path
// of simple names such as "Inner.Deeper" or "Inner$Deeper".
func (c *Class) NestedClassByName(name string) *Class {
	first, rest, more := strings.Cut(strings.ReplaceAll(name, NestedSeparator, "."), ".")
	for _, n := range c.nested {
		if n.name != first {
			continue
		}
		if !more {
			return n
		}
		return n.NestedClassByName(rest)
	}
	return nil
}

func (c *Class) TypeParameters() []*TypeVariable { return c.typeParams }

// Interfaces returns the declared interface references.
func (c *Class) Interfaces() []Type { return c.interfaces }

// Implements resolves the declared interfaces.
func (c *Class) Implements() []*Class {
	classes := make([]*Class, 0, len(c.interfaces))
	for _, t := range c.interfaces {
		if ic := t.Class(); ic != nil {
			classes = append(classes, ic)
		}
	}
	return classes
}

// Superclass returns the superclass reference. Enums always extend the
// library's enum base; a class without an explicit superclass extends the
// root type unless it is the root itself; interfaces and annotations have
// none. The answer is derived on every call from the owning library.
func (c *Class) Superclass() *Type {
	switch {
	case c.kind == KindEnum:
		t := Type{Name: c.library.enumBaseName(), library: c.library}
		return &t
	case c.kind == KindClass && c.superclass == nil && c.fqn != c.library.rootTypeName():
		t := Type{Name: c.library.rootTypeName(), library: c.library}
		return &t
	case c.kind == KindClass:
		return c.superclass
	}
	return nil
}

// SuperClass resolves the superclass.
func (c *Class) SuperClass() *Class {
	t := c.Superclass()
	if t == nil {
		return nil
	}
	return t.Class()
}

// AsType returns a reference to this class.
func (c *Class) AsType() Type {
	return Type{Name: c.fqn, library: c.library}
}

func (c *Class) Fields() []*Field { return c.fields }

func (c *Class) FieldByName(name string) *Field {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// EnumConstants returns the constants of an enum, or nil for other kinds.
func (c *Class) EnumConstants() []*Field {
	if c.kind != KindEnum {
		return nil
	}
	var constants []*Field
	for _, f := range c.fields {
		if f.enumConstant {
			constants = append(constants, f)
		}
	}
	return constants
}

func (c *Class) EnumConstantByName(name string) *Field {
	for _, f := range c.EnumConstants() {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Methods returns the methods declared by the class itself.
func (c *Class) Methods() []*Method { return c.methods }

func (c *Class) Constructors() []*Method { return c.constructors }

func (c *Class) ConstructorBySignature(types []Type, varArgs bool) *Method {
	for _, m := range c.constructors {
		if m.SignatureMatches(m.name, types, varArgs) {
			return m
		}
	}
	return nil
}

// TagByName returns the first of the class's own doc tags with the name.
func (c *Class) TagByName(name string) *DocTag {
	for _, t := range c.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Equal compares classes by fully qualified name.
func (c *Class) Equal(o *Class) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.fqn == o.fqn
}

func (c *Class) String() string {
	if c.kind == KindInterface || c.kind == KindAnnotation {
		return "interface " + c.fqn
	}
	return "class " + c.fqn
}
