// Package decl defines the declaration records produced by the source parser
// and the class-file reader. Both collaborators emit the same shape so the
// class library can build its model from either without caring where the
// declarations came from.
package decl

import "strings"

type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindAnnotation Kind = "annotation"
)

// File is one compilation unit: a source file, or a class file together with
// the member classes that were read alongside it.
type File struct {
	Path    string
	Package string
	Imports []Import
	Types   []*Type
	Content []byte
}

type Import struct {
	Name     string
	Static   bool
	Wildcard bool
}

// Type is a class, interface, enum or annotation declaration.
//
// Qualified reports whether the type references inside the record are
// already fully qualified (class files) or still raw as written (source).
type Type struct {
	Kind         Kind
	Name         string
	Modifiers    []string
	Superclass   *TypeRef
	Interfaces   []TypeRef
	TypeParams   []TypeParam
	Fields       []Field
	Methods      []Method
	Constructors []Method
	Nested       []*Type
	Annotations  []Annotation
	Doc          string
	Line         int
	Qualified    bool
}

// TypeRef is a reference to a type as written in a declaration. A wildcard
// argument has Name "?" and, when bounded, Wildcard set to "extends" or
// "super" with the bound as its only argument. Variable is set by readers
// that know a name refers to a type parameter.
type TypeRef struct {
	Name     string
	Dims     int
	Args     []TypeRef
	Wildcard string
	Variable bool
}

func (t TypeRef) String() string {
	if t.Name == "?" {
		if t.Wildcard == "" || len(t.Args) == 0 {
			return "?"
		}
		return "? " + t.Wildcard + " " + t.Args[0].String()
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

type TypeParam struct {
	Name   string
	Bounds []TypeRef
}

type Method struct {
	Name        string
	Modifiers   []string
	TypeParams  []TypeParam
	Returns     TypeRef
	Params      []Param
	Exceptions  []TypeRef
	Annotations []Annotation
	Doc         string
	Line        int
}

type Param struct {
	Name    string
	Type    TypeRef
	VarArgs bool
}

type Field struct {
	Name         string
	Type         TypeRef
	Modifiers    []string
	EnumConstant bool
	Annotations  []Annotation
	Doc          string
	Line         int
}

type Annotation struct {
	Type string
}

func HasModifier(mods []string, mod string) bool {
	for _, m := range mods {
		if m == mod {
			return true
		}
	}
	return false
}
