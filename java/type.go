package java

import "strings"

// Type is a reference to a type: a fully qualified class name, a primitive
// or a type variable, with array dimensions and generic arguments. The
// referenced class is looked up through the owning library on demand.
type Type struct {
	Name     string
	Dims     int
	Args     []Type
	Wildcard string

	variable *TypeVariable
	library  *Library
}

// TypeVariable is a declared type parameter such as T extends Number.
type TypeVariable struct {
	Name   string
	Bounds []Type
}

// NewType creates an unbound type reference, typically to describe call
// site argument types for signature matching.
func NewType(name string, dims int) Type {
	return Type{Name: name, Dims: dims}
}

// ParseType reads a type name with optional array brackets, such as
// "java.lang.String[]" or "int...". A trailing ellipsis counts as one
// dimension.
func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	dims := 0
	if strings.HasSuffix(s, "...") {
		s = strings.TrimSuffix(s, "...")
		dims++
	}
	name, n := stripDims(s)
	return Type{Name: name, Dims: dims + n}
}

func (t Type) FullyQualifiedName() string {
	return t.Name + strings.Repeat("[]", t.Dims)
}

// Value is the canonical name without array dimensions.
func (t Type) Value() string {
	return CanonicalName(t.Name)
}

func (t Type) CanonicalName() string {
	return t.Value() + strings.Repeat("[]", t.Dims)
}

// GenericValue renders the canonical name with generic arguments.
func (t Type) GenericValue() string {
	var sb strings.Builder
	t.writeGeneric(&sb)
	return sb.String()
}

func (t Type) writeGeneric(sb *strings.Builder) {
	if t.Name == "?" {
		sb.WriteByte('?')
		if t.Wildcard != "" && len(t.Args) > 0 {
			sb.WriteString(" " + t.Wildcard + " ")
			t.Args[0].writeGeneric(sb)
		}
		return
	}
	sb.WriteString(t.Value())
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			a.writeGeneric(sb)
		}
		sb.WriteByte('>')
	}
	sb.WriteString(strings.Repeat("[]", t.Dims))
}

func (t Type) String() string {
	return t.GenericValue()
}

func (t Type) IsPrimitive() bool {
	return t.Dims == 0 && t.Name != "void" && primitiveTypes[t.Name]
}

func (t Type) IsVoid() bool {
	return t.Name == "void" && t.Dims == 0
}

func (t Type) IsArray() bool {
	return t.Dims > 0
}

func (t Type) ElementType() Type {
	if t.Dims == 0 {
		return t
	}
	e := t
	e.Dims--
	return e
}

func (t Type) arrayOf() Type {
	a := t
	a.Dims++
	return a
}

// IsTypeVariable reports whether the type names a type parameter that was
// in scope where the reference was declared.
func (t Type) IsTypeVariable() bool {
	return t.variable != nil
}

func (t Type) Variable() *TypeVariable {
	return t.variable
}

// Equal compares canonical names and dimensions. Generic arguments and the
// library a type is bound to do not take part.
func (t Type) Equal(o Type) bool {
	return t.Dims == o.Dims && t.Value() == o.Value()
}

// Erasure replaces a type variable by the erasure of its first bound, or by
// the root type when it has none.
func (t Type) Erasure() Type {
	return t.erasure(0)
}

func (t Type) erasure(depth int) Type {
	if t.variable == nil || depth > 16 {
		return Type{Name: t.Name, Dims: t.Dims, library: t.library}
	}
	if len(t.variable.Bounds) == 0 {
		return Type{Name: t.library.rootTypeName(), Dims: t.Dims, library: t.library}
	}
	e := t.variable.Bounds[0].erasure(depth + 1)
	e.Dims += t.Dims
	return e
}

// Class resolves the class the type refers to. Primitives, void and unbound
// types have none; a type variable yields the class of its erasure.
func (t Type) Class() *Class {
	if t.library == nil || primitiveTypes[t.Name] || t.Name == "?" {
		return nil
	}
	if t.variable != nil {
		return t.Erasure().Class()
	}
	return t.library.Resolve(t.Name)
}

// IsA reports whether a value of type t can be assigned to o, comparing
// dimensions exactly and classes by subtyping.
func (t Type) IsA(o Type) bool {
	if t.Equal(o) {
		return true
	}
	if t.Dims != o.Dims {
		return false
	}
	c := t.Class()
	if c == nil {
		return false
	}
	return c.IsA(o.Erasure().Name)
}

func (v *TypeVariable) String() string {
	if len(v.Bounds) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Bounds))
	for i, b := range v.Bounds {
		parts[i] = b.GenericValue()
	}
	return v.Name + " extends " + strings.Join(parts, " & ")
}
