package java

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Method is a method or constructor declared by a class.
type Method struct {
	name        string
	declaring   *Class
	constructor bool
	modifiers   []string
	typeParams  []*TypeVariable
	returns     Type
	params      []*Parameter
	exceptions  []Type
	annotations []Type
	comment     string
	tags        []*DocTag
	line        int
}

func (m *Method) Name() string                    { return m.name }
func (m *Method) DeclaringClass() *Class          { return m.declaring }
func (m *Method) IsConstructor() bool             { return m.constructor }
func (m *Method) Modifiers() []string             { return m.modifiers }
func (m *Method) TypeParameters() []*TypeVariable { return m.typeParams }
func (m *Method) Parameters() []*Parameter        { return m.params }
func (m *Method) Exceptions() []Type              { return m.exceptions }
func (m *Method) Annotations() []Type             { return m.annotations }
func (m *Method) Comment() string                 { return m.comment }
func (m *Method) Tags() []*DocTag                 { return m.tags }
func (m *Method) Line() int                       { return m.line }

// Returns is the declared return type; constructors return void.
func (m *Method) Returns() Type {
	if m.constructor {
		return Type{Name: "void"}
	}
	return m.returns
}

func (m *Method) hasModifier(mod string) bool {
	for _, s := range m.modifiers {
		if s == mod {
			return true
		}
	}
	return false
}

func (m *Method) IsPublic() bool       { return m.hasModifier("public") }
func (m *Method) IsProtected() bool    { return m.hasModifier("protected") }
func (m *Method) IsPrivate() bool      { return m.hasModifier("private") }
func (m *Method) IsStatic() bool       { return m.hasModifier("static") }
func (m *Method) IsFinal() bool        { return m.hasModifier("final") }
func (m *Method) IsAbstract() bool     { return m.hasModifier("abstract") }
func (m *Method) IsSynchronized() bool { return m.hasModifier("synchronized") }
func (m *Method) IsNative() bool       { return m.hasModifier("native") }
func (m *Method) IsDefault() bool      { return m.hasModifier("default") }

// IsVarArgs reports whether the last parameter is variadic.
func (m *Method) IsVarArgs() bool {
	return len(m.params) > 0 && m.params[len(m.params)-1].varArgs
}

func (m *Method) ParameterByName(name string) *Parameter {
	for _, p := range m.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (m *Method) TagsByName(name string) []*DocTag {
	var tags []*DocTag
	for _, t := range m.tags {
		if t.Name == name {
			tags = append(tags, t)
		}
	}
	return tags
}

// SignatureKey identifies the method for override detection: the name and
// the erased parameter types, with a variadic parameter counted as an
// array.
func (m *Method) SignatureKey() string {
	var sb strings.Builder
	sb.WriteString(m.name)
	sb.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.declaredType().Erasure().FullyQualifiedName())
	}
	sb.WriteByte(')')
	return sb.String()
}

// SignatureMatches reports whether a call of name with arguments of the
// given types would select this method. Without varArgs the arity must
// match and a variadic parameter only accepts its array type. With varArgs
// a variadic method also accepts any number of trailing arguments of its
// element type.
func (m *Method) SignatureMatches(name string, types []Type, varArgs bool) bool {
	if name != m.name {
		return false
	}
	n := len(m.params)
	if len(types) == n && m.paramsMatch(types, n) {
		return true
	}
	if !varArgs || !m.IsVarArgs() || len(types) < n-1 {
		return false
	}
	for i := 0; i < n-1; i++ {
		if !typeMatches(m.params[i].declaredType(), types[i]) {
			return false
		}
	}
	elem := m.params[n-1].typ
	for _, t := range types[n-1:] {
		if !typeMatches(elem, t) {
			return false
		}
	}
	return true
}

func (m *Method) paramsMatch(types []Type, n int) bool {
	for i := 0; i < n; i++ {
		if !typeMatches(m.params[i].declaredType(), types[i]) {
			return false
		}
	}
	return true
}

// typeMatches compares a declared parameter type with an argument type. A
// type variable parameter also matches its first bound.
func typeMatches(declared, actual Type) bool {
	if declared.Equal(actual) {
		return true
	}
	return declared.variable != nil && declared.Erasure().Equal(actual)
}

// DeclarationSignature renders the method as declared, e.g.
// "protected final void blah(int count, MyThing t) throws FishException".
// Access modifiers come first when withModifiers is set.
func (m *Method) DeclarationSignature(withModifiers bool) string {
	return m.signature(withModifiers, true)
}

// CallSignature renders the method as invoked, e.g. "blah(count, t)".
func (m *Method) CallSignature() string {
	return m.signature(false, false)
}

func (m *Method) signature(withModifiers, declaration bool) string {
	var sb strings.Builder
	if withModifiers {
		for _, mod := range m.modifiers {
			if isAccessModifier(mod) {
				sb.WriteString(mod + " ")
			}
		}
		for _, mod := range m.modifiers {
			if !isAccessModifier(mod) {
				sb.WriteString(mod + " ")
			}
		}
	}
	if declaration && !m.constructor {
		sb.WriteString(m.returns.GenericValue() + " ")
	}
	sb.WriteString(m.name)
	sb.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if declaration {
			sb.WriteString(p.typ.GenericValue())
			if p.varArgs {
				sb.WriteString("...")
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(p.name)
	}
	sb.WriteByte(')')
	if declaration && len(m.exceptions) > 0 {
		names := make([]string, len(m.exceptions))
		for i, e := range m.exceptions {
			names[i] = e.CanonicalName()
		}
		sb.WriteString(" throws " + strings.Join(names, ", "))
	}
	return sb.String()
}

func isAccessModifier(mod string) bool {
	return mod == "public" || mod == "protected" || mod == "private"
}

// String renders the method in the style of java.lang.reflect, with type
// variables replaced by their first bound:
// "public boolean java.lang.Object.equals(java.lang.Object)".
func (m *Method) String() string {
	var sb strings.Builder
	switch {
	case m.IsPrivate():
		sb.WriteString("private ")
	case m.IsProtected():
		sb.WriteString("protected ")
	case m.IsPublic():
		sb.WriteString("public ")
	}
	for _, mod := range []string{"abstract", "static", "final", "synchronized", "native"} {
		if m.hasModifier(mod) {
			sb.WriteString(mod + " ")
		}
	}
	if !m.constructor {
		sb.WriteString(m.returns.Erasure().FullyQualifiedName() + " ")
	}
	if m.declaring != nil {
		sb.WriteString(m.declaring.fqn)
		if !m.constructor {
			sb.WriteByte('.')
		}
	}
	if !m.constructor || m.declaring == nil {
		sb.WriteString(m.name)
	}
	sb.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.declaredType().Erasure().FullyQualifiedName())
	}
	sb.WriteByte(')')
	if len(m.exceptions) > 0 {
		names := make([]string, len(m.exceptions))
		for i, e := range m.exceptions {
			names[i] = e.Erasure().FullyQualifiedName()
		}
		sb.WriteString(" throws " + strings.Join(names, ","))
	}
	return sb.String()
}

// Equal compares the declaring class, name, return type, parameter types
// and variadic flag.
func (m *Method) Equal(o *Method) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	if !m.declaring.Equal(o.declaring) || m.name != o.name || m.constructor != o.constructor {
		return false
	}
	if !m.Returns().Equal(o.Returns()) || len(m.params) != len(o.params) {
		return false
	}
	for i, p := range m.params {
		q := o.params[i]
		if !p.typ.Equal(q.typ) || p.varArgs != q.varArgs {
			return false
		}
	}
	return true
}

// IsPropertyAccessor reports whether the method is a non-static, zero
// argument getX or isX method.
func (m *Method) IsPropertyAccessor() bool {
	if m.IsStatic() || len(m.params) != 0 || m.constructor {
		return false
	}
	return hasPropertyPrefix(m.name, "is") || hasPropertyPrefix(m.name, "get")
}

// IsPropertyMutator reports whether the method is a non-static, single
// argument setX method.
func (m *Method) IsPropertyMutator() bool {
	if m.IsStatic() || len(m.params) != 1 || m.constructor {
		return false
	}
	return hasPropertyPrefix(m.name, "set")
}

func hasPropertyPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return unicode.IsUpper(r)
}

// PropertyName derives the bean property name from a get, set or is
// prefix, or returns "" when the method has none.
func (m *Method) PropertyName() string {
	switch {
	case strings.HasPrefix(m.name, "get"), strings.HasPrefix(m.name, "set"):
		return decapitalize(m.name[3:])
	case strings.HasPrefix(m.name, "is"):
		return decapitalize(m.name[2:])
	}
	return ""
}

// PropertyType is the return type of an accessor or the parameter type of a
// mutator.
func (m *Method) PropertyType() (Type, bool) {
	switch {
	case m.IsPropertyAccessor():
		return m.returns, true
	case m.IsPropertyMutator():
		return m.params[0].typ, true
	}
	return Type{}, false
}

// decapitalize lower-cases the first character unless the first two are
// both upper case, so "URL" stays "URL" and "Name" becomes "name".
func decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, n := utf8.DecodeRuneInString(s)
	if len(s) > n {
		second, _ := utf8.DecodeRuneInString(s[n:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return s
		}
	}
	return string(unicode.ToLower(first)) + s[n:]
}

// MethodView is a method as seen from a class that inherits it. The
// embedded method still answers declaration questions against its true
// declaring class.
type MethodView struct {
	*Method
	CallingClass *Class
}

// IsInherited reports whether the method was declared by another class
// than the one it was looked up from.
func (v MethodView) IsInherited() bool {
	return !v.Method.declaring.Equal(v.CallingClass)
}
