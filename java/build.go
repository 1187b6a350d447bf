package java

import (
	"strings"

	"github.com/dhamidi/jmodel/java/decl"
	"github.com/dhamidi/jmodel/java/javadoc"
)

// builder turns the declarations of one file into classes. Type names in
// source declarations are resolved against the file's imports, the
// enclosing classes and the library's providers; names in class files are
// already qualified.
type builder struct {
	lib    *Library
	file   *decl.File
	origin Origin
	source *Source

	classes []*Class
	local   map[string]*Class
	decls   map[*Class]*decl.Type
}

func newBuilder(l *Library, f *decl.File, origin Origin, src *Source) *builder {
	return &builder{
		lib:    l,
		file:   f,
		origin: origin,
		source: src,
		local:  make(map[string]*Class),
		decls:  make(map[*Class]*decl.Type),
	}
}

// build returns the classes of the file, each enclosing class before the
// classes nested in it.
func (b *builder) build() ([]*Class, error) {
	for _, t := range b.file.Types {
		if err := validate(t, qualify(b.file.Package, t.Name)); err != nil {
			return nil, err
		}
	}
	for _, t := range b.file.Types {
		b.skeleton(t, nil)
	}
	for _, c := range b.classes {
		b.fill(c, b.decls[c])
	}
	return b.classes, nil
}

func validate(t *decl.Type, fqn string) error {
	if t.Superclass != nil && t.Kind != decl.KindClass {
		return &DeclarationError{Class: fqn, Reason: string(t.Kind) + " cannot extend " + t.Superclass.String()}
	}
	for _, methods := range [][]decl.Method{t.Constructors, t.Methods} {
		for _, m := range methods {
			for i, p := range m.Params {
				if p.VarArgs && i != len(m.Params)-1 {
					return &DeclarationError{Class: fqn, Reason: "variable arity parameter " + p.Name + " of " + m.Name + " is not last"}
				}
			}
		}
	}
	for _, n := range t.Nested {
		if err := validate(n, fqn+NestedSeparator+n.Name); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) skeleton(t *decl.Type, outer *Class) {
	fqn := qualify(b.file.Package, t.Name)
	if outer != nil {
		fqn = outer.fqn + NestedSeparator + t.Name
	}
	c := &Class{
		library:   b.lib,
		handle:    newHandle(),
		origin:    b.origin,
		name:      t.Name,
		fqn:       fqn,
		pkg:       b.file.Package,
		kind:      ClassKind(t.Kind),
		modifiers: t.Modifiers,
		outer:     outer,
		source:    b.source,
		line:      t.Line,
	}
	c.comment, c.tags = docOf(t.Doc, t.Line, c)
	if outer != nil {
		outer.nested = append(outer.nested, c)
	}
	b.classes = append(b.classes, c)
	b.local[fqn] = c
	b.decls[c] = t
	for _, n := range t.Nested {
		b.skeleton(n, c)
	}
}

func docOf(doc string, line int, context any) (string, []*DocTag) {
	if doc == "" {
		return "", nil
	}
	c := javadoc.Parse(doc, line)
	return c.Text, newDocTags(c, context)
}

// scope is the set of type variables visible at a declaration.
type scope struct {
	class  *Class
	method []*TypeVariable
}

func (s scope) variable(name string) *TypeVariable {
	for _, v := range s.method {
		if v.Name == name {
			return v
		}
	}
	for c := s.class; c != nil; c = c.outer {
		for _, v := range c.typeParams {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

func (b *builder) fill(c *Class, t *decl.Type) {
	c.typeParams = b.typeVariables(t.TypeParams, scope{class: c})
	sc := scope{class: c}
	if t.Superclass != nil {
		st := b.typeOf(*t.Superclass, sc, t.Qualified)
		c.superclass = &st
	}
	for _, i := range t.Interfaces {
		c.interfaces = append(c.interfaces, b.typeOf(i, sc, t.Qualified))
	}
	c.annotations = b.annotations(t.Annotations, sc, t.Qualified)

	for _, f := range t.Fields {
		field := &Field{
			name:         f.Name,
			declaring:    c,
			typ:          b.typeOf(f.Type, sc, t.Qualified),
			modifiers:    f.Modifiers,
			enumConstant: f.EnumConstant,
			annotations:  b.annotations(f.Annotations, sc, t.Qualified),
			line:         f.Line,
		}
		field.comment, field.tags = docOf(f.Doc, f.Line, field)
		c.fields = append(c.fields, field)
	}
	for _, m := range t.Methods {
		c.methods = append(c.methods, b.method(c, m, false, t.Qualified))
	}
	for _, m := range t.Constructors {
		c.constructors = append(c.constructors, b.method(c, m, true, t.Qualified))
	}
}

func (b *builder) method(c *Class, m decl.Method, constructor bool, qualified bool) *Method {
	method := &Method{
		name:        m.Name,
		declaring:   c,
		constructor: constructor,
		modifiers:   m.Modifiers,
		line:        m.Line,
	}
	if constructor {
		method.name = c.name
	}
	method.typeParams = b.typeVariables(m.TypeParams, scope{class: c})
	sc := scope{class: c, method: method.typeParams}
	if !constructor {
		method.returns = b.typeOf(m.Returns, sc, qualified)
	}
	for i, p := range m.Params {
		method.params = append(method.params, &Parameter{
			name:    p.Name,
			index:   i,
			method:  method,
			typ:     b.typeOf(p.Type, sc, qualified),
			varArgs: p.VarArgs,
		})
	}
	for _, e := range m.Exceptions {
		method.exceptions = append(method.exceptions, b.typeOf(e, sc, qualified))
	}
	method.annotations = b.annotations(m.Annotations, sc, qualified)
	method.comment, method.tags = docOf(m.Doc, m.Line, method)
	return method
}

// typeVariables declares the variables first so bounds may refer to any of
// them, as in <K extends Comparable<K>, V extends K>.
func (b *builder) typeVariables(params []decl.TypeParam, outer scope) []*TypeVariable {
	if len(params) == 0 {
		return nil
	}
	vars := make([]*TypeVariable, len(params))
	for i, p := range params {
		vars[i] = &TypeVariable{Name: p.Name}
	}
	sc := scope{class: outer.class, method: append(vars, outer.method...)}
	for i, p := range params {
		for _, bound := range p.Bounds {
			vars[i].Bounds = append(vars[i].Bounds, b.typeOf(bound, sc, b.qualified(outer.class)))
		}
	}
	return vars
}

func (b *builder) qualified(c *Class) bool {
	if t, ok := b.decls[c]; ok {
		return t.Qualified
	}
	return false
}

func (b *builder) annotations(as []decl.Annotation, sc scope, qualified bool) []Type {
	var types []Type
	for _, a := range as {
		types = append(types, b.typeOf(decl.TypeRef{Name: a.Type}, sc, qualified))
	}
	return types
}

func (b *builder) typeOf(ref decl.TypeRef, sc scope, qualified bool) Type {
	t := Type{Dims: ref.Dims, Wildcard: ref.Wildcard, library: b.lib}
	for _, a := range ref.Args {
		t.Args = append(t.Args, b.typeOf(a, sc, qualified))
	}
	switch {
	case ref.Name == "?" || primitiveTypes[ref.Name]:
		t.Name = ref.Name
	case qualified && !ref.Variable:
		t.Name = ref.Name
	default:
		if v := sc.variable(ref.Name); v != nil {
			t.Name = v.Name
			t.variable = v
		} else if qualified {
			t.Name = ref.Name
		} else {
			t.Name = b.resolveName(ref.Name, sc.class)
		}
	}
	return t
}

// resolveName resolves a type name as written in source to a fully
// qualified binary name. A qualified name whose first segment names a
// class in scope is resolved through that class; otherwise it is taken as
// package-qualified.
func (b *builder) resolveName(name string, c *Class) string {
	first, rest, qualified := strings.Cut(name, ".")
	if !qualified {
		fqn, _ := b.resolveSimple(name, c)
		return fqn
	}
	if fqn, ok := b.resolveSimple(first, c); ok {
		return fqn + NestedSeparator + strings.ReplaceAll(rest, ".", NestedSeparator)
	}
	return b.binaryName(name)
}

// resolveSimple looks up a simple name in the enclosing classes, the
// single-type imports, the file's own types, the package, the on-demand
// imports and java.lang, in that order. It reports false when the name
// was not found and the package-qualified default was returned.
func (b *builder) resolveSimple(name string, c *Class) (string, bool) {
	for o := c; o != nil; o = o.outer {
		if o.name == name {
			return o.fqn, true
		}
		if n := o.NestedClassByName(name); n != nil {
			return n.fqn, true
		}
	}
	for _, imp := range b.file.Imports {
		if !imp.Static && !imp.Wildcard && lastSegment(imp.Name) == name {
			return b.binaryName(imp.Name), true
		}
	}
	for _, t := range b.file.Types {
		if t.Name == name {
			return qualify(b.file.Package, name), true
		}
	}
	if fqn := qualify(b.file.Package, name); b.known(fqn) {
		return fqn, true
	}
	for _, imp := range b.file.Imports {
		if !imp.Wildcard {
			continue
		}
		if fqn := imp.Name + "." + name; !imp.Static && b.known(fqn) {
			return fqn, true
		}
		if fqn := b.binaryName(imp.Name) + NestedSeparator + name; b.known(fqn) {
			return fqn, true
		}
	}
	if fqn := "java.lang." + name; javaLangTypes[name] || b.known(fqn) {
		return fqn, true
	}
	return qualify(b.file.Package, name), false
}

// binaryName converts a dotted name such as java.util.Map.Entry to the
// binary name java.util.Map$Entry by finding the longest prefix that names
// a known class.
func (b *builder) binaryName(dotted string) string {
	segments := strings.Split(dotted, ".")
	for i := len(segments); i > 0; i-- {
		prefix := strings.Join(segments[:i], ".")
		if !b.known(prefix) {
			continue
		}
		if i == len(segments) {
			return prefix
		}
		return prefix + NestedSeparator + strings.Join(segments[i:], NestedSeparator)
	}
	return dotted
}

func (b *builder) known(fqn string) bool {
	if _, ok := b.local[fqn]; ok {
		return true
	}
	return b.lib.ContainsReference(fqn)
}
