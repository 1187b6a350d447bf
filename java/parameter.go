package java

// Parameter is a formal parameter of a method or constructor. For a
// variadic parameter the type is the element type, as written before the
// ellipsis.
type Parameter struct {
	name        string
	index       int
	method      *Method
	typ         Type
	varArgs     bool
	annotations []Type
}

func (p *Parameter) Name() string        { return p.name }
func (p *Parameter) Index() int          { return p.index }
func (p *Parameter) Method() *Method     { return p.method }
func (p *Parameter) Type() Type          { return p.typ }
func (p *Parameter) IsVarArgs() bool     { return p.varArgs }
func (p *Parameter) Annotations() []Type { return p.annotations }

// declaredType is the type the parameter has inside the method body, so a
// variadic parameter is an array of its element type.
func (p *Parameter) declaredType() Type {
	if p.varArgs {
		return p.typ.arrayOf()
	}
	return p.typ
}

// ResolvedValue is the canonical name of the parameter type without array
// dimensions. A type variable declared by the method or by one of the
// enclosing classes resolves to its first bound, or to the root type when
// it is unbounded.
func (p *Parameter) ResolvedValue() string {
	if v := p.typeVariable(); v != nil {
		if len(v.Bounds) == 0 {
			return p.rootTypeName()
		}
		return v.Bounds[0].Value()
	}
	return p.typ.Value()
}

// ResolvedGenericValue is like ResolvedValue but keeps generic arguments.
func (p *Parameter) ResolvedGenericValue() string {
	if v := p.typeVariable(); v != nil {
		if len(v.Bounds) == 0 {
			return p.rootTypeName()
		}
		return v.Bounds[0].GenericValue()
	}
	t := p.typ
	t.Dims = 0
	return t.GenericValue()
}

// typeVariable finds the type parameter the parameter type names, looking
// at the method first and then outwards through the declaring classes.
func (p *Parameter) typeVariable() *TypeVariable {
	if p.method == nil {
		return p.typ.variable
	}
	name := p.typ.Name
	for _, v := range p.method.typeParams {
		if v.Name == name {
			return v
		}
	}
	for c := p.method.declaring; c != nil; c = c.outer {
		for _, v := range c.typeParams {
			if v.Name == name {
				return v
			}
		}
		if c.IsStatic() {
			break
		}
	}
	return p.typ.variable
}

func (p *Parameter) rootTypeName() string {
	if p.method != nil && p.method.declaring != nil {
		return p.method.declaring.library.rootTypeName()
	}
	return DefaultRootType
}

func (p *Parameter) String() string {
	s := p.typ.GenericValue()
	if p.varArgs {
		s += "..."
	}
	return s + " " + p.name
}
