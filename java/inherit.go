package java

// IsSubtypeOf reports whether c is o, extends it, or implements it, directly
// or through any ancestor. Classes are compared by fully qualified name.
func (c *Class) IsSubtypeOf(o *Class) bool {
	if c == nil || o == nil {
		return false
	}
	return c.isSubtypeOf(o, map[Handle]bool{})
}

func (c *Class) isSubtypeOf(o *Class, visited map[Handle]bool) bool {
	if c == o || c.fqn == o.fqn {
		return true
	}
	if visited[c.handle] {
		return false
	}
	visited[c.handle] = true
	for _, ic := range c.Implements() {
		if ic.isSubtypeOf(o, visited) {
			return true
		}
	}
	if sc := c.SuperClass(); sc != nil {
		return sc.isSubtypeOf(o, visited)
	}
	return false
}

// IsA reports whether c is a subtype of the class with the given fully
// qualified name. The name does not need to resolve.
func (c *Class) IsA(fqn string) bool {
	return c.isA(fqn, map[Handle]bool{})
}

func (c *Class) isA(fqn string, visited map[Handle]bool) bool {
	if c.fqn == fqn {
		return true
	}
	if visited[c.handle] {
		return false
	}
	visited[c.handle] = true
	for _, ic := range c.Implements() {
		if ic.isA(fqn, visited) {
			return true
		}
	}
	if sc := c.SuperClass(); sc != nil {
		return sc.isA(fqn, visited)
	}
	return false
}

// MergedMethods returns the methods callable on c. Without inherited it is
// every declared method. With inherited, the non-private methods of c come
// first, followed by those of the superclass hierarchy and then of each
// interface in declaration order; a signature already seen is never added
// again, so overriding methods hide the ones they override and a method
// reachable along several interface paths appears once.
func (c *Class) MergedMethods(inherited bool) []MethodView {
	if !inherited {
		views := make([]MethodView, len(c.methods))
		for i, m := range c.methods {
			views[i] = MethodView{Method: m, CallingClass: c}
		}
		return views
	}
	var views []MethodView
	seen := map[string]bool{}
	c.mergeMethods(c, seen, map[Handle]bool{}, &views)
	return views
}

func (c *Class) mergeMethods(calling *Class, seen map[string]bool, visited map[Handle]bool, views *[]MethodView) {
	if visited[c.handle] {
		return
	}
	visited[c.handle] = true
	for _, m := range c.methods {
		if m.IsPrivate() {
			continue
		}
		key := m.SignatureKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		*views = append(*views, MethodView{Method: m, CallingClass: calling})
	}
	if sc := c.SuperClass(); sc != nil {
		sc.mergeMethods(calling, seen, visited, views)
	}
	for _, ic := range c.Implements() {
		ic.mergeMethods(calling, seen, visited, views)
	}
}

// MethodsBySignature returns every method named name that accepts
// arguments of the given types: the class's own first, then, with
// inherited, those of the superclass hierarchy and the interfaces.
// Private methods of ancestors are not visible.
func (c *Class) MethodsBySignature(name string, types []Type, inherited, varArgs bool) []*Method {
	var methods []*Method
	c.methodsBySignature(name, types, inherited, varArgs, true, map[Handle]bool{}, &methods)
	return methods
}

func (c *Class) methodsBySignature(name string, types []Type, inherited, varArgs, own bool, visited map[Handle]bool, out *[]*Method) {
	if visited[c.handle] {
		return
	}
	visited[c.handle] = true
	for _, m := range c.methods {
		if !own && m.IsPrivate() {
			continue
		}
		if m.SignatureMatches(name, types, varArgs) {
			*out = append(*out, m)
		}
	}
	if !inherited {
		return
	}
	if sc := c.SuperClass(); sc != nil {
		sc.methodsBySignature(name, types, inherited, varArgs, false, visited, out)
	}
	for _, ic := range c.Implements() {
		ic.methodsBySignature(name, types, inherited, varArgs, false, visited, out)
	}
}

// MethodBySignature returns the first match of MethodsBySignature.
func (c *Class) MethodBySignature(name string, types []Type, inherited, varArgs bool) *Method {
	if ms := c.MethodsBySignature(name, types, inherited, varArgs); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

// BeanProperties infers properties from the getX, isX and setX methods of
// MergedMethods. Properties are ordered by first appearance. When an
// accessor and a mutator disagree on the type, the method seen last
// decides it.
func (c *Class) BeanProperties(inherited bool) []*BeanProperty {
	var props []*BeanProperty
	byName := map[string]*BeanProperty{}
	for _, v := range c.MergedMethods(inherited) {
		accessor := v.IsPropertyAccessor()
		if !accessor && !v.IsPropertyMutator() {
			continue
		}
		name := v.PropertyName()
		p, ok := byName[name]
		if !ok {
			p = &BeanProperty{Name: name}
			byName[name] = p
			props = append(props, p)
		}
		view := v
		p.Type, _ = v.PropertyType()
		if accessor {
			p.Accessor = &view
		} else {
			p.Mutator = &view
		}
	}
	return props
}

func (c *Class) BeanProperty(name string, inherited bool) *BeanProperty {
	for _, p := range c.BeanProperties(inherited) {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// TagsByName returns the doc tags of c with the given name and, with
// inherited, those of the superclass hierarchy and the interfaces. Each tag
// appears once, in the order it was first reached.
func (c *Class) TagsByName(name string, inherited bool) []*DocTag {
	var tags []*DocTag
	c.collectTags(name, inherited, map[*DocTag]bool{}, map[Handle]bool{}, &tags)
	return tags
}

func (c *Class) collectTags(name string, inherited bool, seen map[*DocTag]bool, visited map[Handle]bool, out *[]*DocTag) {
	if visited[c.handle] {
		return
	}
	visited[c.handle] = true
	for _, t := range c.tags {
		if t.Name == name && !seen[t] {
			seen[t] = true
			*out = append(*out, t)
		}
	}
	if !inherited {
		return
	}
	if sc := c.SuperClass(); sc != nil {
		sc.collectTags(name, inherited, seen, visited, out)
	}
	for _, ic := range c.Implements() {
		ic.collectTags(name, inherited, seen, visited, out)
	}
}

// DerivedClasses returns every class registered in the library, other than
// c, that is a subtype of c. Only classes that were already loaded are
// considered.
func (c *Class) DerivedClasses() []*Class {
	var derived []*Class
	for _, o := range c.library.Classes() {
		if o.fqn != c.fqn && o.IsSubtypeOf(c) {
			derived = append(derived, o)
		}
	}
	return derived
}
