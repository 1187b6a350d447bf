package java

// BeanProperty is a property inferred from accessor and mutator methods
// following the JavaBeans naming conventions.
type BeanProperty struct {
	Name     string
	Type     Type
	Accessor *MethodView
	Mutator  *MethodView
}

func (p *BeanProperty) IsReadable() bool { return p.Accessor != nil }
func (p *BeanProperty) IsWritable() bool { return p.Mutator != nil }
