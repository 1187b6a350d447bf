package java

// Field is a field or enum constant declared by a class.
type Field struct {
	name         string
	declaring    *Class
	typ          Type
	modifiers    []string
	enumConstant bool
	annotations  []Type
	comment      string
	tags         []*DocTag
	line         int
}

func (f *Field) Name() string           { return f.name }
func (f *Field) DeclaringClass() *Class { return f.declaring }
func (f *Field) Type() Type             { return f.typ }
func (f *Field) Modifiers() []string    { return f.modifiers }
func (f *Field) IsEnumConstant() bool   { return f.enumConstant }
func (f *Field) Annotations() []Type    { return f.annotations }
func (f *Field) Comment() string        { return f.comment }
func (f *Field) Tags() []*DocTag        { return f.tags }
func (f *Field) Line() int              { return f.line }

func (f *Field) hasModifier(mod string) bool {
	for _, m := range f.modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

func (f *Field) IsPublic() bool  { return f.hasModifier("public") }
func (f *Field) IsPrivate() bool { return f.hasModifier("private") }
func (f *Field) IsStatic() bool  { return f.hasModifier("static") }
func (f *Field) IsFinal() bool   { return f.hasModifier("final") }

// String renders "private int java.lang.Integer.value".
func (f *Field) String() string {
	s := ""
	for _, mod := range []string{"private", "protected", "public", "static", "final", "transient", "volatile"} {
		if f.hasModifier(mod) {
			s += mod + " "
		}
	}
	s += f.typ.Erasure().FullyQualifiedName() + " "
	if f.declaring != nil {
		s += f.declaring.fqn + "."
	}
	return s + f.name
}
