package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jmodel/java"
)

// LineEncoder writes one tab-separated record per line: the class header,
// its supertypes, fields, methods and, with Inherited, bean properties.
type LineEncoder struct {
	w     io.Writer
	opts  Options
	class *java.Class
}

func NewLineEncoder(w io.Writer, opts Options) *LineEncoder {
	return &LineEncoder{w: w, opts: opts}
}

func (e *LineEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", kind(c), c.FullyQualifiedName(), e.classModifiersStr())
	if sup := c.Superclass(); sup != nil {
		fmt.Fprintf(&sb, "extends\t%s\n", sup.GenericValue())
	}
	for _, t := range c.Interfaces() {
		fmt.Fprintf(&sb, "implements\t%s\n", t.GenericValue())
	}

	for _, f := range c.Fields() {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name(),
			f.Type().GenericValue(),
			visibility(f.Modifiers()),
			e.fieldModifiersStr(f),
		)
	}

	for _, m := range c.Constructors() {
		fmt.Fprintf(&sb, "constructor\t%s\t%s\t%s\n",
			m.Name(),
			e.parametersStr(m.Parameters()),
			visibility(m.Modifiers()),
		)
	}

	for _, v := range c.MergedMethods(e.opts.Inherited) {
		m := v.Method
		declaring := "-"
		if v.IsInherited() {
			declaring = m.DeclaringClass().FullyQualifiedName()
		}
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(),
			m.Returns().GenericValue(),
			e.parametersStr(m.Parameters()),
			visibility(m.Modifiers()),
			e.methodModifiersStr(m),
			declaring,
		)
	}

	for _, p := range c.BeanProperties(e.opts.Inherited) {
		fmt.Fprintf(&sb, "property\t%s\t%s\t%s\n", p.Name, p.Type.GenericValue(), access(p))
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) classModifiersStr() string {
	mods := append([]string{visibility(e.class.Modifiers())}, otherModifiers(e.class.Modifiers())...)
	return strings.Join(mods, ",")
}

func (e *LineEncoder) fieldModifiersStr(f *java.Field) string {
	mods := otherModifiers(f.Modifiers())
	if f.IsEnumConstant() {
		mods = append(mods, "enum")
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func (e *LineEncoder) methodModifiersStr(m *java.Method) string {
	mods := otherModifiers(m.Modifiers())
	if m.IsVarArgs() {
		mods = append(mods, "varargs")
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func (e *LineEncoder) parametersStr(params []*java.Parameter) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		s := p.Type().GenericValue()
		if p.IsVarArgs() {
			s += "..."
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}

func access(p *java.BeanProperty) string {
	switch {
	case p.IsReadable() && p.IsWritable():
		return "rw"
	case p.IsWritable():
		return "w"
	}
	return "r"
}
