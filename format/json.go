package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jmodel/java"
)

type JSONEncoder struct {
	w     io.Writer
	opts  Options
	class *java.Class
}

func NewJSONEncoder(w io.Writer, opts Options) *JSONEncoder {
	return &JSONEncoder{w: w, opts: opts}
}

func (e *JSONEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildClassData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonClass struct {
	Name         string         `json:"name"`
	SimpleName   string         `json:"simpleName"`
	Package      string         `json:"package"`
	Kind         string         `json:"kind"`
	Origin       string         `json:"origin"`
	Source       string         `json:"source,omitempty"`
	SuperClass   string         `json:"superClass,omitempty"`
	Interfaces   []string       `json:"interfaces,omitempty"`
	Visibility   string         `json:"visibility"`
	Modifiers    []string       `json:"modifiers,omitempty"`
	Comment      string         `json:"comment,omitempty"`
	Tags         []jsonTag      `json:"tags,omitempty"`
	Fields       []jsonField    `json:"fields,omitempty"`
	Constructors []jsonMethod   `json:"constructors,omitempty"`
	Methods      []jsonMethod   `json:"methods,omitempty"`
	Properties   []jsonProperty `json:"properties,omitempty"`
	Nested       []string       `json:"nested,omitempty"`
}

type jsonTag struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type jsonField struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Visibility   string   `json:"visibility"`
	Modifiers    []string `json:"modifiers,omitempty"`
	EnumConstant bool     `json:"enumConstant,omitempty"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Exceptions []string        `json:"exceptions,omitempty"`
	Visibility string          `json:"visibility"`
	Modifiers  []string        `json:"modifiers,omitempty"`
	Signature  string          `json:"signature"`
	DeclaredIn string          `json:"declaredIn,omitempty"`
}

type jsonParameter struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	VarArgs bool   `json:"varArgs,omitempty"`
}

type jsonProperty struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	data := jsonClass{
		Name:       c.FullyQualifiedName(),
		SimpleName: c.Name(),
		Package:    c.PackageName(),
		Kind:       kind(c),
		Origin:     c.Origin().String(),
		Visibility: visibility(c.Modifiers()),
		Modifiers:  otherModifiers(c.Modifiers()),
		Comment:    c.Comment(),
	}
	if c.Source() != nil {
		data.Source = c.Source().Path()
	}
	if sup := c.Superclass(); sup != nil {
		data.SuperClass = sup.GenericValue()
	}
	for _, t := range c.Interfaces() {
		data.Interfaces = append(data.Interfaces, t.GenericValue())
	}
	for _, t := range c.Tags() {
		data.Tags = append(data.Tags, jsonTag{Name: t.Name, Value: t.Value})
	}
	for _, f := range c.Fields() {
		data.Fields = append(data.Fields, jsonField{
			Name:         f.Name(),
			Type:         f.Type().GenericValue(),
			Visibility:   visibility(f.Modifiers()),
			Modifiers:    otherModifiers(f.Modifiers()),
			EnumConstant: f.IsEnumConstant(),
		})
	}
	for _, m := range c.Constructors() {
		data.Constructors = append(data.Constructors, buildMethod(m, nil))
	}
	for _, v := range c.MergedMethods(e.opts.Inherited) {
		data.Methods = append(data.Methods, buildMethod(v.Method, &v))
	}
	for _, p := range c.BeanProperties(e.opts.Inherited) {
		data.Properties = append(data.Properties, jsonProperty{
			Name:     p.Name,
			Type:     p.Type.GenericValue(),
			Readable: p.IsReadable(),
			Writable: p.IsWritable(),
		})
	}
	for _, n := range c.NestedClasses() {
		data.Nested = append(data.Nested, n.FullyQualifiedName())
	}
	return data
}

func buildMethod(m *java.Method, view *java.MethodView) jsonMethod {
	jm := jsonMethod{
		Name:       m.Name(),
		Visibility: visibility(m.Modifiers()),
		Modifiers:  otherModifiers(m.Modifiers()),
		Signature:  m.DeclarationSignature(false),
	}
	if !m.IsConstructor() {
		jm.ReturnType = m.Returns().GenericValue()
	}
	for _, p := range m.Parameters() {
		jm.Parameters = append(jm.Parameters, jsonParameter{
			Name:    p.Name(),
			Type:    p.Type().GenericValue(),
			VarArgs: p.IsVarArgs(),
		})
	}
	for _, t := range m.Exceptions() {
		jm.Exceptions = append(jm.Exceptions, t.GenericValue())
	}
	if view != nil && view.IsInherited() {
		jm.DeclaredIn = m.DeclaringClass().FullyQualifiedName()
	}
	return jm
}
