package java

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jmodel/classfile"
	"github.com/dhamidi/jmodel/java/decl"
)

// declFromClassFile converts a class file into a declaration record. Type
// names in the record are binary names, so the record is marked Qualified.
// simpleName is the name the class is known by inside its enclosing class,
// or the last segment of the binary name for top-level classes.
func declFromClassFile(cf *classfile.ClassFile, simpleName string) (*decl.Type, error) {
	name := classfile.InternalToSourceName(cf.Name())
	t := &decl.Type{
		Kind:      classKindOf(cf),
		Name:      simpleName,
		Qualified: true,
	}

	flags := cf.AccessFlags
	innerFlags, nested := cf.OwnInnerClassFlags()
	if nested {
		flags = innerFlags
	}
	t.Modifiers = flags.ClassModifiers()
	if cf.IsDeprecated() {
		t.Annotations = append(t.Annotations, decl.Annotation{Type: "java.lang.Deprecated"})
	}

	super := classfile.InternalToSourceName(cf.SuperClassName())
	interfaces := cf.InterfaceNames()
	if sig := cf.Signature(); sig != "" {
		cs, err := classfile.ParseClassSignature(sig)
		if err != nil {
			return nil, fmt.Errorf("class signature of %s: %w", name, err)
		}
		t.TypeParams = typeParamsFromSig(cs.TypeParams)
		if len(cs.Interfaces) == len(interfaces) {
			super = ""
			if cf.SuperClass != 0 {
				ref := typeRefFromSig(cs.Super)
				t.Superclass = &ref
			}
			for _, i := range cs.Interfaces {
				t.Interfaces = append(t.Interfaces, typeRefFromSig(i))
			}
			interfaces = nil
		}
	}
	if super != "" {
		t.Superclass = &decl.TypeRef{Name: super}
	}
	for _, i := range interfaces {
		t.Interfaces = append(t.Interfaces, decl.TypeRef{Name: classfile.InternalToSourceName(i)})
	}
	if t.Kind != decl.KindClass {
		t.Superclass = nil
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		field, err := fieldFromMember(cf, f)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", name, f.Name, err)
		}
		t.Fields = append(t.Fields, field)
	}

	innerInstance := nested && !innerFlags.IsStatic() && t.Kind == decl.KindClass
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.Has(classfile.AccBridge) || m.IsStaticInitializer() {
			continue
		}
		leading := 0
		switch {
		case !m.IsConstructor():
		case t.Kind == decl.KindEnum:
			leading = 2
		case innerInstance:
			leading = 1
		}
		method, err := methodFromMember(cf, m, leading)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", name, m.Name, err)
		}
		if m.IsConstructor() {
			method.Name = simpleName
			t.Constructors = append(t.Constructors, method)
			continue
		}
		if t.Kind == decl.KindInterface || t.Kind == decl.KindAnnotation {
			method.Modifiers = interfaceMethodModifiers(method.Modifiers)
		}
		t.Methods = append(t.Methods, method)
	}
	return t, nil
}

func classKindOf(cf *classfile.ClassFile) decl.Kind {
	switch {
	case cf.IsAnnotation():
		return decl.KindAnnotation
	case cf.IsInterface():
		return decl.KindInterface
	case cf.IsEnum():
		return decl.KindEnum
	}
	return decl.KindClass
}

func fieldFromMember(cf *classfile.ClassFile, f *classfile.Member) (decl.Field, error) {
	ts, err := classfile.ParseFieldDescriptor(f.Descriptor)
	if err != nil {
		return decl.Field{}, err
	}
	if sig := f.Signature(cf.ConstantPool); sig != "" {
		if gs, err := classfile.ParseFieldDescriptor(sig); err == nil {
			ts = gs
		}
	}
	field := decl.Field{
		Name:         f.Name,
		Type:         typeRefFromSig(ts),
		Modifiers:    f.AccessFlags.FieldModifiers(),
		EnumConstant: f.AccessFlags.IsEnum(),
	}
	if f.IsDeprecated() {
		field.Annotations = append(field.Annotations, decl.Annotation{Type: "java.lang.Deprecated"})
	}
	return field, nil
}

// methodFromMember builds a method record. leading is the number of
// compiler-added parameters at the front of a constructor descriptor: the
// enclosing instance of an inner class, or the name and ordinal of an enum
// constant.
func methodFromMember(cf *classfile.ClassFile, m *classfile.Member, leading int) (decl.Method, error) {
	descParams, ret, err := classfile.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return decl.Method{}, err
	}
	if leading > len(descParams) {
		leading = 0
	}
	params := descParams[leading:]
	var throws []classfile.TypeSig
	method := decl.Method{
		Name:      m.Name,
		Modifiers: m.AccessFlags.MethodModifiers(),
	}
	if sig := m.Signature(cf.ConstantPool); sig != "" {
		ms, err := classfile.ParseMethodSignature(sig)
		if err != nil {
			return decl.Method{}, err
		}
		method.TypeParams = typeParamsFromSig(ms.TypeParams)
		ret = ms.Return
		throws = ms.Throws
		switch len(ms.Params) {
		case len(params):
			params = ms.Params
		case len(descParams):
			params = ms.Params[leading:]
		}
	}
	method.Returns = typeRefFromSig(ret)

	names := parameterNames(cf, m, descParams, leading)
	for i, p := range params {
		param := decl.Param{Name: names[i], Type: typeRefFromSig(p)}
		if i == len(params)-1 && m.AccessFlags.Has(classfile.AccVarargs) && param.Type.Dims > 0 {
			param.VarArgs = true
			param.Type.Dims--
		}
		method.Params = append(method.Params, param)
	}

	if len(throws) > 0 {
		for _, e := range throws {
			method.Exceptions = append(method.Exceptions, typeRefFromSig(e))
		}
	} else {
		for _, e := range m.Exceptions(cf.ConstantPool) {
			method.Exceptions = append(method.Exceptions, decl.TypeRef{Name: classfile.InternalToSourceName(e)})
		}
	}
	if m.IsDeprecated() {
		method.Annotations = append(method.Annotations, decl.Annotation{Type: "java.lang.Deprecated"})
	}
	return method, nil
}

// parameterNames takes names from MethodParameters, then from the
// LocalVariableTable, and falls back to p0, p1, ...
func parameterNames(cf *classfile.ClassFile, m *classfile.Member, descParams []classfile.TypeSig, leading int) []string {
	n := len(descParams) - leading
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}

	if mp := m.Parameters(cf.ConstantPool); len(mp) > 0 {
		offset := 0
		if len(mp) == len(descParams) {
			offset = leading
		}
		for i := range names {
			if i+offset < len(mp) && mp[i+offset].Name != "" {
				names[i] = mp[i+offset].Name
			}
		}
		return names
	}

	locals := m.LocalVariableNames(cf.ConstantPool)
	if len(locals) == 0 {
		return names
	}
	slot := 1
	if m.AccessFlags.IsStatic() {
		slot = 0
	}
	for i, p := range descParams {
		if i >= leading {
			if name, ok := locals[slot]; ok && name != "" {
				names[i-leading] = name
			}
		}
		slot++
		if p.Dims == 0 && (p.Name == "long" || p.Name == "double") {
			slot++
		}
	}
	return names
}

// interfaceMethodModifiers drops the implicit abstract modifier and marks
// instance methods with a body as default methods.
func interfaceMethodModifiers(mods []string) []string {
	abstract := false
	static := false
	private := false
	var out []string
	for _, m := range mods {
		switch m {
		case "abstract":
			abstract = true
			continue
		case "static":
			static = true
		case "private":
			private = true
		}
		out = append(out, m)
	}
	if !abstract && !static && !private {
		out = append(out, "default")
	}
	return out
}

func typeParamsFromSig(tps []classfile.TypeParamSig) []decl.TypeParam {
	params := make([]decl.TypeParam, len(tps))
	for i, tp := range tps {
		params[i] = decl.TypeParam{Name: tp.Name}
		for _, b := range tp.Bounds {
			params[i].Bounds = append(params[i].Bounds, typeRefFromSig(b))
		}
	}
	return params
}

func typeRefFromSig(t classfile.TypeSig) decl.TypeRef {
	switch t.Wildcard {
	case classfile.WildcardAny:
		return decl.TypeRef{Name: "?"}
	case classfile.WildcardExtends, classfile.WildcardSuper:
		bound := t
		bound.Wildcard = 0
		kind := "extends"
		if t.Wildcard == classfile.WildcardSuper {
			kind = "super"
		}
		return decl.TypeRef{Name: "?", Wildcard: kind, Args: []decl.TypeRef{typeRefFromSig(bound)}}
	}
	ref := decl.TypeRef{Name: t.Name, Dims: t.Dims, Variable: t.TypeVar}
	for _, a := range t.Args {
		ref.Args = append(ref.Args, typeRefFromSig(a))
	}
	return ref
}

// binarySimpleName is the last segment of a binary class name, keeping any
// nested separators, e.g. "Map$Entry" for "java.util.Map$Entry".
func binarySimpleName(binaryName string) string {
	if i := strings.LastIndexByte(binaryName, '.'); i >= 0 {
		return binaryName[i+1:]
	}
	return binaryName
}
