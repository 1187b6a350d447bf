// Package classfile reads the declaration surface of JVM class files:
// names, flags, members, generic signatures, thrown exceptions, parameter
// names and inner class tables. Bytecode is not decoded.
package classfile

import (
	"encoding/binary"
)

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// Member is a field or a method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

type Attribute struct {
	Name string
	Info []byte
}

type InnerClass struct {
	Inner       string
	Outer       string
	SimpleName  string
	AccessFlags AccessFlags
}

type MethodParameter struct {
	Name        string
	AccessFlags AccessFlags
}

// Name returns the internal name of the class, e.g. java/util/Map$Entry.
func (cf *ClassFile) Name() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

func (cf *ClassFile) Attribute(name string) *Attribute {
	return findAttribute(cf.Attributes, name)
}

// Signature returns the generic class signature, or "" when absent.
func (cf *ClassFile) Signature() string {
	return signatureOf(cf.ConstantPool, cf.Attributes)
}

func (cf *ClassFile) SourceFile() string {
	a := cf.Attribute("SourceFile")
	if a == nil || len(a.Info) < 2 {
		return ""
	}
	return cf.ConstantPool.Utf8(u2(a.Info, 0))
}

func (cf *ClassFile) IsDeprecated() bool {
	return cf.Attribute("Deprecated") != nil
}

func (cf *ClassFile) InnerClasses() []InnerClass {
	a := cf.Attribute("InnerClasses")
	if a == nil || len(a.Info) < 2 {
		return nil
	}
	count := int(u2(a.Info, 0))
	if len(a.Info) < 2+count*8 {
		return nil
	}
	entries := make([]InnerClass, count)
	for i := range entries {
		off := 2 + i*8
		entries[i] = InnerClass{
			Inner:       cf.ConstantPool.ClassName(u2(a.Info, off)),
			Outer:       cf.ConstantPool.ClassName(u2(a.Info, off+2)),
			SimpleName:  cf.ConstantPool.Utf8(u2(a.Info, off+4)),
			AccessFlags: AccessFlags(u2(a.Info, off+6)),
		}
	}
	return entries
}

// MemberClasses returns the inner class entries that declare a direct member
// of this class. Local and anonymous classes have no outer class entry and
// are left out, as are entries describing the class itself.
func (cf *ClassFile) MemberClasses() []InnerClass {
	name := cf.Name()
	var members []InnerClass
	for _, ic := range cf.InnerClasses() {
		if ic.Outer == name && ic.Inner != name && ic.SimpleName != "" {
			members = append(members, ic)
		}
	}
	return members
}

// OwnInnerClassFlags returns the access flags recorded for this class in its
// own InnerClasses table. Nested classes carry their declared modifiers
// (private, static, protected) only there.
func (cf *ClassFile) OwnInnerClassFlags() (AccessFlags, bool) {
	name := cf.Name()
	for _, ic := range cf.InnerClasses() {
		if ic.Inner == name {
			return ic.AccessFlags, true
		}
	}
	return 0, false
}

func (m *Member) Attribute(name string) *Attribute {
	return findAttribute(m.Attributes, name)
}

func (m *Member) Signature(cp ConstantPool) string {
	return signatureOf(cp, m.Attributes)
}

func (m *Member) IsConstructor() bool { return m.Name == "<init>" }

func (m *Member) IsStaticInitializer() bool { return m.Name == "<clinit>" }

func (m *Member) IsDeprecated() bool {
	return m.Attribute("Deprecated") != nil
}

// Exceptions returns the internal names of the checked exceptions a method
// declares.
func (m *Member) Exceptions(cp ConstantPool) []string {
	a := m.Attribute("Exceptions")
	if a == nil || len(a.Info) < 2 {
		return nil
	}
	count := int(u2(a.Info, 0))
	if len(a.Info) < 2+count*2 {
		return nil
	}
	names := make([]string, count)
	for i := range names {
		names[i] = cp.ClassName(u2(a.Info, 2+i*2))
	}
	return names
}

func (m *Member) Parameters(cp ConstantPool) []MethodParameter {
	a := m.Attribute("MethodParameters")
	if a == nil || len(a.Info) < 1 {
		return nil
	}
	count := int(a.Info[0])
	if len(a.Info) < 1+count*4 {
		return nil
	}
	params := make([]MethodParameter, count)
	for i := range params {
		off := 1 + i*4
		params[i] = MethodParameter{
			Name:        cp.Utf8(u2(a.Info, off)),
			AccessFlags: AccessFlags(u2(a.Info, off+2)),
		}
	}
	return params
}

// LocalVariableNames returns the names recorded in the LocalVariableTable
// of a method's Code attribute, keyed by local variable slot.
func (m *Member) LocalVariableNames(cp ConstantPool) map[int]string {
	a := m.Attribute("Code")
	if a == nil || len(a.Info) < 8 {
		return nil
	}
	info := a.Info
	off := 4
	codeLen := int(binary.BigEndian.Uint32(info[off : off+4]))
	off += 4 + codeLen
	if len(info) < off+2 {
		return nil
	}
	off += 2 + int(u2(info, off))*8
	if len(info) < off+2 {
		return nil
	}
	count := int(u2(info, off))
	off += 2
	for i := 0; i < count && len(info) >= off+6; i++ {
		name := cp.Utf8(u2(info, off))
		length := int(binary.BigEndian.Uint32(info[off+2 : off+6]))
		off += 6
		if len(info) < off+length {
			return nil
		}
		if name == "LocalVariableTable" {
			return localVariableTable(cp, info[off:off+length])
		}
		off += length
	}
	return nil
}

func localVariableTable(cp ConstantPool, b []byte) map[int]string {
	if len(b) < 2 {
		return nil
	}
	count := int(u2(b, 0))
	if len(b) < 2+count*10 {
		return nil
	}
	names := make(map[int]string, count)
	for i := 0; i < count; i++ {
		off := 2 + i*10
		slot := int(u2(b, off+8))
		if _, ok := names[slot]; !ok {
			names[slot] = cp.Utf8(u2(b, off+4))
		}
	}
	return names
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func signatureOf(cp ConstantPool, attrs []Attribute) string {
	a := findAttribute(attrs, "Signature")
	if a == nil || len(a.Info) < 2 {
		return ""
	}
	return cp.Utf8(u2(a.Info, 0))
}

func u2(b []byte, off int) uint16 {
	return binary.BigEndian.Uint16(b[off : off+2])
}
