// Package classfiletest assembles class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"

	"github.com/dhamidi/jmodel/classfile"
)

type Builder struct {
	pool       [][]byte
	utf8s      map[string]uint16
	classes    map[string]uint16
	flags      classfile.AccessFlags
	this       string
	super      string
	interfaces []string
	fields     []member
	methods    []member
	attrs      []attribute
	inner      []innerClass
}

type member struct {
	flags classfile.AccessFlags
	name  string
	desc  string
	attrs []attribute
}

type attribute struct {
	name string
	info []byte
}

type innerClass struct {
	inner, outer, simple string
	flags                classfile.AccessFlags
}

// New starts a public class with the given internal name extending
// java/lang/Object.
func New(name string) *Builder {
	return &Builder{
		utf8s:   make(map[string]uint16),
		classes: make(map[string]uint16),
		flags:   classfile.AccPublic | classfile.AccSuper,
		this:    name,
		super:   "java/lang/Object",
	}
}

func (b *Builder) Flags(flags classfile.AccessFlags) *Builder {
	b.flags = flags
	return b
}

// Super sets the superclass; "" produces a class without one.
func (b *Builder) Super(name string) *Builder {
	b.super = name
	return b
}

func (b *Builder) Interfaces(names ...string) *Builder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

func (b *Builder) Signature(sig string) *Builder {
	b.attrs = append(b.attrs, b.signatureAttr(sig))
	return b
}

func (b *Builder) SourceFile(name string) *Builder {
	b.attrs = append(b.attrs, attribute{name: "SourceFile", info: u2(b.utf8(name))})
	return b
}

func (b *Builder) Deprecated() *Builder {
	b.attrs = append(b.attrs, attribute{name: "Deprecated"})
	return b
}

// InnerClass adds an InnerClasses entry. outer and simple may be empty for
// local and anonymous classes.
func (b *Builder) InnerClass(inner, outer, simple string, flags classfile.AccessFlags) *Builder {
	b.inner = append(b.inner, innerClass{inner: inner, outer: outer, simple: simple, flags: flags})
	return b
}

type MemberOption func(b *Builder, m *member)

func Signature(sig string) MemberOption {
	return func(b *Builder, m *member) {
		m.attrs = append(m.attrs, b.signatureAttr(sig))
	}
}

func Throws(names ...string) MemberOption {
	return func(b *Builder, m *member) {
		info := u2(uint16(len(names)))
		for _, n := range names {
			info = append(info, u2(b.class(n))...)
		}
		m.attrs = append(m.attrs, attribute{name: "Exceptions", info: info})
	}
}

func ParameterNames(names ...string) MemberOption {
	return func(b *Builder, m *member) {
		info := []byte{byte(len(names))}
		for _, n := range names {
			info = append(info, u2(b.utf8(n))...)
			info = append(info, 0, 0)
		}
		m.attrs = append(m.attrs, attribute{name: "MethodParameters", info: info})
	}
}

// LocalVar is an entry of a method's LocalVariableTable.
type LocalVar struct {
	Slot int
	Name string
	Desc string
}

// LocalVariables gives the method a trivial Code attribute carrying a
// LocalVariableTable with the given entries.
func LocalVariables(vars ...LocalVar) MemberOption {
	return func(b *Builder, m *member) {
		table := u2(uint16(len(vars)))
		for _, v := range vars {
			table = append(table, u2(0)...)
			table = append(table, u2(1)...)
			table = append(table, u2(b.utf8(v.Name))...)
			table = append(table, u2(b.utf8(v.Desc))...)
			table = append(table, u2(uint16(v.Slot))...)
		}
		code := append(u2(1), u2(uint16(len(vars)+1))...)
		code = binary.BigEndian.AppendUint32(code, 1)
		code = append(code, 0xb1)
		code = append(code, u2(0)...)
		code = append(code, u2(1)...)
		code = append(code, u2(b.utf8("LocalVariableTable"))...)
		code = binary.BigEndian.AppendUint32(code, uint32(len(table)))
		code = append(code, table...)
		m.attrs = append(m.attrs, attribute{name: "Code", info: code})
	}
}

func (b *Builder) Field(flags classfile.AccessFlags, name, desc string, opts ...MemberOption) *Builder {
	b.fields = append(b.fields, b.member(flags, name, desc, opts))
	return b
}

func (b *Builder) Method(flags classfile.AccessFlags, name, desc string, opts ...MemberOption) *Builder {
	b.methods = append(b.methods, b.member(flags, name, desc, opts))
	return b
}

func (b *Builder) member(flags classfile.AccessFlags, name, desc string, opts []MemberOption) member {
	m := member{flags: flags, name: name, desc: desc}
	for _, opt := range opts {
		opt(b, &m)
	}
	return m
}

func (b *Builder) signatureAttr(sig string) attribute {
	return attribute{name: "Signature", info: u2(b.utf8(sig))}
}

func (b *Builder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	entry := []byte{byte(classfile.ConstantUtf8)}
	entry = append(entry, u2(uint16(len(s)))...)
	entry = append(entry, s...)
	b.pool = append(b.pool, entry)
	idx := uint16(len(b.pool))
	b.utf8s[s] = idx
	return idx
}

func (b *Builder) class(name string) uint16 {
	if name == "" {
		return 0
	}
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.utf8(name)
	b.pool = append(b.pool, append([]byte{byte(classfile.ConstantClass)}, u2(nameIdx)...))
	idx := uint16(len(b.pool))
	b.classes[name] = idx
	return idx
}

// Bytes encodes the class file.
func (b *Builder) Bytes() []byte {
	this := b.class(b.this)
	super := b.class(b.super)
	ifaces := make([]uint16, len(b.interfaces))
	for i, n := range b.interfaces {
		ifaces[i] = b.class(n)
	}
	attrs := b.attrs
	if len(b.inner) > 0 {
		info := u2(uint16(len(b.inner)))
		for _, ic := range b.inner {
			simple := uint16(0)
			if ic.simple != "" {
				simple = b.utf8(ic.simple)
			}
			info = append(info, u2(b.class(ic.inner))...)
			info = append(info, u2(b.class(ic.outer))...)
			info = append(info, u2(simple)...)
			info = append(info, u2(uint16(ic.flags))...)
		}
		attrs = append(attrs, attribute{name: "InnerClasses", info: info})
	}
	// intern every attribute and member name before the pool is written
	b.internAttrs(attrs)
	for _, m := range append(append([]member{}, b.fields...), b.methods...) {
		b.utf8(m.name)
		b.utf8(m.desc)
		b.internAttrs(m.attrs)
	}

	var buf bytes.Buffer
	write := func(v any) { _ = binary.Write(&buf, binary.BigEndian, v) }
	write(uint32(classfile.Magic))
	write(uint16(0))
	write(uint16(61))
	write(uint16(len(b.pool) + 1))
	for _, entry := range b.pool {
		buf.Write(entry)
	}
	write(uint16(b.flags))
	write(this)
	write(super)
	write(uint16(len(ifaces)))
	for _, i := range ifaces {
		write(i)
	}
	for _, members := range [][]member{b.fields, b.methods} {
		write(uint16(len(members)))
		for _, m := range members {
			write(uint16(m.flags))
			write(b.utf8(m.name))
			write(b.utf8(m.desc))
			b.writeAttrs(&buf, m.attrs)
		}
	}
	b.writeAttrs(&buf, attrs)
	return buf.Bytes()
}

func (b *Builder) internAttrs(attrs []attribute) {
	for _, a := range attrs {
		b.utf8(a.name)
	}
}

func (b *Builder) writeAttrs(buf *bytes.Buffer, attrs []attribute) {
	_ = binary.Write(buf, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		_ = binary.Write(buf, binary.BigEndian, b.utf8(a.name))
		_ = binary.Write(buf, binary.BigEndian, uint32(len(a.info)))
		buf.Write(a.info)
	}
}

func u2(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}
