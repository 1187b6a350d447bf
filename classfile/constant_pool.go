package classfile

// Constant is one constant pool entry. Only the parts the declaration reader
// consults are decoded: UTF-8 text and the first two indices of reference
// entries. Numeric payloads are kept as raw bits.
type Constant struct {
	Tag    ConstantTag
	Utf8   string
	Index1 uint16
	Index2 uint16
	Bits   uint64
}

// ConstantPool is indexed from 1 like the class file; slot 0 and the slot
// after every long or double are nil.
type ConstantPool []*Constant

func (cp ConstantPool) entry(index uint16, tag ConstantTag) *Constant {
	if index == 0 || int(index) >= len(cp) {
		return nil
	}
	c := cp[index]
	if c == nil || c.Tag != tag {
		return nil
	}
	return c
}

func (cp ConstantPool) Utf8(index uint16) string {
	if c := cp.entry(index, ConstantUtf8); c != nil {
		return c.Utf8
	}
	return ""
}

// ClassName returns the internal name (java/util/Map$Entry) of a Class entry.
func (cp ConstantPool) ClassName(index uint16) string {
	if c := cp.entry(index, ConstantClass); c != nil {
		return cp.Utf8(c.Index1)
	}
	return ""
}

// constantWidth reports how many bytes follow the tag of a constant and
// whether it occupies two pool slots.
func constantWidth(tag ConstantTag) (size int, wide bool, ok bool) {
	switch tag {
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		return 2, false, true
	case ConstantMethodHandle:
		return 3, false, true
	case ConstantInteger, ConstantFloat, ConstantFieldref, ConstantMethodref,
		ConstantInterfaceMethodref, ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		return 4, false, true
	case ConstantLong, ConstantDouble:
		return 8, true, true
	}
	return 0, false, false
}
