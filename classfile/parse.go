package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf16"
)

var ErrFormat = errors.New("malformed class file")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a class file. Errors wrap ErrFormat when the bytes are not
// a well-formed class file and the underlying read error otherwise.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%X", ErrFormat, magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = cp

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	cf.Interfaces = make([]uint16, r.readU2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
	}
	if cf.Name() == "" {
		return nil, fmt.Errorf("%w: this_class does not name a class", ErrFormat)
	}

	if cf.Fields, err = readMembers(r, cp); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cp); err != nil {
		return nil, fmt.Errorf("read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r, cp); err != nil {
		return nil, fmt.Errorf("read attributes: %w", err)
	}
	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	cp := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		tag := ConstantTag(r.readU1())
		if r.err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
		}
		if tag == ConstantUtf8 {
			n := r.readU2()
			cp[i] = &Constant{Tag: tag, Utf8: decodeModifiedUtf8(r.readBytes(int(n)))}
		} else {
			size, wide, ok := constantWidth(tag)
			if !ok {
				return nil, fmt.Errorf("%w: unknown constant pool tag %d at %d", ErrFormat, tag, i)
			}
			payload := r.readBytes(size)
			if r.err != nil {
				return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
			}
			c := &Constant{Tag: tag}
			switch {
			case size == 8:
				c.Bits = binary.BigEndian.Uint64(payload)
			case size == 4 && (tag == ConstantInteger || tag == ConstantFloat):
				c.Bits = uint64(binary.BigEndian.Uint32(payload))
			case size == 4:
				c.Index1 = binary.BigEndian.Uint16(payload[0:2])
				c.Index2 = binary.BigEndian.Uint16(payload[2:4])
			case size == 3:
				c.Index1 = binary.BigEndian.Uint16(payload[1:3])
			case size == 2:
				c.Index1 = binary.BigEndian.Uint16(payload)
			}
			cp[i] = c
			if wide {
				i++
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
		}
	}
	return cp, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	members := make([]Member, r.readU2())
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.Name = cp.Utf8(r.readU2())
		m.Descriptor = cp.Utf8(r.readU2())
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, err
		}
		m.Attributes = attrs
	}
	if r.err != nil {
		return nil, r.err
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	attrs := make([]Attribute, r.readU2())
	for i := range attrs {
		name := cp.Utf8(r.readU2())
		length := r.readU4()
		attrs[i] = Attribute{Name: name, Info: r.readBytes(int(length))}
		if r.err != nil {
			return nil, r.err
		}
	}
	return attrs, r.err
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8, where NUL is two bytes
// and supplementary characters are encoded as surrogate pairs.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
