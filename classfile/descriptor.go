package classfile

import (
	"fmt"
	"strings"
)

// TypeSig is a type read from a descriptor or a generic signature. Name is a
// primitive keyword, a binary class name in dotted form (java.util.Map$Entry)
// or, when TypeVar is set, the name of a type variable.
type TypeSig struct {
	Name     string
	TypeVar  bool
	Dims     int
	Args     []TypeSig
	Wildcard byte
}

// Wildcard markers for type arguments.
const (
	WildcardAny     = '*'
	WildcardExtends = '+'
	WildcardSuper   = '-'
)

func (t TypeSig) String() string {
	var sb strings.Builder
	switch t.Wildcard {
	case WildcardAny:
		return "?"
	case WildcardExtends:
		sb.WriteString("? extends ")
	case WildcardSuper:
		sb.WriteString("? super ")
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

func ParseFieldDescriptor(desc string) (TypeSig, error) {
	p := &sigParser{s: desc}
	t, err := p.typeSig()
	if err == nil && !p.done() {
		err = p.errorf("trailing characters")
	}
	return t, err
}

// ParseMethodDescriptor returns the parameter and return types of a method
// descriptor such as (I[Ljava/lang/String;)V.
func ParseMethodDescriptor(desc string) ([]TypeSig, TypeSig, error) {
	p := &sigParser{s: desc}
	params, ret, _, err := p.methodTail()
	if err == nil && !p.done() {
		err = p.errorf("trailing characters")
	}
	return params, ret, err
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) done() bool { return p.pos >= len(p.s) }

func (p *sigParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(ch byte) error {
	if p.peek() != ch {
		return p.errorf("expected %q", ch)
	}
	p.pos++
	return nil
}

func (p *sigParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d in %q", ErrFormat, fmt.Sprintf(format, args...), p.pos, p.s)
}

// identifier reads up to the first character that ends a signature
// identifier.
func (p *sigParser) identifier() (string, error) {
	start := p.pos
	for !p.done() && !strings.ContainsRune(".;[/<>:", rune(p.peek())) {
		p.pos++
	}
	if start == p.pos {
		return "", p.errorf("expected identifier")
	}
	return p.s[start:p.pos], nil
}

func (p *sigParser) typeSig() (TypeSig, error) {
	dims := 0
	for p.peek() == '[' {
		p.pos++
		dims++
	}
	var t TypeSig
	var err error
	switch ch := p.peek(); ch {
	case 'L':
		t, err = p.classTypeSig()
	case 'T':
		p.pos++
		var name string
		if name, err = p.identifier(); err == nil {
			t = TypeSig{Name: name, TypeVar: true}
			err = p.expect(';')
		}
	default:
		name, ok := baseTypes[ch]
		if !ok {
			return TypeSig{}, p.errorf("unexpected %q", ch)
		}
		p.pos++
		t = TypeSig{Name: name}
	}
	t.Dims = dims
	return t, err
}

func (p *sigParser) classTypeSig() (TypeSig, error) {
	if err := p.expect('L'); err != nil {
		return TypeSig{}, err
	}
	start := p.pos
	for !p.done() && p.peek() != ';' && p.peek() != '<' && p.peek() != '.' {
		p.pos++
	}
	t := TypeSig{Name: InternalToSourceName(p.s[start:p.pos])}
	for {
		if p.peek() == '<' {
			args, err := p.typeArgs()
			if err != nil {
				return TypeSig{}, err
			}
			t.Args = args
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		inner, err := p.identifier()
		if err != nil {
			return TypeSig{}, err
		}
		t.Name += "$" + inner
		t.Args = nil
	}
	return t, p.expect(';')
}

func (p *sigParser) typeArgs() ([]TypeSig, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []TypeSig
	for p.peek() != '>' {
		if p.done() {
			return nil, p.errorf("unterminated type arguments")
		}
		switch ch := p.peek(); ch {
		case WildcardAny:
			p.pos++
			args = append(args, TypeSig{Name: "?", Wildcard: WildcardAny})
		case WildcardExtends, WildcardSuper:
			p.pos++
			bound, err := p.typeSig()
			if err != nil {
				return nil, err
			}
			bound.Wildcard = ch
			args = append(args, bound)
		default:
			arg, err := p.typeSig()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	p.pos++
	return args, nil
}

// methodTail parses "(params)ret" followed by any "^throws" clauses.
func (p *sigParser) methodTail() ([]TypeSig, TypeSig, []TypeSig, error) {
	if err := p.expect('('); err != nil {
		return nil, TypeSig{}, nil, err
	}
	var params []TypeSig
	for p.peek() != ')' {
		if p.done() {
			return nil, TypeSig{}, nil, p.errorf("unterminated parameter list")
		}
		t, err := p.typeSig()
		if err != nil {
			return nil, TypeSig{}, nil, err
		}
		params = append(params, t)
	}
	p.pos++
	ret, err := p.typeSig()
	if err != nil {
		return nil, TypeSig{}, nil, err
	}
	var throws []TypeSig
	for p.peek() == '^' {
		p.pos++
		t, err := p.typeSig()
		if err != nil {
			return nil, TypeSig{}, nil, err
		}
		throws = append(throws, t)
	}
	return params, ret, throws, nil
}
