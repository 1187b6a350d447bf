package classfile

type TypeParamSig struct {
	Name   string
	Bounds []TypeSig
}

type ClassSignature struct {
	TypeParams []TypeParamSig
	Super      TypeSig
	Interfaces []TypeSig
}

type MethodSignature struct {
	TypeParams []TypeParamSig
	Params     []TypeSig
	Return     TypeSig
	Throws     []TypeSig
}

// ParseClassSignature parses the Signature attribute of a class, e.g.
// <T:Ljava/lang/Object;>Ljava/util/AbstractList<TT;>;Ljava/util/RandomAccess;
func ParseClassSignature(sig string) (*ClassSignature, error) {
	p := &sigParser{s: sig}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	cs := &ClassSignature{TypeParams: tps}
	if cs.Super, err = p.classTypeSig(); err != nil {
		return nil, err
	}
	for !p.done() {
		iface, err := p.classTypeSig()
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, iface)
	}
	return cs, nil
}

func ParseMethodSignature(sig string) (*MethodSignature, error) {
	p := &sigParser{s: sig}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	params, ret, throws, err := p.methodTail()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("trailing characters")
	}
	return &MethodSignature{TypeParams: tps, Params: params, Return: ret, Throws: throws}, nil
}

// typeParams parses an optional <T:bound;U::iface;> prefix. An empty class
// bound (T::) is omitted from Bounds.
func (p *sigParser) typeParams() ([]TypeParamSig, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var tps []TypeParamSig
	for p.peek() != '>' {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		tp := TypeParamSig{Name: name}
		for p.peek() == ':' {
			p.pos++
			if p.peek() == ':' || p.peek() == '>' {
				continue
			}
			bound, err := p.typeSig()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		tps = append(tps, tp)
	}
	p.pos++
	return tps, nil
}
