// Package parser reads Java compilation units into declaration records.
//
// Only the declaration surface is parsed: package, imports, types, their
// members and Javadoc. Method bodies, initializers and annotation arguments
// are skipped by brace matching.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jmodel/java/decl"
)

// Error reports malformed source at a position.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Msg)
}

// ParseReader reads all of r and parses it. The reader is not closed.
func ParseReader(r io.Reader, file string) (*decl.File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return Parse(src, file)
}

func Parse(src []byte, file string) (*decl.File, error) {
	p, err := newParser(src, file)
	if err != nil {
		return nil, err
	}
	f, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	f.Path = file
	f.Content = src
	return f, nil
}

type parser struct {
	toks []Token
	docs []string
	pos  int
}

func newParser(src []byte, file string) (*parser, error) {
	lex := NewLexer(src, file)
	p := &parser{}
	doc := ""
	for {
		tok := lex.NextToken()
		switch tok.Kind {
		case TokenError:
			return nil, &Error{Pos: tok.Span.Start, Msg: fmt.Sprintf("invalid token %q", tok.Literal)}
		case TokenComment:
			if strings.HasPrefix(tok.Literal, "/**") && tok.Literal != "/**/" {
				doc = tok.Literal
			}
			continue
		}
		p.toks = append(p.toks, tok)
		p.docs = append(p.docs, doc)
		doc = ""
		if tok.Kind == TokenEOF {
			return p, nil
		}
	}
}

func (p *parser) tok() Token {
	return p.peek(0)
}

func (p *parser) peek(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) doc() string {
	if p.pos >= len(p.docs) {
		return ""
	}
	return p.docs[p.pos]
}

func (p *parser) next() Token {
	tok := p.tok()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) accept(lit string) bool {
	if p.tok().Is(lit) {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	tok := p.tok()
	msg := fmt.Sprintf(format, args...)
	if tok.Kind == TokenEOF {
		msg += " at end of file"
	} else {
		msg += fmt.Sprintf(" near %q", tok.Literal)
	}
	return &Error{Pos: tok.Span.Start, Msg: msg}
}

func (p *parser) expect(lit string) error {
	if !p.accept(lit) {
		return p.errorf("expected %q", lit)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	tok := p.tok()
	if tok.Kind != TokenIdent {
		return "", p.errorf("expected identifier")
	}
	p.next()
	return tok.Literal, nil
}

func (p *parser) qualifiedName() (string, error) {
	first, err := p.ident()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for p.tok().Is(".") && p.peek(1).Kind == TokenIdent {
		p.next()
		parts = append(parts, p.next().Literal)
	}
	return strings.Join(parts, "."), nil
}

func (p *parser) parseFile() (*decl.File, error) {
	f := &decl.File{}

	start := p.pos
	if _, err := p.annotations(); err != nil {
		return nil, err
	}
	if p.accept("package") {
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		f.Package = name
		if err := p.expect(";"); err != nil {
			return nil, err
		}
	} else {
		p.pos = start
	}

	for p.tok().Is("import") {
		p.next()
		imp := decl.Import{Static: p.accept("static")}
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if p.tok().Is(".") && p.peek(1).Is("*") {
			p.next()
			p.next()
			imp.Wildcard = true
		}
		imp.Name = name
		f.Imports = append(f.Imports, imp)
		if err := p.expect(";"); err != nil {
			return nil, err
		}
	}

	for p.tok().Kind != TokenEOF {
		if p.accept(";") {
			continue
		}
		if p.isModuleDeclaration() {
			return f, nil
		}
		t, err := p.typeDeclaration()
		if err != nil {
			return nil, err
		}
		f.Types = append(f.Types, t)
	}
	return f, nil
}

func (p *parser) isModuleDeclaration() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if _, err := p.annotations(); err != nil {
		return false
	}
	tok := p.tok()
	if tok.Kind == TokenIdent && tok.Literal == "open" {
		tok = p.peek(1)
	}
	return tok.Kind == TokenIdent && tok.Literal == "module"
}

func (p *parser) annotations() ([]decl.Annotation, error) {
	var anns []decl.Annotation
	for p.tok().Is("@") && !p.peek(1).Is("interface") {
		a, err := p.annotation()
		if err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, nil
}

func (p *parser) annotation() (decl.Annotation, error) {
	if err := p.expect("@"); err != nil {
		return decl.Annotation{}, err
	}
	name, err := p.qualifiedName()
	if err != nil {
		return decl.Annotation{}, err
	}
	if p.tok().Is("(") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return decl.Annotation{}, err
		}
	}
	return decl.Annotation{Type: name}, nil
}

// modifiers consumes modifiers and annotations in any order.
func (p *parser) modifiers() ([]string, []decl.Annotation, error) {
	var mods []string
	var anns []decl.Annotation
	for {
		tok := p.tok()
		switch {
		case tok.Is("@") && !p.peek(1).Is("interface"):
			a, err := p.annotation()
			if err != nil {
				return nil, nil, err
			}
			anns = append(anns, a)
		case tok.Kind == TokenKeyword && modifierWords[tok.Literal]:
			mods = append(mods, p.next().Literal)
		case tok.Kind == TokenIdent && (tok.Literal == "sealed" || tok.Literal == "non-sealed") &&
			(p.peek(1).Kind == TokenKeyword || p.peek(1).Kind == TokenIdent):
			mods = append(mods, p.next().Literal)
		default:
			return mods, anns, nil
		}
	}
}

func (p *parser) isRecordStart() bool {
	tok := p.tok()
	return tok.Kind == TokenIdent && tok.Literal == "record" &&
		p.peek(1).Kind == TokenIdent && (p.peek(2).Is("(") || p.peek(2).Is("<"))
}

func (p *parser) atTypeKeyword() bool {
	tok := p.tok()
	return tok.Is("class") || tok.Is("interface") || tok.Is("enum") ||
		(tok.Is("@") && p.peek(1).Is("interface")) || p.isRecordStart()
}

func (p *parser) typeDeclaration() (*decl.Type, error) {
	doc := p.doc()
	line := p.tok().Span.Start.Line
	mods, anns, err := p.modifiers()
	if err != nil {
		return nil, err
	}
	if !p.atTypeKeyword() {
		return nil, p.errorf("expected type declaration")
	}
	return p.typeBody(doc, line, mods, anns)
}

func (p *parser) typeBody(doc string, line int, mods []string, anns []decl.Annotation) (*decl.Type, error) {
	t := &decl.Type{
		Modifiers:   mods,
		Annotations: anns,
		Doc:         doc,
		Line:        line,
	}
	record := false
	switch {
	case p.accept("class"):
		t.Kind = decl.KindClass
	case p.accept("interface"):
		t.Kind = decl.KindInterface
	case p.accept("enum"):
		t.Kind = decl.KindEnum
	case p.tok().Is("@"):
		p.next()
		p.next()
		t.Kind = decl.KindAnnotation
	case p.isRecordStart():
		p.next()
		t.Kind = decl.KindClass
		t.Modifiers = append(t.Modifiers, "final")
		record = true
	default:
		return nil, p.errorf("expected class, interface, enum or record")
	}

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	t.Name = name

	if p.tok().Is("<") {
		if t.TypeParams, err = p.typeParams(); err != nil {
			return nil, err
		}
	}

	var components []decl.Param
	if record {
		if components, err = p.params(); err != nil {
			return nil, err
		}
		for _, c := range components {
			t.Fields = append(t.Fields, decl.Field{
				Name:      c.Name,
				Type:      c.Type,
				Modifiers: []string{"private", "final"},
				Line:      line,
			})
		}
		t.Superclass = &decl.TypeRef{Name: "java.lang.Record"}
	}

	if p.accept("extends") {
		refs, err := p.typeList()
		if err != nil {
			return nil, err
		}
		if t.Kind == decl.KindInterface {
			t.Interfaces = append(t.Interfaces, refs...)
		} else {
			t.Superclass = &refs[0]
		}
	}
	if p.accept("implements") {
		refs, err := p.typeList()
		if err != nil {
			return nil, err
		}
		t.Interfaces = append(t.Interfaces, refs...)
	}
	if p.tok().Kind == TokenIdent && p.tok().Literal == "permits" {
		p.next()
		if _, err := p.typeList(); err != nil {
			return nil, err
		}
	}

	if err := p.classBody(t); err != nil {
		return nil, err
	}

	if record {
		addRecordAccessors(t, components)
	}
	return t, nil
}

func addRecordAccessors(t *decl.Type, components []decl.Param) {
	declared := make(map[string]bool)
	for _, m := range t.Methods {
		if len(m.Params) == 0 {
			declared[m.Name] = true
		}
	}
	for _, c := range components {
		if declared[c.Name] {
			continue
		}
		t.Methods = append(t.Methods, decl.Method{
			Name:      c.Name,
			Modifiers: []string{"public"},
			Returns:   c.Type,
			Line:      t.Line,
		})
	}
}

func (p *parser) classBody(t *decl.Type) error {
	if err := p.expect("{"); err != nil {
		return err
	}
	if t.Kind == decl.KindEnum {
		if err := p.enumConstants(t); err != nil {
			return err
		}
	}
	for !p.tok().Is("}") {
		if p.tok().Kind == TokenEOF {
			return p.errorf("unterminated body of %s", t.Name)
		}
		if err := p.member(t); err != nil {
			return err
		}
	}
	p.next()
	return nil
}

func (p *parser) enumConstants(t *decl.Type) error {
	for {
		if p.accept(";") || p.tok().Is("}") {
			return nil
		}
		doc := p.doc()
		line := p.tok().Span.Start.Line
		anns, err := p.annotations()
		if err != nil {
			return err
		}
		name, err := p.ident()
		if err != nil {
			return err
		}
		if p.tok().Is("(") {
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		}
		if p.tok().Is("{") {
			if err := p.skipBalanced("{", "}"); err != nil {
				return err
			}
		}
		t.Fields = append(t.Fields, decl.Field{
			Name:         name,
			Type:         decl.TypeRef{Name: t.Name},
			Modifiers:    []string{"public", "static", "final"},
			EnumConstant: true,
			Annotations:  anns,
			Doc:          doc,
			Line:         line,
		})
		if !p.accept(",") {
			if p.accept(";") || p.tok().Is("}") {
				return nil
			}
			return p.errorf("expected ',' or ';' after enum constant")
		}
	}
}

func (p *parser) member(t *decl.Type) error {
	if p.accept(";") {
		return nil
	}
	if p.tok().Is("{") {
		return p.skipBalanced("{", "}")
	}
	if p.tok().Is("static") && p.peek(1).Is("{") {
		p.next()
		return p.skipBalanced("{", "}")
	}

	doc := p.doc()
	line := p.tok().Span.Start.Line
	mods, anns, err := p.modifiers()
	if err != nil {
		return err
	}

	if p.atTypeKeyword() {
		nested, err := p.typeBody(doc, line, mods, anns)
		if err != nil {
			return err
		}
		t.Nested = append(t.Nested, nested)
		return nil
	}

	var typeParams []decl.TypeParam
	if p.tok().Is("<") {
		if typeParams, err = p.typeParams(); err != nil {
			return err
		}
	}

	tok := p.tok()
	if tok.Kind == TokenIdent && tok.Literal == t.Name {
		switch {
		case p.peek(1).Is("("):
			p.next()
			m := decl.Method{
				Name:        tok.Literal,
				Modifiers:   mods,
				TypeParams:  typeParams,
				Annotations: anns,
				Doc:         doc,
				Line:        line,
			}
			if err := p.methodRest(&m); err != nil {
				return err
			}
			t.Constructors = append(t.Constructors, m)
			return nil
		case p.peek(1).Is("{"):
			// compact canonical constructor of a record
			p.next()
			return p.skipBalanced("{", "}")
		}
	}

	typ, err := p.typeRef()
	if err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}

	if p.tok().Is("(") {
		m := decl.Method{
			Name:        name,
			Modifiers:   mods,
			TypeParams:  typeParams,
			Returns:     typ,
			Annotations: anns,
			Doc:         doc,
			Line:        line,
		}
		if err := p.methodRest(&m); err != nil {
			return err
		}
		t.Methods = append(t.Methods, m)
		return nil
	}

	for {
		f := decl.Field{
			Name:        name,
			Type:        typ,
			Modifiers:   mods,
			Annotations: anns,
			Doc:         doc,
			Line:        line,
		}
		f.Type.Dims += p.dims()
		t.Fields = append(t.Fields, f)
		if p.accept("=") {
			if err := p.skipInitializer(); err != nil {
				return err
			}
		}
		if p.accept(";") {
			return nil
		}
		if err := p.expect(","); err != nil {
			return err
		}
		line = p.tok().Span.Start.Line
		if name, err = p.ident(); err != nil {
			return err
		}
	}
}

// methodRest parses from the opening parenthesis of the parameter list to the
// end of the body or the terminating semicolon.
func (p *parser) methodRest(m *decl.Method) error {
	params, err := p.params()
	if err != nil {
		return err
	}
	m.Params = params
	m.Returns.Dims += p.dims()
	if p.accept("throws") {
		if m.Exceptions, err = p.typeList(); err != nil {
			return err
		}
	}
	if p.accept("default") {
		if err := p.skipInitializer(); err != nil {
			return err
		}
	}
	if p.tok().Is("{") {
		return p.skipBalanced("{", "}")
	}
	return p.expect(";")
}

func (p *parser) params() ([]decl.Param, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var params []decl.Param
	for !p.accept(")") {
		if len(params) > 0 || p.tok().Is(",") {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		if _, _, err := p.modifiers(); err != nil {
			return nil, err
		}
		typ, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		if _, err := p.annotations(); err != nil {
			return nil, err
		}
		varArgs := p.accept("...")
		if p.tok().Is("this") {
			// receiver parameter
			p.next()
			continue
		}
		if p.tok().Kind == TokenIdent && p.peek(1).Is(".") && p.peek(2).Is("this") {
			p.next()
			p.next()
			p.next()
			continue
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		typ.Dims += p.dims()
		params = append(params, decl.Param{Name: name, Type: typ, VarArgs: varArgs})
	}
	return params, nil
}

func (p *parser) typeParams() ([]decl.TypeParam, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	var tps []decl.TypeParam
	for {
		if _, err := p.annotations(); err != nil {
			return nil, err
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		tp := decl.TypeParam{Name: name}
		if p.accept("extends") {
			for {
				b, err := p.typeRef()
				if err != nil {
					return nil, err
				}
				tp.Bounds = append(tp.Bounds, b)
				if !p.accept("&") {
					break
				}
			}
		}
		tps = append(tps, tp)
		if p.accept(">") {
			return tps, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

func (p *parser) typeList() ([]decl.TypeRef, error) {
	var refs []decl.TypeRef
	for {
		r, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
		if !p.accept(",") {
			return refs, nil
		}
	}
}

func (p *parser) typeRef() (decl.TypeRef, error) {
	if _, err := p.annotations(); err != nil {
		return decl.TypeRef{}, err
	}
	tok := p.tok()
	if tok.Kind == TokenKeyword && primitives[tok.Literal] {
		p.next()
		return decl.TypeRef{Name: tok.Literal, Dims: p.dims()}, nil
	}

	var ref decl.TypeRef
	var parts []string
	for {
		if _, err := p.annotations(); err != nil {
			return decl.TypeRef{}, err
		}
		name, err := p.ident()
		if err != nil {
			return decl.TypeRef{}, err
		}
		parts = append(parts, name)
		if p.tok().Is("<") {
			args, err := p.typeArgs()
			if err != nil {
				return decl.TypeRef{}, err
			}
			ref.Args = args
		}
		if !(p.tok().Is(".") && (p.peek(1).Kind == TokenIdent || p.peek(1).Is("@"))) {
			break
		}
		p.next()
	}
	ref.Name = strings.Join(parts, ".")
	ref.Dims = p.dims()
	return ref, nil
}

func (p *parser) typeArgs() ([]decl.TypeRef, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	var args []decl.TypeRef
	if p.accept(">") {
		return args, nil
	}
	for {
		if _, err := p.annotations(); err != nil {
			return nil, err
		}
		if p.accept("?") {
			arg := decl.TypeRef{Name: "?"}
			if p.tok().Is("extends") || p.tok().Is("super") {
				arg.Wildcard = p.next().Literal
				bound, err := p.typeRef()
				if err != nil {
					return nil, err
				}
				arg.Args = []decl.TypeRef{bound}
			}
			args = append(args, arg)
		} else {
			arg, err := p.typeRef()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if p.accept(">") {
			return args, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

func (p *parser) dims() int {
	n := 0
	for {
		save := p.pos
		if _, err := p.annotations(); err != nil {
			p.pos = save
			return n
		}
		if p.tok().Is("[") && p.peek(1).Is("]") {
			p.next()
			p.next()
			n++
			continue
		}
		p.pos = save
		return n
	}
}

func (p *parser) skipBalanced(open, close string) error {
	start := p.tok()
	if err := p.expect(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		tok := p.next()
		switch {
		case tok.Kind == TokenEOF:
			return &Error{Pos: start.Span.Start, Msg: fmt.Sprintf("unmatched %q", open)}
		case tok.Is(open):
			depth++
		case tok.Is(close):
			depth--
		}
	}
	return nil
}

// skipInitializer skips an expression up to the ',' or ';' that ends a
// variable declarator. A comma only ends the declarator when it is followed
// by another declarator, so generic arguments such as new HashMap<A, B>()
// are skipped whole.
func (p *parser) skipInitializer() error {
	depth := 0
	for {
		tok := p.tok()
		switch {
		case tok.Kind == TokenEOF:
			return p.errorf("unterminated initializer")
		case tok.Is("(") || tok.Is("{") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("}") || tok.Is("]"):
			if depth == 0 {
				return p.errorf("unbalanced initializer")
			}
			depth--
		case depth == 0 && tok.Is(";"):
			return nil
		case depth == 0 && tok.Is(",") && p.declaratorFollows():
			return nil
		}
		p.next()
	}
}

func (p *parser) declaratorFollows() bool {
	if p.peek(1).Kind != TokenIdent {
		return false
	}
	next := p.peek(2)
	return next.Is("=") || next.Is(",") || next.Is(";") || next.Is("[")
}
