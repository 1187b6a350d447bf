package javadoc

import (
	"strings"
	"unicode"
)

// Parse parses a Javadoc comment including its /** and */ delimiters.
// line is the source line of the opening delimiter and is used to number
// the block tags; pass 0 when unknown.
func Parse(javadoc string, line int) *Comment {
	p := &parser{line: line}
	for i, raw := range strings.Split(stripDelimiters(javadoc), "\n") {
		p.addLine(stripLinePrefix(raw), line+i)
	}
	return p.finish()
}

type parser struct {
	line    int
	text    []string
	tags    []Tag
	current *Tag
	value   []string
}

func (p *parser) addLine(s string, line int) {
	if name, rest, ok := blockTag(s); ok {
		p.flushTag()
		p.current = &Tag{Name: name, Line: line}
		p.value = []string{rest}
		return
	}
	if p.current != nil {
		p.value = append(p.value, s)
		return
	}
	p.text = append(p.text, s)
}

func (p *parser) flushTag() {
	if p.current == nil {
		return
	}
	p.current.Value = strings.TrimSpace(strings.Join(p.value, "\n"))
	p.tags = append(p.tags, *p.current)
	p.current = nil
	p.value = nil
}

func (p *parser) finish() *Comment {
	p.flushTag()
	return &Comment{
		Text: strings.TrimSpace(strings.Join(p.text, "\n")),
		Tags: p.tags,
	}
}

// blockTag reports whether s starts a block tag. An @ that opens an inline
// tag such as {@link} never does.
func blockTag(s string) (name, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(s, "@") {
		return "", "", false
	}
	end := 1
	for end < len(s) {
		r := rune(s[end])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_') {
			break
		}
		end++
	}
	if end == 1 {
		return "", "", false
	}
	return s[1:end], strings.TrimSpace(s[end:]), true
}

func stripDelimiters(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	return s
}

// stripLinePrefix removes leading whitespace and a single leading asterisk.
func stripLinePrefix(s string) string {
	s = strings.TrimRight(s, "\r")
	trimmed := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(trimmed, "*") {
		trimmed = strings.TrimPrefix(trimmed, "*")
		return strings.TrimPrefix(trimmed, " ")
	}
	return trimmed
}
