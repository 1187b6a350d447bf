package parser

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenComment
	TokenIdent
	TokenKeyword
	TokenNumber
	TokenString
	TokenChar
	TokenPunct
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:     "EOF",
	TokenError:   "Error",
	TokenComment: "Comment",
	TokenIdent:   "Identifier",
	TokenKeyword: "Keyword",
	TokenNumber:  "Number",
	TokenString:  "String",
	TokenChar:    "Char",
	TokenPunct:   "Punct",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Is reports whether the token is the keyword or punctuation lit.
func (t Token) Is(lit string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenPunct) && t.Literal == lit
}

// Only reserved words are keywords; contextual words such as record or
// sealed stay identifiers and are recognised by the parser where they matter.
var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true,
	"long": true, "native": true, "new": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true, "true": true, "false": true,
	"null": true,
}

func LookupKeyword(ident string) TokenKind {
	if keywords[ident] {
		return TokenKeyword
	}
	return TokenIdent
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"abstract": true, "final": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
	"sealed": true, "non-sealed": true,
}
