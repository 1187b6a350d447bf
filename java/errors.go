package java

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks source text or class files that could not be read into
	// declarations.
	ErrParse = errors.New("parse failure")

	// ErrInvalidDeclaration marks declarations that violate a structural
	// rule of the language, such as an enum naming a superclass.
	ErrInvalidDeclaration = errors.New("invalid declaration")
)

type ParseError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.File == "":
		return fmt.Sprintf("parse: %v", e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse %s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

type DeclarationError struct {
	Class  string
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration of %s: %s", e.Class, e.Reason)
}

func (e *DeclarationError) Is(target error) bool { return target == ErrInvalidDeclaration }
