// Package format renders class summaries for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jmodel/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.Class) error
}

// Options select what a summary contains.
type Options struct {
	// Inherited adds the methods and bean properties a class inherits.
	Inherited bool
}

// Formats lists the names accepted by New.
var Formats = []string{"line", "json"}

func New(name string, w io.Writer, opts Options) (Encoder, error) {
	switch name {
	case "line":
		return NewLineEncoder(w, opts), nil
	case "json":
		return NewJSONEncoder(w, opts), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

func visibility(mods []string) string {
	for _, m := range mods {
		switch m {
		case "public", "protected", "private":
			return m
		}
	}
	return "package"
}

// otherModifiers drops the access modifiers.
func otherModifiers(mods []string) []string {
	var out []string
	for _, m := range mods {
		switch m {
		case "public", "protected", "private":
			continue
		}
		out = append(out, m)
	}
	return out
}

func kind(c *java.Class) string {
	if c.IsPlaceholder() {
		return "unresolved"
	}
	return string(c.Kind())
}
