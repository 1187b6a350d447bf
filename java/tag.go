package java

import (
	"strings"

	"github.com/dhamidi/jmodel/java/javadoc"
)

// DocTag is a block tag from a doc comment, such as @param or @author.
type DocTag struct {
	Name  string
	Value string
	Line  int

	// Context is the class, method or field the comment belongs to.
	Context any
}

func newDocTags(c *javadoc.Comment, context any) []*DocTag {
	if c == nil {
		return nil
	}
	tags := make([]*DocTag, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = &DocTag{Name: t.Name, Value: t.Value, Line: t.Line, Context: context}
	}
	return tags
}

// Parameters splits the value on whitespace, keeping quoted runs together.
func (t *DocTag) Parameters() []string {
	return javadoc.Tag{Name: t.Name, Value: t.Value}.Parameters()
}

// NamedParameter returns the value of a key=value parameter.
func (t *DocTag) NamedParameter(key string) string {
	for _, p := range t.Parameters() {
		if k, v, ok := strings.Cut(p, "="); ok && k == key {
			return v
		}
	}
	return ""
}

func (t *DocTag) String() string {
	if t.Value == "" {
		return "@" + t.Name
	}
	return "@" + t.Name + " " + t.Value
}
