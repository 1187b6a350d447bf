// Package javadoc extracts the description and block tags of Javadoc
// comments.
package javadoc

import "strings"

// Comment is a parsed Javadoc comment.
type Comment struct {
	Text string
	Tags []Tag
}

// Tag is a block tag such as @param or @deprecated.
type Tag struct {
	Name  string
	Value string
	Line  int
}

// Parameters splits the tag value on whitespace. Double-quoted runs are kept
// together with the quotes removed.
func (t Tag) Parameters() []string {
	var params []string
	var cur strings.Builder
	quoted := false
	flush := func() {
		if cur.Len() > 0 {
			params = append(params, cur.String())
			cur.Reset()
		}
	}
	for _, r := range t.Value {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return params
}

// TagsByName returns the tags with the given name in declaration order.
func (c *Comment) TagsByName(name string) []Tag {
	if c == nil {
		return nil
	}
	var tags []Tag
	for _, t := range c.Tags {
		if t.Name == name {
			tags = append(tags, t)
		}
	}
	return tags
}
