package javadoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	c := Parse("/** Returns the {@code size} of the list. */", 1)
	assert.Equal(t, "Returns the {@code size} of the list.", c.Text)
	assert.Empty(t, c.Tags)
}

func TestParseBlockTags(t *testing.T) {
	src := `/**
 * Adds two numbers.
 * See {@link Math#addExact(int, int)}.
 *
 * @param a the first
 *        operand
 * @param b the second
 * @return the sum
 * @throws ArithmeticException on overflow
 * @deprecated
 */`
	c := Parse(src, 10)

	assert.Equal(t, "Adds two numbers.\nSee {@link Math#addExact(int, int)}.", c.Text)
	require.Len(t, c.Tags, 5)

	assert.Equal(t, Tag{Name: "param", Value: "a the first\n       operand", Line: 14}, c.Tags[0])
	assert.Equal(t, "b the second", c.Tags[1].Value)
	assert.Equal(t, "return", c.Tags[2].Name)
	assert.Equal(t, "throws", c.Tags[3].Name)
	assert.Equal(t, Tag{Name: "deprecated", Line: 19}, c.Tags[4])

	params := c.TagsByName("param")
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Parameters()[0])
}

func TestParseCustomTags(t *testing.T) {
	c := Parse("/**\n * @hibernate.class table=\"my table\" lazy=false\n * @x-custom\n */", 0)
	require.Len(t, c.Tags, 2)
	assert.Equal(t, "hibernate.class", c.Tags[0].Name)
	assert.Equal(t, []string{"table=my table", "lazy=false"}, c.Tags[0].Parameters())
	assert.Equal(t, "x-custom", c.Tags[1].Name)
}

func TestParseIgnoresBareAt(t *testing.T) {
	c := Parse("/**\n * email me @ home\n * @\n */", 0)
	assert.Empty(t, c.Tags)
	assert.Equal(t, "email me @ home\n@", c.Text)
}

func TestTagsByNameOnNil(t *testing.T) {
	var c *Comment
	assert.Nil(t, c.TagsByName("param"))
}
