package classfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethodDescriptor(t *testing.T) {
	params, ret, err := ParseMethodDescriptor("(I[[Ljava/lang/String;Ljava/util/Map$Entry;)Z")
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, TypeSig{Name: "int"}, params[0])
	assert.Equal(t, TypeSig{Name: "java.lang.String", Dims: 2}, params[1])
	assert.Equal(t, "java.util.Map$Entry", params[2].Name)
	assert.Equal(t, "boolean", ret.Name)
}

func TestParseDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "Q", "Ljava/lang/String", "[", "II"} {
		t.Run(desc, func(t *testing.T) {
			_, err := ParseFieldDescriptor(desc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))
		})
	}
	_, _, err := ParseMethodDescriptor("(I")
	assert.Error(t, err)
}

func TestParseClassSignature(t *testing.T) {
	sig, err := ParseClassSignature(
		"<K:Ljava/lang/Object;V::Ljava/lang/Comparable<TV;>;>Ljava/util/AbstractMap<TK;TV;>;Ljava/io/Serializable;")
	require.NoError(t, err)

	require.Len(t, sig.TypeParams, 2)
	assert.Equal(t, "K", sig.TypeParams[0].Name)
	assert.Equal(t, "java.lang.Object", sig.TypeParams[0].Bounds[0].Name)
	require.Len(t, sig.TypeParams[1].Bounds, 1)
	assert.Equal(t, "java.lang.Comparable<V>", sig.TypeParams[1].Bounds[0].String())

	assert.Equal(t, "java.util.AbstractMap<K,V>", sig.Super.String())
	assert.True(t, sig.Super.Args[0].TypeVar)
	require.Len(t, sig.Interfaces, 1)
}

func TestParseMethodSignature(t *testing.T) {
	sig, err := ParseMethodSignature(
		"<T:Ljava/lang/Number;>(Ljava/util/List<+TT;>;[TT;Ljava/util/Map<*-Ljava/lang/String;>;)TT;^TE;")
	require.NoError(t, err)

	require.Len(t, sig.TypeParams, 1)
	require.Len(t, sig.Params, 3)
	assert.Equal(t, "java.util.List<? extends T>", sig.Params[0].String())
	assert.Equal(t, TypeSig{Name: "T", TypeVar: true, Dims: 1}, sig.Params[1])
	assert.Equal(t, "java.util.Map<?,? super java.lang.String>", sig.Params[2].String())
	assert.Equal(t, "T", sig.Return.Name)
	require.Len(t, sig.Throws, 1)
	assert.True(t, sig.Throws[0].TypeVar)
}

func TestParseInnerClassSignature(t *testing.T) {
	ft, err := ParseFieldDescriptor("Lcom/example/Outer<TT;>.Inner<Ljava/lang/String;>;")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Outer$Inner", ft.Name)
	assert.Equal(t, "com.example.Outer$Inner<java.lang.String>", ft.String())
}

func TestDecodeModifiedUtf8(t *testing.T) {
	assert.Equal(t, "a\x00b", decodeModifiedUtf8([]byte{'a', 0xC0, 0x80, 'b'}))
	assert.Equal(t, "é", decodeModifiedUtf8([]byte{0xC3, 0xA9}))
	// U+1F600 as a surrogate pair
	assert.Equal(t, "\U0001F600", decodeModifiedUtf8([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}))
}
