package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java"
)

const customerSource = `package shop;

/**
 * A customer.
 * @since 2.0
 */
public class Customer extends Person implements java.io.Serializable {
    public static final int LIMIT = 3;
    private String name;

    public Customer(String name) {}

    public String getName() { return name; }
    public void setName(String name) {}
    void log(String fmt, Object... args) {}
}

class Person {
    public int getAge() { return 0; }
}
`

func customer(t *testing.T) *java.Class {
	t.Helper()
	l := java.NewLibrary()
	_, err := l.AddSourceString(customerSource)
	require.NoError(t, err)
	c := l.Resolve("shop.Customer")
	require.False(t, c.IsPlaceholder())
	return c
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf, Options{}).Encode(customer(t)))

	want := "class\tshop.Customer\tpublic\n" +
		"extends\tshop.Person\n" +
		"implements\tjava.io.Serializable\n" +
		"field\tLIMIT\tint\tpublic\tstatic,final\n" +
		"field\tname\tjava.lang.String\tprivate\t-\n" +
		"constructor\tCustomer\tjava.lang.String\tpublic\n" +
		"method\tgetName\tjava.lang.String\t-\tpublic\t-\t-\n" +
		"method\tsetName\tvoid\tjava.lang.String\tpublic\t-\t-\n" +
		"method\tlog\tvoid\tjava.lang.String,java.lang.Object...\tpackage\tvarargs\t-\n" +
		"property\tname\tjava.lang.String\trw\n"
	assert.Equal(t, want, buf.String())
}

func TestLineEncoderInherited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf, Options{Inherited: true}).Encode(customer(t)))

	assert.Contains(t, buf.String(), "method\tgetAge\tint\t-\tpublic\t-\tshop.Person\n")
	assert.Contains(t, buf.String(), "property\tage\tint\tr\n")
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf, Options{Inherited: true}).Encode(customer(t)))

	var got jsonClass
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "shop.Customer", got.Name)
	assert.Equal(t, "Customer", got.SimpleName)
	assert.Equal(t, "shop", got.Package)
	assert.Equal(t, "class", got.Kind)
	assert.Equal(t, "source", got.Origin)
	assert.Equal(t, "shop.Person", got.SuperClass)
	assert.Equal(t, []string{"java.io.Serializable"}, got.Interfaces)
	assert.Equal(t, "A customer.", got.Comment)
	assert.Equal(t, []jsonTag{{Name: "since", Value: "2.0"}}, got.Tags)

	require.Len(t, got.Constructors, 1)
	assert.Empty(t, got.Constructors[0].ReturnType)
	assert.Equal(t, "Customer(java.lang.String name)", got.Constructors[0].Signature)

	var names []string
	for _, m := range got.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"getName", "setName", "log", "getAge"}, names)
	assert.Empty(t, got.Methods[0].DeclaredIn)
	assert.Equal(t, "shop.Person", got.Methods[3].DeclaredIn)
	assert.True(t, got.Methods[2].Parameters[1].VarArgs)

	assert.Equal(t, []jsonProperty{
		{Name: "name", Type: "java.lang.String", Readable: true, Writable: true},
		{Name: "age", Type: "int", Readable: true},
	}, got.Properties)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range Formats {
		enc, err := New(name, &buf, Options{})
		require.NoError(t, err)
		assert.NotNil(t, enc)
	}
	_, err := New("xml", &buf, Options{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestPlaceholderKind(t *testing.T) {
	l := java.NewLibrary()
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf, Options{}).Encode(l.Resolve("a.Missing")))
	assert.Equal(t, "unresolved\ta.Missing\tpackage\nextends\tjava.lang.Object\n", buf.String())
}
