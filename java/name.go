package java

import "strings"

// NestedSeparator joins the name of a nested class to the fully qualified
// name of its enclosing class.
const NestedSeparator = "$"

const (
	DefaultRootType = "java.lang.Object"
	DefaultEnumBase = "java.lang.Enum"
)

// CanonicalName turns a fully qualified name into the form used in source
// code, where nested classes are separated by dots.
func CanonicalName(fqn string) string {
	return strings.ReplaceAll(fqn, NestedSeparator, ".")
}

func packageOf(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[:i]
	}
	return ""
}

func lastSegment(name string) string {
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// stripDims removes trailing [] pairs and reports how many there were.
func stripDims(name string) (string, int) {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		dims++
	}
	return name, dims
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// javaLangTypes are resolved implicitly, without an import, when nothing
// else in scope claims the simple name.
var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true, "Void": true,
	"Number": true, "Comparable": true, "CharSequence": true, "AutoCloseable": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "Appendable": true,
	"Thread": true, "ThreadLocal": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "StrictMath": true, "Enum": true, "Record": true, "Process": true,
	"Runtime": true, "ClassLoader": true, "Package": true, "Module": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "SafeVarargs": true,
	"ArithmeticException": true, "ArrayIndexOutOfBoundsException": true,
	"ClassCastException": true, "ClassNotFoundException": true,
	"CloneNotSupportedException": true, "IllegalArgumentException": true,
	"IllegalStateException": true, "IndexOutOfBoundsException": true,
	"InterruptedException": true, "NullPointerException": true,
	"NumberFormatException": true, "UnsupportedOperationException": true,
	"SecurityException": true, "AssertionError": true, "OutOfMemoryError": true,
	"StackOverflowError": true, "LinkageError": true,
}
