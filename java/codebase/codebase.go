// Package codebase answers editor queries about open Java documents by
// resolving the names in them against a class library.
package codebase

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dhamidi/jmodel/java"
	"github.com/dhamidi/jmodel/java/decl"
	"github.com/dhamidi/jmodel/java/parser"
)

type Codebase struct {
	mu      sync.RWMutex
	library *java.Library
	roots   []string
	files   map[string]*FileInfo
}

// FileInfo is the last known state of a document.
type FileInfo struct {
	Path     string
	Content  []byte
	File     *decl.File
	ParseErr error
}

func New(library *java.Library, roots []string) *Codebase {
	return &Codebase{
		library: library,
		roots:   roots,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) Library() *java.Library { return c.library }
func (c *Codebase) Roots() []string        { return c.roots }

// ScanFile reads a document from disk. Files below a source root that the
// library has not seen yet are added to it so their classes become
// resolvable. Files the library already loaded are only read again when
// they are tracked as documents.
func (c *Codebase) ScanFile(path string) error {
	known := c.known(path)
	if known && c.GetFile(path) == nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	if !known && c.underRoot(path) {
		if _, err := c.library.AddSourceFile(path); err != nil {
			log.Warningf("cannot add %s: %s", path, err)
		}
	}
	return nil
}

// UpdateFile records the current content of a document. A document that
// does not parse keeps its content so positions can still be mapped.
func (c *Codebase) UpdateFile(path string, content []byte) {
	f, err := parser.Parse(content, path)
	c.mu.Lock()
	defer c.mu.Unlock()
	info := &FileInfo{Path: path, Content: content, File: f, ParseErr: err}
	if err != nil {
		if prev := c.files[path]; prev != nil {
			info.File = prev.File
		}
	}
	c.files[path] = info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) underRoot(path string) bool {
	for _, root := range c.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func (c *Codebase) known(path string) bool {
	return c.library.SourceByPath(path) != nil
}

// ClassAt resolves the type name under the cursor. Line is 1-based and
// column is a 0-based character offset.
func (c *Codebase) ClassAt(path string, line, column int) *java.Class {
	f := c.GetFile(path)
	if f == nil || f.File == nil {
		return nil
	}
	name := referenceAt(f.Content, line, column)
	if name == "" {
		return nil
	}
	cls := c.library.ResolveIn(f.File, name, enclosingType(f.File, line))
	if cls.IsPlaceholder() {
		return nil
	}
	return cls
}

// referenceAt returns the possibly qualified name that ends with the
// identifier under the cursor.
func referenceAt(content []byte, line, column int) string {
	text := lineAt(content, line)
	if column < 0 || column > len(text) {
		return ""
	}
	end := column
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	start := column
	for start > 0 && (isIdentByte(text[start-1]) || text[start-1] == '.') {
		start--
	}
	name := strings.Trim(text[start:end], ".")
	if name == "" || !isIdentByte(name[len(name)-1]) {
		return ""
	}
	return name
}

func lineAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// enclosingType returns the binary name of the innermost type declared
// at or before line.
func enclosingType(f *decl.File, line int) string {
	var best string
	var walk func(types []*decl.Type, prefix string)
	walk = func(types []*decl.Type, prefix string) {
		for _, t := range types {
			if t.Line > line {
				continue
			}
			var name string
			switch {
			case prefix != "":
				name = prefix + java.NestedSeparator + t.Name
			case f.Package != "":
				name = f.Package + "." + t.Name
			default:
				name = t.Name
			}
			best = name
			walk(t.Nested, name)
		}
	}
	walk(f.Types, "")
	return best
}

// Hover describes the class under the cursor as markdown.
func (c *Codebase) Hover(path string, line, column int) string {
	cls := c.ClassAt(path, line, column)
	if cls == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("```java\n")
	sb.WriteString(declaration(cls))
	sb.WriteString("\n```")
	if doc := cls.Comment(); doc != "" {
		sb.WriteString("\n\n")
		sb.WriteString(doc)
	}
	for _, tag := range cls.Tags() {
		sb.WriteString("\n\n*@" + tag.Name + "* " + tag.Value)
	}
	return sb.String()
}

func declaration(cls *java.Class) string {
	var parts []string
	parts = append(parts, cls.Modifiers()...)
	keyword := string(cls.Kind())
	if cls.IsAnnotation() {
		keyword = "@interface"
	}
	parts = append(parts, keyword, cls.CanonicalName())
	if sup := cls.Superclass(); sup != nil && cls.Kind() == java.KindClass {
		parts = append(parts, "extends", sup.GenericValue())
	}
	if ifaces := cls.Interfaces(); len(ifaces) > 0 {
		clause := "implements"
		if cls.IsInterface() {
			clause = "extends"
		}
		names := make([]string, len(ifaces))
		for i, t := range ifaces {
			names[i] = t.GenericValue()
		}
		parts = append(parts, clause, strings.Join(names, ", "))
	}
	return strings.Join(parts, " ")
}

// Location is where a class is declared.
type Location struct {
	Path string
	Line int
}

// Definition returns the declaration site of the class under the cursor.
// Classes read from compiled artifacts have no location.
func (c *Codebase) Definition(path string, line, column int) (Location, bool) {
	cls := c.ClassAt(path, line, column)
	if cls == nil || cls.Source() == nil {
		return Location{}, false
	}
	return Location{Path: cls.Source().Path(), Line: cls.Line()}, true
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsAtPoint lists the static members and nested classes of the
// class named before the dot at column.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	if column <= 0 {
		return nil
	}
	cls := c.ClassAt(path, line, column-1)
	if cls == nil {
		return nil
	}

	var items []CompletionItem
	seen := map[string]bool{}
	for _, v := range cls.MergedMethods(true) {
		m := v.Method
		if !m.IsPublic() || !m.IsStatic() || seen[m.SignatureKey()] {
			continue
		}
		seen[m.SignatureKey()] = true
		items = append(items, CompletionItem{
			Label:      m.Name(),
			Kind:       CompletionKindMethod,
			Detail:     m.CallSignature(),
			InsertText: formatMethodInsert(m),
		})
	}
	for _, f := range cls.Fields() {
		if !f.IsEnumConstant() && !(f.IsPublic() && f.IsStatic()) {
			continue
		}
		items = append(items, CompletionItem{
			Label:      f.Name(),
			Kind:       CompletionKindField,
			Detail:     f.Type().GenericValue(),
			InsertText: f.Name(),
		})
	}
	for _, n := range cls.NestedClasses() {
		if n.IsPrivate() {
			continue
		}
		items = append(items, CompletionItem{
			Label:      n.Name(),
			Kind:       CompletionKindClass,
			Detail:     n.CanonicalName(),
			InsertText: n.Name(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Kind < items[j].Kind })
	return items
}

func formatMethodInsert(m *java.Method) string {
	if len(m.Parameters()) == 0 {
		return m.Name() + "()"
	}
	var placeholders []string
	for i, p := range m.Parameters() {
		placeholders = append(placeholders, "${"+strconv.Itoa(i+1)+":"+p.Name()+"}")
	}
	return m.Name() + "(" + strings.Join(placeholders, ", ") + ")"
}
