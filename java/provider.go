package java

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/jmodel/classfile"
	"github.com/dhamidi/jmodel/java/decl"
	"github.com/dhamidi/jmodel/java/parser"
)

// Provider locates and reads the declarations of a class by its fully
// qualified name. Provide returns nil and no error when the provider does
// not know the class.
type Provider interface {
	Contains(name string) bool
	Provide(name string) (*decl.File, error)
}

// SourceProvider reads classes from .java files under a source root laid
// out by package. Nested classes are read from the file of their top-level
// class.
type SourceProvider struct {
	root string
}

func NewSourceProvider(root string) *SourceProvider {
	return &SourceProvider{root: root}
}

func (p *SourceProvider) Root() string { return p.root }

// Path maps a class name to the file that would declare it.
func (p *SourceProvider) Path(name string) string {
	top, _, _ := strings.Cut(name, NestedSeparator)
	return filepath.Join(p.root, filepath.FromSlash(strings.ReplaceAll(top, ".", "/"))+".java")
}

func (p *SourceProvider) Contains(name string) bool {
	info, err := os.Stat(p.Path(name))
	return err == nil && !info.IsDir()
}

func (p *SourceProvider) Provide(name string) (*decl.File, error) {
	path := p.Path(name)
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return parseSource(src, path)
}

// Files lists every .java file below the root in lexical order.
func (p *SourceProvider) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk source root: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func parseSource(src []byte, path string) (*decl.File, error) {
	f, err := parser.Parse(src, path)
	if err != nil {
		return nil, newParseError(path, err)
	}
	f.Content = src
	return f, nil
}

func newParseError(path string, err error) error {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return &ParseError{File: path, Line: perr.Pos.Line, Column: perr.Pos.Column, Err: err}
	}
	return &ParseError{File: path, Err: err}
}

// BinaryProvider reads compiled classes from a class directory or a jar.
type BinaryProvider struct {
	path string
	zip  *zip.ReadCloser
	jar  map[string]*zip.File
}

// NewBinaryProvider opens a directory of class files or a jar archive.
func NewBinaryProvider(path string) (*BinaryProvider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open class path entry: %w", err)
	}
	p := &BinaryProvider{path: path}
	if info.IsDir() {
		return p, nil
	}
	p.zip, err = zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	p.jar = make(map[string]*zip.File, len(p.zip.File))
	for _, f := range p.zip.File {
		if strings.HasSuffix(f.Name, ".class") {
			p.jar[f.Name] = f
		}
	}
	return p, nil
}

func (p *BinaryProvider) Path() string { return p.path }

func (p *BinaryProvider) Close() error {
	if p.zip == nil {
		return nil
	}
	return p.zip.Close()
}

func classEntry(name string) string {
	return classfile.SourceToInternalName(name) + ".class"
}

func (p *BinaryProvider) Contains(name string) bool {
	entry := classEntry(name)
	if p.jar != nil {
		_, ok := p.jar[entry]
		return ok
	}
	info, err := os.Stat(filepath.Join(p.path, filepath.FromSlash(entry)))
	return err == nil && !info.IsDir()
}

func (p *BinaryProvider) open(entry string) (io.ReadCloser, error) {
	if p.jar != nil {
		f, ok := p.jar[entry]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return f.Open()
	}
	return os.Open(filepath.Join(p.path, filepath.FromSlash(entry)))
}

func (p *BinaryProvider) read(name string) (*classfile.ClassFile, error) {
	entry := classEntry(name)
	rc, err := p.open(entry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	cf, err := classfile.Parse(rc)
	if err != nil {
		return nil, &ParseError{File: entry, Err: err}
	}
	return cf, nil
}

// Provide reads the top-level class that encloses name together with all
// its member classes. When the top-level class file is missing the
// requested class is read on its own.
func (p *BinaryProvider) Provide(name string) (*decl.File, error) {
	top, _, _ := strings.Cut(name, NestedSeparator)
	t, err := p.readTree(top, binarySimpleName(top))
	if errors.Is(err, fs.ErrNotExist) && top != name {
		t, err = p.readTree(name, binarySimpleName(name))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &decl.File{
		Path:    p.path + "!" + classEntry(top),
		Package: packageOf(name),
		Types:   []*decl.Type{t},
	}, nil
}

func (p *BinaryProvider) readTree(name, simpleName string) (*decl.Type, error) {
	cf, err := p.read(name)
	if err != nil {
		return nil, err
	}
	t, err := declFromClassFile(cf, simpleName)
	if err != nil {
		return nil, &ParseError{File: classEntry(name), Err: err}
	}
	for _, ic := range cf.MemberClasses() {
		inner := classfile.InternalToSourceName(ic.Inner)
		nested, err := p.readTree(inner, ic.SimpleName)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		t.Nested = append(t.Nested, nested)
	}
	return t, nil
}
