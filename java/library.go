package java

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dhamidi/jmodel/java/decl"
)

var log = commonlog.GetLogger("jmodel.library")

// Library resolves class names to classes. It asks its source providers,
// then its binary providers, then its parent libraries, and falls back to
// a placeholder, so every name resolves to exactly one class per library.
//
// Classes are created lazily on first lookup and never replaced. Loading is
// serialised; lookups of classes that are already loaded only take a read
// lock.
type Library struct {
	rootType string
	enumBase string

	mu       sync.RWMutex
	classes  []*Class
	byName   map[string]*Class
	packages map[string]*Package
	sources  []*Source
	byHash   map[uint64]*Source
	byPath   map[string]*Source

	sourceProviders []Provider
	binaryProviders []Provider
	parents         []*Library

	loadMu sync.Mutex
	group  singleflight.Group
}

type Option func(*Library)

// WithRootType sets the class every class without an explicit superclass
// extends.
func WithRootType(name string) Option {
	return func(l *Library) { l.rootType = name }
}

// WithEnumBase sets the class every enum extends.
func WithEnumBase(name string) Option {
	return func(l *Library) { l.enumBase = name }
}

func NewLibrary(opts ...Option) *Library {
	l := &Library{
		rootType: DefaultRootType,
		enumBase: DefaultEnumBase,
		byName:   make(map[string]*Class),
		packages: make(map[string]*Package),
		byHash:   make(map[uint64]*Source),
		byPath:   make(map[string]*Source),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Library) rootTypeName() string {
	if l == nil {
		return DefaultRootType
	}
	return l.rootType
}

func (l *Library) enumBaseName() string {
	if l == nil {
		return DefaultEnumBase
	}
	return l.enumBase
}

func (l *Library) RootType() string { return l.rootTypeName() }
func (l *Library) EnumBase() string { return l.enumBaseName() }

// RegisterSourceRoot adds a directory of .java files laid out by package.
func (l *Library) RegisterSourceRoot(dir string) *SourceProvider {
	p := NewSourceProvider(dir)
	l.AddSourceProvider(p)
	return p
}

func (l *Library) AddSourceProvider(p Provider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sourceProviders = append(l.sourceProviders, p)
}

func (l *Library) AddBinaryProvider(p Provider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.binaryProviders = append(l.binaryProviders, p)
}

// AddClassPath opens a class directory or jar and adds it as a binary
// provider.
func (l *Library) AddClassPath(path string) (*BinaryProvider, error) {
	p, err := NewBinaryProvider(path)
	if err != nil {
		return nil, err
	}
	l.AddBinaryProvider(p)
	return p, nil
}

// AddParent adds a library that is consulted for names none of this
// library's providers know. Classes found there keep belonging to the
// parent.
func (l *Library) AddParent(parent *Library) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.parents = append(l.parents, parent)
}

func (l *Library) Parents() []*Library {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Library(nil), l.parents...)
}

func normalizeName(name string) string {
	name, _ = stripDims(strings.TrimSpace(name))
	return name
}

func (l *Library) lookupIndex(name string) *Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byName[name]
}

// Lookup returns the class with the given fully qualified name, loading it
// if needed. Unknown names yield a placeholder. An error is returned when a
// provider knows the name but failed to read it.
func (l *Library) Lookup(name string) (*Class, error) {
	name = normalizeName(name)
	if c := l.lookupIndex(name); c != nil {
		return c, nil
	}
	v, err, _ := l.group.Do(name, func() (any, error) {
		l.loadMu.Lock()
		defer l.loadMu.Unlock()
		c, err := l.findLocked(name)
		if err != nil {
			return nil, err
		}
		if c == nil {
			c = l.placeholderLocked(name, nil)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Class), nil
}

// Resolve is like Lookup but never fails: when a provider fails, the error
// is logged and kept on the placeholder that stands in for the class.
func (l *Library) Resolve(name string) *Class {
	c, err := l.Lookup(name)
	if err == nil {
		return c
	}
	name = normalizeName(name)
	log.Warningf("cannot load %s: %s", name, err)
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	return l.placeholderLocked(name, err)
}

// ResolveIn resolves a type name as written in the source file f. When
// enclosing is not empty, the name is seen from inside that class so its
// nested classes and those of its outer classes are in scope.
func (l *Library) ResolveIn(f *decl.File, name, enclosing string) *Class {
	var c *Class
	if enclosing != "" {
		if c = l.Resolve(enclosing); c.IsPlaceholder() {
			c = nil
		}
	}
	b := newBuilder(l, f, OriginSource, nil)
	return l.Resolve(b.resolveName(name, c))
}

// findLocked loads name from the providers and parents. It returns nil
// when nobody knows the name. The caller holds loadMu.
func (l *Library) findLocked(name string) (*Class, error) {
	if c := l.lookupIndex(name); c != nil {
		return c, nil
	}

	l.mu.RLock()
	sources := l.sourceProviders
	binaries := l.binaryProviders
	parents := l.parents
	l.mu.RUnlock()

	for _, p := range sources {
		if c, err := l.loadFrom(p, name, OriginSource); c != nil || err != nil {
			return c, err
		}
	}
	for _, p := range binaries {
		if c, err := l.loadFrom(p, name, OriginBinary); c != nil || err != nil {
			return c, err
		}
	}

	for _, parent := range parents {
		if !parent.ContainsReference(name) {
			continue
		}
		c, err := parent.Lookup(name)
		if err != nil {
			return nil, err
		}
		if !c.IsPlaceholder() {
			l.alias(name, c)
			return c, nil
		}
	}

	// a.Outer.Inner written with dots names the nested class a.Outer$Inner.
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		nested := name[:i] + NestedSeparator + name[i+1:]
		c, err := l.findLocked(nested)
		if c != nil {
			l.alias(name, c)
		}
		return c, err
	}
	return nil, nil
}

func (l *Library) loadFrom(p Provider, name string, origin Origin) (*Class, error) {
	if !p.Contains(name) {
		return nil, nil
	}
	f, err := p.Provide(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if f == nil {
		return nil, nil
	}
	if _, err := l.addFileLocked(f, origin); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	c := l.lookupIndex(name)
	if c != nil {
		log.Debugf("loaded %s from %s", name, f.Path)
	}
	return c, nil
}

// alias makes c reachable under another name without changing its owner.
func (l *Library) alias(name string, c *Class) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byName[name]; !ok {
		l.byName[name] = c
	}
}

func (l *Library) placeholderLocked(name string, cause error) *Class {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.byName[name]; ok {
		return c
	}
	c := l.newPlaceholder(name)
	c.loadErr = cause
	l.registerLocked(c)
	return c
}

// newPlaceholder creates a class with no members for a name no provider
// could supply.
func (l *Library) newPlaceholder(name string) *Class {
	pkg := packageOf(name)
	simple := name
	if pkg != "" {
		simple = name[len(pkg)+1:]
	}
	if i := strings.LastIndex(simple, NestedSeparator); i >= 0 {
		simple = simple[i+1:]
	}
	return &Class{
		library: l,
		handle:  newHandle(),
		origin:  OriginPlaceholder,
		name:    simple,
		fqn:     name,
		pkg:     pkg,
		kind:    KindClass,
	}
}

// registerLocked adds c to the index. The caller holds mu for writing.
func (l *Library) registerLocked(c *Class) {
	l.classes = append(l.classes, c)
	l.byName[c.fqn] = c
	if c.outer == nil {
		p := l.packageLocked(c.pkg)
		p.classes = append(p.classes, c)
	}
}

// ContainsReference reports whether name is loaded or could be loaded by a
// provider of this library or of a parent. It never loads anything.
func (l *Library) ContainsReference(name string) bool {
	name = normalizeName(name)
	l.mu.RLock()
	c, ok := l.byName[name]
	sources := l.sourceProviders
	binaries := l.binaryProviders
	parents := l.parents
	l.mu.RUnlock()
	if ok {
		return !c.IsPlaceholder()
	}
	for _, p := range sources {
		if p.Contains(name) {
			return true
		}
	}
	for _, p := range binaries {
		if p.Contains(name) {
			return true
		}
	}
	for _, parent := range parents {
		if parent.ContainsReference(name) {
			return true
		}
	}
	return false
}

// AddSource reads and registers the classes of one compilation unit. The
// reader is closed when it implements io.Closer, whether or not parsing
// succeeds. Content that was added before is not read again.
func (l *Library) AddSource(r io.Reader) (*Source, error) {
	return l.addSource(r, "")
}

func (l *Library) AddSourceString(src string) (*Source, error) {
	return l.AddSource(strings.NewReader(src))
}

func (l *Library) AddSourceFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return l.addSource(f, path)
}

func (l *Library) addSource(r io.Reader, path string) (*Source, error) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	content := buf.Bytes()

	l.mu.RLock()
	existing := l.byHash[Fingerprint(content)]
	l.mu.RUnlock()
	if existing != nil {
		return existing, nil
	}

	f, err := parseSource(content, path)
	if err != nil {
		return nil, err
	}
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	return l.addFileLocked(f, OriginSource)
}

// Preload reads every file of every registered source root. Files are
// parsed in parallel and registered in path order.
func (l *Library) Preload(ctx context.Context) error {
	l.mu.RLock()
	providers := l.sourceProviders
	l.mu.RUnlock()

	var paths []string
	for _, p := range providers {
		sp, ok := p.(*SourceProvider)
		if !ok {
			continue
		}
		files, err := sp.Files()
		if err != nil {
			return err
		}
		paths = append(paths, files...)
	}

	parsed := make([]*decl.File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			parsed[i], err = parseSource(src, path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	var errs []error
	for _, f := range parsed {
		if _, err := l.addFileLocked(f, OriginSource); err != nil {
			errs = append(errs, err)
		}
	}
	log.Infof("preloaded %d source files", len(parsed))
	return errors.Join(errs...)
}

// addFileLocked builds and registers the classes of f. Classes whose name
// is already taken are dropped in favour of the registered ones. The caller
// holds loadMu.
func (l *Library) addFileLocked(f *decl.File, origin Origin) (*Source, error) {
	var src *Source
	if origin == OriginSource {
		l.mu.RLock()
		existing := l.byHash[Fingerprint(f.Content)]
		l.mu.RUnlock()
		if existing != nil && existing.path == f.Path {
			return existing, nil
		}
		src = newSource(l, f)
	}

	b := newBuilder(l, f, origin, src)
	built, err := b.build()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	skipped := map[*Class]bool{}
	for _, c := range built {
		if c.outer != nil && skipped[c.outer] {
			skipped[c] = true
			continue
		}
		if prev, ok := l.byName[c.fqn]; ok {
			skipped[c] = true
			if origin == OriginSource && prev.origin == OriginSource {
				log.Warningf("%s is already loaded, ignoring the copy in %s", c.fqn, f.Path)
			}
			continue
		}
		l.registerLocked(c)
		if src != nil && c.outer == nil {
			src.classes = append(src.classes, c)
		}
	}
	if src != nil {
		l.sources = append(l.sources, src)
		l.byHash[src.fingerprint] = src
		if _, ok := l.byPath[src.path]; !ok && src.path != "" {
			l.byPath[src.path] = src
		}
	}
	return src, nil
}

// Classes returns every class loaded by this library so far, including
// placeholders, in load order.
func (l *Library) Classes() []*Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Class(nil), l.classes...)
}

// SourceByPath returns the first source registered from path.
func (l *Library) SourceByPath(path string) *Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byPath[path]
}

func (l *Library) Sources() []*Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Source(nil), l.sources...)
}

// Packages returns the packages of the loaded classes, sorted by name.
func (l *Library) Packages() []*Package {
	l.mu.RLock()
	packages := make([]*Package, 0, len(l.packages))
	for _, p := range l.packages {
		packages = append(packages, p)
	}
	l.mu.RUnlock()
	sort.Slice(packages, func(i, j int) bool { return packages[i].name < packages[j].name })
	return packages
}

// Package returns the package with the given name, creating an empty one
// if no class of it was loaded yet.
func (l *Library) Package(name string) *Package {
	l.mu.RLock()
	p, ok := l.packages[name]
	l.mu.RUnlock()
	if ok {
		return p
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.packageLocked(name)
}

func (l *Library) packageLocked(name string) *Package {
	p, ok := l.packages[name]
	if !ok {
		p = &Package{name: name, library: l}
		l.packages[name] = p
	}
	return p
}
