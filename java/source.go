package java

import (
	"github.com/zeebo/xxh3"

	"github.com/dhamidi/jmodel/java/decl"
)

// Source is a compilation unit the library read classes from.
type Source struct {
	path        string
	pkg         string
	imports     []decl.Import
	classes     []*Class
	fingerprint uint64
	library     *Library
}

func newSource(l *Library, f *decl.File) *Source {
	return &Source{
		path:        f.Path,
		pkg:         f.Package,
		imports:     f.Imports,
		fingerprint: Fingerprint(f.Content),
		library:     l,
	}
}

// Fingerprint hashes source text so identical content is read only once.
func Fingerprint(content []byte) uint64 {
	return xxh3.Hash(content)
}

func (s *Source) Path() string           { return s.path }
func (s *Source) PackageName() string    { return s.pkg }
func (s *Source) Fingerprint() uint64    { return s.fingerprint }
func (s *Source) Library() *Library      { return s.library }
func (s *Source) Imports() []decl.Import { return s.imports }

// Classes returns the top-level classes declared in the source.
func (s *Source) Classes() []*Class { return s.classes }

func (s *Source) String() string { return s.path }
