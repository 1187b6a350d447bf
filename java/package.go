package java

import "sort"

// Package groups the classes of a library by package name.
type Package struct {
	name    string
	library *Library
	classes []*Class
}

func (p *Package) Name() string      { return p.name }
func (p *Package) Library() *Library { return p.library }

// Classes returns the top-level classes registered in the package so far,
// sorted by name.
func (p *Package) Classes() []*Class {
	p.library.mu.RLock()
	classes := append([]*Class(nil), p.classes...)
	p.library.mu.RUnlock()
	sort.Slice(classes, func(i, j int) bool { return classes[i].fqn < classes[j].fqn })
	return classes
}

func (p *Package) String() string { return "package " + p.name }
