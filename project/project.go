// Package project finds the source roots and class path of a Java project
// and builds a class library over them.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jmodel/java"
)

// FileName is the configuration file Detect looks for.
const FileName = "jmodel.yaml"

const (
	EnvSourceRoots = "JMODEL_SOURCE_ROOTS"
	EnvClassPath   = "JMODEL_CLASSPATH"
)

var log = commonlog.GetLogger("jmodel.project")

// Config describes where a library finds its classes. Relative paths are
// taken relative to the directory of the configuration file. Parents are
// libraries of their own that the configured library delegates to.
type Config struct {
	SourceRoots []string  `yaml:"sourceRoots"`
	ClassPath   []string  `yaml:"classPath"`
	RootType    string    `yaml:"rootType"`
	EnumBase    string    `yaml:"enumBase"`
	Parents     []*Config `yaml:"parents"`

	Dir string `yaml:"-"`
}

// Load reads a configuration file and applies the environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.setDir(abs)
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) setDir(dir string) {
	if c.Dir == "" {
		c.Dir = dir
	}
	for _, p := range c.Parents {
		p.setDir(c.Dir)
	}
}

// Detect loads dir/jmodel.yaml when it exists and otherwise derives the
// configuration from the usual Maven, Gradle and modular source layouts.
// A .env file in dir is loaded first so it can provide the environment
// overrides.
func Detect(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warningf("cannot load .env: %s", err)
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Dir: abs}
	for _, candidate := range []string{"src/main/java", "src/test/java"} {
		if isDir(filepath.Join(abs, candidate)) {
			cfg.SourceRoots = append(cfg.SourceRoots, candidate)
		}
	}
	if len(cfg.SourceRoots) == 0 {
		modules, err := scanModules(filepath.Join(abs, "src"))
		if err != nil {
			return nil, err
		}
		for _, m := range modules {
			rel, _ := filepath.Rel(abs, m)
			cfg.SourceRoots = append(cfg.SourceRoots, rel)
		}
	}
	if len(cfg.SourceRoots) == 0 && ContainsJava(filepath.Join(abs, "src")) {
		cfg.SourceRoots = []string{"src"}
	}

	for _, candidate := range []string{"target/classes", "build/classes/java/main"} {
		if isDir(filepath.Join(abs, candidate)) {
			cfg.ClassPath = append(cfg.ClassPath, candidate)
		}
	}
	jars, _ := filepath.Glob(filepath.Join(abs, "lib", "*.jar"))
	sort.Strings(jars)
	for _, jar := range jars {
		rel, _ := filepath.Rel(abs, jar)
		cfg.ClassPath = append(cfg.ClassPath, rel)
	}

	cfg.applyEnv()
	return cfg, nil
}

// scanModules finds module source directories laid out as
// src/<project>/<module>/module-info.java.
func scanModules(srcDir string) ([]string, error) {
	projects, err := os.ReadDir(srcDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read src directory: %w", err)
	}
	var modules []string
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(srcDir, p.Name()))
		if err != nil {
			continue
		}
		for _, e := range entries {
			moduleDir := filepath.Join(srcDir, p.Name(), e.Name())
			if e.IsDir() && isFile(filepath.Join(moduleDir, "module-info.java")) {
				modules = append(modules, moduleDir)
			}
		}
	}
	return modules, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSourceRoots); v != "" {
		c.SourceRoots = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvClassPath); v != "" {
		c.ClassPath = filepath.SplitList(v)
	}
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Project is a configured library together with the class path entries it
// keeps open.
type Project struct {
	Config  *Config
	Library *java.Library

	providers []*java.BinaryProvider
	parents   []*Project
}

// Open builds the library described by the configuration, including its
// parent libraries.
func (c *Config) Open() (*Project, error) {
	var opts []java.Option
	if c.RootType != "" {
		opts = append(opts, java.WithRootType(c.RootType))
	}
	if c.EnumBase != "" {
		opts = append(opts, java.WithEnumBase(c.EnumBase))
	}
	p := &Project{Config: c, Library: java.NewLibrary(opts...)}

	for _, root := range c.SourceRoots {
		dir := c.path(root)
		if !isDir(dir) {
			p.Close()
			return nil, fmt.Errorf("source root %s is not a directory", dir)
		}
		p.Library.RegisterSourceRoot(dir)
	}
	for _, entry := range c.ClassPath {
		bp, err := p.Library.AddClassPath(c.path(entry))
		if err != nil {
			p.Close()
			return nil, err
		}
		p.providers = append(p.providers, bp)
	}
	for _, pc := range c.Parents {
		parent, err := pc.Open()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("parent library: %w", err)
		}
		p.parents = append(p.parents, parent)
		p.Library.AddParent(parent.Library)
	}
	log.Debugf("opened library with %d source roots and %d class path entries", len(c.SourceRoots), len(c.ClassPath))
	return p, nil
}

// SourceRoots returns the absolute source root directories.
func (p *Project) SourceRoots() []string {
	roots := make([]string, len(p.Config.SourceRoots))
	for i, r := range p.Config.SourceRoots {
		roots[i] = p.Config.path(r)
	}
	return roots
}

// Close releases the jars opened for this project and its parents.
func (p *Project) Close() error {
	var errs []error
	for _, bp := range p.providers {
		errs = append(errs, bp.Close())
	}
	for _, parent := range p.parents {
		errs = append(errs, parent.Close())
	}
	return errors.Join(errs...)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ContainsJava reports whether any .java file lies below dir.
func ContainsJava(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return filepath.SkipAll
		}
		if !d.IsDir() && strings.HasSuffix(path, ".java") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
