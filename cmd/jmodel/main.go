package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jmodel/java"
	"github.com/dhamidi/jmodel/project"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

type globalFlags struct {
	config      string
	dir         string
	sourceRoots []string
	classPath   []string
	verbose     int
	logFile     string
}

var flags globalFlags

func main() {
	rootCmd := &cobra.Command{
		Use:           "jmodel",
		Short:         "Query the class model of a Java code base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if flags.logFile != "" {
				path = &flags.logFile
			}
			commonlog.Configure(flags.verbose, path)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "configuration file (default: "+project.FileName+" in --dir)")
	pf.StringVarP(&flags.dir, "dir", "C", ".", "project directory")
	pf.StringSliceVarP(&flags.sourceRoots, "source-root", "s", nil, "additional source root")
	pf.StringSliceVar(&flags.classPath, "classpath", nil, "additional class directory or jar")
	pf.CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity")
	pf.StringVar(&flags.logFile, "log", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newBeansCmd())
	rootCmd.AddCommand(newIsaCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newLSPCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFalse) {
			color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// errFalse makes a command exit with status 1 without printing anything.
var errFalse = errors.New("false")

// loadConfig reads --config or detects the layout of --dir and adds the
// roots given on the command line.
func loadConfig() (*project.Config, error) {
	var cfg *project.Config
	var err error
	if flags.config != "" {
		cfg, err = project.Load(flags.config)
	} else {
		cfg, err = project.Detect(flags.dir)
	}
	if err != nil {
		return nil, err
	}
	cfg.SourceRoots = append(cfg.SourceRoots, flags.sourceRoots...)
	cfg.ClassPath = append(cfg.ClassPath, flags.classPath...)
	return cfg, nil
}

func openProject() (*project.Project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Open()
}

// withClass opens the project, resolves name and hands the class to fn.
// Unresolvable names are reported as errors.
func withClass(name string, fn func(*java.Class) error) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	c, err := p.Library.Lookup(name)
	if err != nil {
		return err
	}
	if c.IsPlaceholder() {
		return fmt.Errorf("class %s not found", name)
	}
	return fn(c)
}

var header = color.New(color.Bold, color.FgCyan)
