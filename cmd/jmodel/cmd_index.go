package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	var byPackage bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load every source file and list the classes found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Library.Preload(cmd.Context()); err != nil {
				return err
			}

			if !byPackage {
				for _, c := range p.Library.Classes() {
					fmt.Printf("%s\t%s\n", c.Kind(), c.FullyQualifiedName())
				}
				return nil
			}
			for _, pkg := range p.Library.Packages() {
				header.Printf("%s\n", pkg.Name())
				for _, c := range pkg.Classes() {
					fmt.Printf("  %s\t%s\n", c.Kind(), c.Name())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&byPackage, "packages", "p", false, "group classes by package")

	return cmd
}
