package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/format"
	"github.com/dhamidi/jmodel/java"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string
	var inherited bool

	cmd := &cobra.Command{
		Use:   "dump <class>...",
		Short: "Dump the model of one or more classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(dumpFormat, os.Stdout, format.Options{Inherited: inherited})
			if err != nil {
				return err
			}
			for _, name := range args {
				err := withClass(name, func(c *java.Class) error {
					if err := enc.Encode(c); err != nil {
						return fmt.Errorf("encode %s: %w", dumpFormat, err)
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVarP(&inherited, "inherited", "i", false, "include inherited methods and properties")

	return cmd
}
