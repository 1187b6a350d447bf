package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newBeansCmd() *cobra.Command {
	var inherited bool

	cmd := &cobra.Command{
		Use:   "beans <class>",
		Short: "List the bean properties of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClass(args[0], func(c *java.Class) error {
				header.Printf("%s\n", c.CanonicalName())
				for _, p := range c.BeanProperties(inherited) {
					var access string
					if p.IsReadable() {
						access += "r"
					}
					if p.IsWritable() {
						access += "w"
					}
					fmt.Printf("  %-2s %s %s\n", access, p.Type.GenericValue(), p.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&inherited, "inherited", "i", true, "include inherited accessors")

	return cmd
}
