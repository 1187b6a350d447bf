package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newMethodsCmd() *cobra.Command {
	var inherited, varArgs bool
	var name string
	var argTypes []string

	cmd := &cobra.Command{
		Use:   "methods <class>",
		Short: "List the methods of a class",
		Long: `List the methods of a class, optionally including the ones it inherits.

With --name the methods are filtered by signature: --arg gives the
parameter types in order and --varargs lets trailing arguments match a
variable arity parameter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClass(args[0], func(c *java.Class) error {
				if name != "" {
					types := make([]java.Type, len(argTypes))
					for i, a := range argTypes {
						types[i] = java.ParseType(a)
					}
					for _, m := range c.MethodsBySignature(name, types, inherited, varArgs) {
						fmt.Printf("%s\t%s\n", m.DeclaringClass().CanonicalName(), m.DeclarationSignature(true))
					}
					return nil
				}

				header.Printf("%s\n", c.CanonicalName())
				for _, v := range c.MergedMethods(inherited) {
					line := v.DeclarationSignature(true)
					if v.IsInherited() {
						line += "  // from " + v.DeclaringClass().CanonicalName()
					}
					fmt.Printf("  %s\n", line)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&inherited, "inherited", "i", false, "include inherited methods")
	cmd.Flags().StringVarP(&name, "name", "n", "", "only methods with this name and the --arg types")
	cmd.Flags().StringArrayVarP(&argTypes, "arg", "a", nil, "parameter type, repeated in order")
	cmd.Flags().BoolVar(&varArgs, "varargs", false, "match variable arity methods")

	return cmd
}
