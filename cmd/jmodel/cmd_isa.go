package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newIsaCmd() *cobra.Command {
	var derived bool

	cmd := &cobra.Command{
		Use:   "isa <class> [<supertype>]",
		Short: "Check whether a class is a subtype of another",
		Long: `Check whether a class is a subtype of another. The exit status is 1 when
it is not.

With --derived the subtypes of the class are listed instead. All source
roots are loaded first so that every subtype is known.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if derived {
				return listDerived(cmd.Context(), args[0])
			}
			if len(args) != 2 {
				return fmt.Errorf("isa needs a class and a supertype")
			}
			return withClass(args[0], func(c *java.Class) error {
				other := c.Library().Resolve(args[1])
				ok := c.IsSubtypeOf(other)
				fmt.Println(ok)
				if !ok {
					return errFalse
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&derived, "derived", "d", false, "list the known subtypes of the class")

	return cmd
}

func listDerived(ctx context.Context, name string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Library.Preload(ctx); err != nil {
		return err
	}
	c := p.Library.Resolve(name)
	for _, d := range c.DerivedClasses() {
		fmt.Println(d.CanonicalName())
	}
	return nil
}
