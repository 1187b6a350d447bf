package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newTagsCmd() *cobra.Command {
	var inherited bool

	cmd := &cobra.Command{
		Use:   "tags <class> <tag>",
		Short: "List the doc comment tags of a class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClass(args[0], func(c *java.Class) error {
				for _, tag := range c.TagsByName(args[1], inherited) {
					owner := ""
					if cls, ok := tag.Context.(*java.Class); ok {
						owner = cls.CanonicalName()
					}
					fmt.Printf("%s\t%d\t%s\n", owner, tag.Line, tag.Value)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&inherited, "inherited", "i", false, "include tags of supertypes")

	return cmd
}
