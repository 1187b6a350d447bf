package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java/codebase"
	"github.com/dhamidi/jmodel/project"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, func(rootDir string) (*project.Project, error) {
				if flags.config == "" {
					flags.dir = rootDir
				}
				return openProject()
			})
			return server.RunStdio()
		},
	}
}
