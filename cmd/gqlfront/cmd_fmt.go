package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/parser"
	"github.com/dhamidi/gqlfront/workspace"
)

func newFmtCmd(a *app) *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a GraphQL file, preserving comments",
		Long: `Pretty-print a GraphQL file to stdout.

If a file is provided, it must have a .graphql, .graphqls or .gql extension.
If no file is provided, reads GraphQL source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "-"
			if len(args) == 1 {
				filename = args[0]
				if !workspace.HasExtension(filename) {
					return fmt.Errorf("expected a GraphQL file, got %s", filename)
				}
			} else if fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}

			source, err := readSource(filename)
			if err != nil {
				return err
			}
			doc, err := parser.New(parser.WithLineComments(true)).ParseDocumentString(string(source), sourceName(filename))
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			output := format.Print(doc)

			if fmtOverwrite {
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
