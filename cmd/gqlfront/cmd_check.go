package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/graphql/parser"
)

func newCheckCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check that GraphQL files parse as one combined document",
		Long: `Parse all files, in the given order, as a single document.

Each file is a fragment of the combined source, so a syntax error names
the file and the line within it. The exit status is non-zero on error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragments := make([]parser.Fragment, 0, len(args))
			for _, filename := range args {
				source, err := readSource(filename)
				if err != nil {
					return err
				}
				fragments = append(fragments, parser.Fragment{Name: sourceName(filename), Text: string(source)})
			}

			doc, err := parser.New().ParseDocument(parser.NewMultiSourceReader(fragments...))
			if err != nil {
				var syntaxErr *parser.InvalidSyntaxError
				if errors.As(err, &syntaxErr) && syntaxErr.SourcePreview != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), syntaxErr.SourcePreview)
				}
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d files, %d definitions\n", len(fragments), len(doc.Definitions))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing on success")

	return cmd
}
