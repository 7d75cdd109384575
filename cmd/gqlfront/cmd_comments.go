package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/graphql/parser"
)

func newCommentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comments [file]",
		Short: "List the # comments of a GraphQL file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "-"
			if len(args) == 1 {
				filename = args[0]
			}
			source, err := readSource(filename)
			if err != nil {
				return err
			}

			comments, err := parser.New().ParseComments(bytes.NewReader(source))
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			for _, c := range comments {
				if c.Location != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s\n", sourceName(filename), c.Location.Line, c.Location.Column, c.Content)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", sourceName(filename), c.Content)
				}
			}
			return nil
		},
	}
}
