package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/ast"
	"github.com/dhamidi/gqlfront/graphql/parser"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var kind string

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse GraphQL files and dump the syntax tree",
		Long: `Parse each file as a GraphQL document and print its syntax tree.

With no file, reads from stdin. Use --kind value or --kind type to parse
a single input value or type reference instead of a document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			p := parser.New()
			for _, filename := range args {
				source, err := readSource(filename)
				if err != nil {
					return err
				}

				var node ast.Node
				switch kind {
				case "document":
					node, err = p.ParseDocumentString(string(source), sourceName(filename))
				case "value":
					node, err = p.ParseValue(string(source))
				case "type":
					node, err = p.ParseType(string(source))
				default:
					return fmt.Errorf("unknown kind: %s (expected document, value or type)", kind)
				}
				if err != nil {
					return fmt.Errorf("parse %s: %w", filename, err)
				}

				var encoder format.Encoder
				switch outputFormat {
				case "json":
					encoder = format.NewASTJSONEncoder(cmd.OutOrStdout())
				case "graphql":
					encoder = format.NewPrinter(cmd.OutOrStdout())
				case "lines":
					encoder = format.NewLineEncoder(cmd.OutOrStdout())
				default:
					return fmt.Errorf("unknown format: %s", outputFormat)
				}
				if err := encoder.Encode(node); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, graphql, lines)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "document", "what to parse (document, value, type)")

	return cmd
}

// readSource reads a file, or stdin for "-".
func readSource(filename string) ([]byte, error) {
	if filename == "-" {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return source, nil
}

func sourceName(filename string) string {
	if filename == "-" {
		return "<stdin>"
	}
	return filename
}
