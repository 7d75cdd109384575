package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/graphql/ast"
	"github.com/dhamidi/gqlfront/graphql/parser"
	"github.com/dhamidi/gqlfront/reactive"
)

// streamResult is the outcome of parsing one file of a stream.
type streamResult struct {
	filename string
	doc      *ast.Document
	err      error
	elapsed  time.Duration
}

func newStreamCmd(a *app) *cobra.Command {
	var workers int
	var unordered bool

	cmd := &cobra.Command{
		Use:   "stream <file>...",
		Short: "Parse files concurrently and report each result as it is ready",
		Long: `Parse every file on a pool of workers and print one line per file.

Results are printed in argument order unless --unordered is given, in
which case they are printed as soon as each parse finishes. Files that
fail to read or parse are reported but do not stop the stream.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec := reactive.NewPoolExecutor(workers)
			defer exec.Wait()

			p := parser.New()
			parseFile := func(filename string) *reactive.Future[streamResult] {
				return reactive.Async(exec, func() (streamResult, error) {
					start := time.Now()
					source, err := os.ReadFile(filename)
					if err != nil {
						return streamResult{filename: filename, err: fmt.Errorf("read file: %w", err), elapsed: time.Since(start)}, nil
					}
					doc, err := p.ParseDocumentString(string(source), filename)
					return streamResult{filename: filename, doc: doc, err: err, elapsed: time.Since(start)}, nil
				})
			}

			var results reactive.Publisher[streamResult]
			if unordered {
				results = reactive.NewMappingPublisher(reactive.FromSlice(args...), parseFile)
			} else {
				results = reactive.NewOrderedMappingPublisher(reactive.FromSlice(args...), parseFile)
			}

			failed := 0
			err := reactive.ForEachWindow(cmd.Context(), results, int64(workers), func(r streamResult) error {
				if r.err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", r.filename, r.err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d definitions in %s\n", r.filename, len(r.doc.Definitions), r.elapsed.Round(time.Microsecond))
				return nil
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "number of files parsed concurrently")
	cmd.Flags().BoolVar(&unordered, "unordered", false, "print results in completion order")

	return cmd
}
