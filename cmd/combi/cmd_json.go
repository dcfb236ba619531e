package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dhamidi/combi/format"
	"github.com/dhamidi/combi/json"
	"github.com/dhamidi/combi/parse"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "JSON parsing tools",
	}

	cmd.AddCommand(newJSONParseCmd())
	cmd.AddCommand(newJSONCheckCmd())
	cmd.AddCommand(newJSONFmtCmd())

	return cmd
}

func newJSONParseCmd() *cobra.Command {
	var outputFormat string
	var exact bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a JSON document and print the value",
		Long: `Parse a JSON document and print the parsed value.

If no file is provided, reads the document from stdin.

Formats:
  text  compact debug form (objects as { "k": v } groups, strings unescaped)
  json  canonical JSON with braces and escapes
  line  one path/kind/value line per leaf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, name, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			start := time.Now()
			v, err := parseJSON(input, exact)
			if err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			log.Debugf("parsed %s (%d bytes) in %s", name, len(input), time.Since(start))

			if err := encoder.Encode(v); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (text, json, line)")
	cmd.Flags().BoolVar(&exact, "exact", true, "require the whole input to be consumed")

	return cmd
}

// parseJSON parses input. Without exact, trailing input is logged and ignored.
func parseJSON(input string, exact bool) (json.Value, error) {
	v, err := json.ParseExact(input)
	var trailing *parse.TrailingInputError
	if !exact && errors.As(err, &trailing) {
		log.Infof("ignoring trailing input at offset %d", trailing.Offset)
		return v, nil
	}
	return v, err
}

func newJSONCheckCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:           "check <file>...",
		Short:         "Check that files hold exactly one JSON value",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1")
			}
			results := make([]error, len(args))

			var g errgroup.Group
			g.SetLimit(jobs)
			for i, filename := range args {
				g.Go(func() error {
					data, err := os.ReadFile(filename)
					if err != nil {
						results[i] = err
						return nil
					}
					_, results[i] = json.ParseExact(string(data))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var failed int
			out := cmd.OutOrStdout()
			for i, filename := range args {
				if results[i] != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", filename, results[i])
				} else {
					fmt.Fprintf(out, "%s: ok\n", filename)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 8, "number of files to parse concurrently")

	return cmd
}

func newJSONFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var indent string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a JSON document in canonical form",
		Long: `Rewrite a JSON document in canonical form to stdout.

If no file is provided, reads the document from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}

			input, name, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			v, err := json.ParseExact(input)
			if err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}

			var buf bytes.Buffer
			if err := format.NewCanonicalEncoder(&buf, indent).Encode(v); err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(name, buf.Bytes(), 0644)
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().StringVar(&indent, "indent", "  ", "indentation per nesting level (empty for compact output)")

	return cmd
}
