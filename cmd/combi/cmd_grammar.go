package main

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/dhamidi/combi/grammars"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarShowCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <name|file>",
		Short: "Parse and verify an EBNF grammar",
		Long: fmt.Sprintf(`Parse and verify an EBNF grammar.

The argument is either the name of a built-in grammar (%s) or the path
of an .ebnf file. Built-in grammars are verified from their own start
production unless --start is given.`, strings.Join(grammars.Names(), ", ")),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out := cmd.OutOrStdout()

			var grammar ebnf.Grammar
			var err error
			if slices.Contains(grammars.Names(), name) {
				grammar, err = grammars.Load(name)
				if startProduction == "" {
					startProduction, _ = grammars.Start(name)
				}
			} else {
				grammar, err = grammars.LoadFile(name)
			}
			if err != nil {
				printErrors(out, err)
				return err
			}

			if startProduction == "" {
				log.Infof("%s: syntax ok, %d productions", name, len(grammar))
				return nil
			}
			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(out, err)
				return err
			}
			log.Infof("%s: verified from %s", name, startProduction)

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax of files)")

	return cmd
}

func newGrammarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show <name>",
		Short:     "Print a built-in grammar",
		Args:      cobra.ExactArgs(1),
		ValidArgs: grammars.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := grammars.Source(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
