package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/combi/expr"
	"github.com/spf13/cobra"
)

func newExprCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expr",
		Short: "Arithmetic expression tools",
	}

	cmd.AddCommand(newExprEvalCmd())

	return cmd
}

func newExprEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate an integer arithmetic expression",
		Long: `Evaluate an integer arithmetic expression built from +, -, *, /,
parentheses and integers.

The arguments are joined with spaces. If none are given, the expression
is read from stdin. Operators of equal precedence group to the right, so
8/4/2 evaluates to 4.`,
		Example: `  combi expr eval "5 + 3 * 2"
  echo "(3 * (-1 - -3))/2" | combi expr eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) > 0 {
				input = strings.Join(args, " ")
			} else {
				in, _, err := readInput(cmd.InOrStdin(), nil)
				if err != nil {
					return err
				}
				input = in
			}

			result, err := expr.Eval(input)
			if err != nil {
				return fmt.Errorf("eval %q: %w", strings.TrimSpace(input), err)
			}
			log.Debugf("eval %q = %d", input, result)

			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
