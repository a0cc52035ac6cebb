package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rubric/pkg/problem"
	"rubric/pkg/run"
)

var checkCmd = &cobra.Command{
	Use:   "check <problem>",
	Short: "Run a problem's golden solution against its declared expectations",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	addRunFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := problem.Lookup(args[0])
	if err != nil {
		return err
	}
	opts, err := runOptions()
	if err != nil {
		return err
	}

	if err := run.Check(cmd.Context(), p, opts); err != nil {
		return fmt.Errorf("check %s: %w", p.Name(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: golden solution passes all %d cases\n", p.Name(), len(p.Params()))
	return nil
}
