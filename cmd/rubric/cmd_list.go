package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rubric/pkg/problem"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered problems",
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range problem.Names() {
		p, err := problem.Lookup(name)
		if err != nil {
			return err
		}
		kind := "function"
		switch {
		case p.IsScript():
			kind = "script"
		default:
			if _, ok := p.Golden().(problem.Constructible); ok {
				kind = "class"
			}
		}
		fmt.Fprintf(out, "%-20s %-10s %d cases\n", name, kind, len(p.Params()))
	}
	return nil
}
