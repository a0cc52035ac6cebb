package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rubric/internal/pack"
	"rubric/pkg/problem"
)

var packFlags struct {
	out     string
	sources []string
}

var packCmd = &cobra.Command{
	Use:   "pack <problem>",
	Short: "Check a problem and bundle it into a distributable archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	addRunFlags(packCmd)
	f := packCmd.Flags()
	f.StringVarP(&packFlags.out, "out", "o", "", "Archive path (default <problem>.zip)")
	f.StringSliceVar(&packFlags.sources, "source", nil, "Author-side source file to include (repeatable)")
}

func runPack(cmd *cobra.Command, args []string) error {
	p, err := problem.Lookup(args[0])
	if err != nil {
		return err
	}
	opts, err := runOptions()
	if err != nil {
		return err
	}

	outPath := packFlags.out
	if outPath == "" {
		outPath = p.Name() + ".zip"
	}

	err = pack.Pack(cmd.Context(), p, outPath, pack.Options{
		TotalScore: runFlags.points,
		Sources:    packFlags.sources,
		Run:        opts,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
