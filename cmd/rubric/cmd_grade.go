package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rubric/internal/config"
	"rubric/internal/loader"
	"rubric/pkg/problem"
	"rubric/pkg/run"
)

var gradeFlags struct {
	jsonOut bool
}

var gradeCmd = &cobra.Command{
	Use:   "grade <problem> <submission>",
	Short: "Grade a submitted source file or directory against a problem",
	Args:  cobra.ExactArgs(2),
	RunE:  runGrade,
}

func init() {
	addRunFlags(gradeCmd)
	gradeCmd.Flags().BoolVar(&gradeFlags.jsonOut, "json", false, "Emit the report as JSON")
}

func runGrade(cmd *cobra.Command, args []string) error {
	p, err := problem.Lookup(args[0])
	if err != nil {
		return err
	}
	opts, err := runOptions()
	if err != nil {
		return err
	}

	submission, err := loader.Load(args[1], p)
	if err != nil {
		// Loader failures are the student's to fix; render the friendly
		// template before surfacing the error.
		fmt.Fprintln(cmd.OutOrStdout(), loaderMessage(err, p, opts.Messages))
		return err
	}
	if syms := p.ContextSymbols(); len(syms) > 0 {
		if _, err := loader.LoadContext(args[1], syms); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), loaderMessage(err, p, opts.Messages))
			return err
		}
	}

	report, err := run.Grade(cmd.Context(), p, submission, opts)
	if err != nil {
		return fmt.Errorf("grade %s: %w", p.Name(), err)
	}

	out := cmd.OutOrStdout()
	if gradeFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, r := range report.Results {
		mark := "PASS"
		if !r.Correct {
			mark = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %-30s %g/%g\n", mark, r.Name, r.Score, r.MaxScore)
		if r.Message != "" {
			fmt.Fprintf(out, "%s\n", r.Message)
		}
	}
	fmt.Fprintf(out, "\nTotal: %g/%g\n\n%s\n", report.Score, opts.TotalScore, report.Output)
	return nil
}

// loaderMessage maps a submission-loading failure onto its student-facing
// template.
func loaderMessage(err error, p *problem.Problem, msgs *config.Messages) string {
	if msgs == nil {
		msgs = config.Defaults()
	}
	lm := msgs.Loader
	switch {
	case errors.Is(err, loader.ErrSubmissionSyntax):
		return config.Format(lm.ImportErrorMsg, map[string]string{"message": err.Error()})
	case errors.Is(err, loader.ErrNoMatch):
		return config.Format(lm.NoMatchMsg, map[string]string{"name": p.Name()})
	case errors.Is(err, loader.ErrTooManyMatches):
		return config.Format(lm.TooManyMatchesMsg, map[string]string{"name": p.Name()})
	case errors.Is(err, loader.ErrNoSource):
		return lm.NoScriptMsg
	case errors.Is(err, loader.ErrMultipleSources):
		return lm.MultipleScriptsMsg
	default:
		return err.Error()
	}
}
