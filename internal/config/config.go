// Package config carries the message templates rendered into student-facing
// reports. Defaults are embedded; a course can overlay its own YAML file on
// top of them. Templates use named {field} placeholders (input, output,
// expected, diff, diff_explanation, type, message, traceback, name).
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// TestMessages holds per-test templates.
type TestMessages struct {
	NameFmt            string `yaml:"name_fmt"`
	NameSep            string `yaml:"name_sep"`
	FailureMsg         string `yaml:"failure_msg"`
	ErrorMsg           string `yaml:"error_msg"`
	TimeoutMsg         string `yaml:"timeout_msg"`
	InputExhaustedMsg  string `yaml:"input_exhausted_msg"`
	StdoutDifferMsg    string `yaml:"stdout_differ_msg"`
	DiffExplanationMsg string `yaml:"diff_explanation_msg"`
}

// SubmissionMessages holds whole-report templates.
type SubmissionMessages struct {
	FailedTestsMsg       string `yaml:"failed_tests_msg"`
	FailedHiddenTestsMsg string `yaml:"failed_hidden_tests_msg"`
	NoFailedTestsMsg     string `yaml:"no_failed_tests_msg"`
}

// LoaderMessages holds submission-loading failure templates.
type LoaderMessages struct {
	ImportErrorMsg     string `yaml:"import_error_msg"`
	NoMatchMsg         string `yaml:"no_match_msg"`
	TooManyMatchesMsg  string `yaml:"too_many_matches_msg"`
	NoScriptMsg        string `yaml:"no_script_msg"`
	MultipleScriptsMsg string `yaml:"multiple_scripts_msg"`
}

// Messages is the full template set.
type Messages struct {
	Test       TestMessages       `yaml:"test"`
	Submission SubmissionMessages `yaml:"submission"`
	Loader     LoaderMessages     `yaml:"loader"`
}

// Defaults returns the embedded template set.
func Defaults() *Messages {
	var m Messages
	if err := yaml.Unmarshal(defaultsYAML, &m); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return &m
}

// Load overlays the YAML file at path on the embedded defaults. Fields the
// file omits keep their default values.
func Load(path string) (*Messages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	m := Defaults()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return m, nil
}

// Format substitutes {field} placeholders from fields. Placeholders with no
// entry are left verbatim so template typos stay visible.
func Format(tmpl string, fields map[string]string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		closing += open

		b.WriteString(tmpl[:open])
		key := tmpl[open+1 : closing]
		if val, ok := fields[key]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(tmpl[open : closing+1])
		}
		tmpl = tmpl[closing+1:]
	}
}
