package problem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatValue renders a test argument or result for display. Strings are
// quoted so "1" and 1 stay distinguishable in reports.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// FormatArgs renders a positional argument list, e.g. `1, "a"`.
func FormatArgs(args []any, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = FormatValue(a)
	}
	return strings.Join(parts, sep)
}

// FormatKwargs renders a keyword argument mapping in stable key order.
func FormatKwargs(kwargs map[string]any, sep string) string {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + FormatValue(kwargs[k])
	}
	return strings.Join(parts, sep)
}
