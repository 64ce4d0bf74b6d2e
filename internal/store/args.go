package store

import "strconv"

// PositionalArgs orders params keyed "1", "2", ... into query arguments.
// Numbering stops at the first missing key.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; ; i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			return args
		}
		args = append(args, val)
	}
}
