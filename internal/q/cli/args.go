package cli

import "fmt"

// NoArgs rejects any positional args.
func NoArgs(args []string) error {
	return countArgs(0, 0)(args)
}

// ExactArgs accepts exactly n positional args.
func ExactArgs(n int) ArgsFunc {
	return countArgs(n, n)
}

// MinimumArgs accepts n or more positional args.
func MinimumArgs(n int) ArgsFunc {
	return countArgs(n, -1)
}

// RangeArgs accepts between min and max positional args, inclusive.
func RangeArgs(min, max int) ArgsFunc {
	return countArgs(min, max)
}

// countArgs accepts [min, max] args; max < 0 means no upper bound.
func countArgs(min, max int) ArgsFunc {
	return func(args []string) error {
		n := len(args)
		if n >= min && (max < 0 || n <= max) {
			return nil
		}
		var want string
		switch {
		case max < 0:
			want = "at least " + pluralArgs(min)
		case min == max && min == 0:
			want = "no args"
		case min == max:
			want = pluralArgs(min)
		default:
			want = fmt.Sprintf("%d to %d args", min, max)
		}
		return usageErrorf("expected %s, got %d", want, n)
	}
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 arg"
	}
	return fmt.Sprintf("%d args", n)
}
