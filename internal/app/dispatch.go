package app

import "fmt"

// CompareMode selects how the dispatch argument is matched.
type CompareMode string

const (
	// CompareArgument matches the first invocation argument against "local".
	CompareArgument CompareMode = "argument"

	// CompareLiteral reproduces the historical script, which tested the
	// unexpanded token "1" rather than the argument. It never builds.
	CompareLiteral CompareMode = "literal"
)

// TargetLocal is the argument that requests a local build.
const TargetLocal = "local"

const literalToken = "1"

// ParseCompareMode validates a configured compare mode.
func ParseCompareMode(s string) (CompareMode, error) {
	switch m := CompareMode(s); m {
	case CompareArgument, CompareLiteral:
		return m, nil
	case "":
		return CompareArgument, nil
	}
	return "", fmt.Errorf("unknown compare mode %q (want %q or %q)", s, CompareArgument, CompareLiteral)
}

// ShouldBuild reports whether args select a local build under mode.
func ShouldBuild(mode CompareMode, args []string) bool {
	if mode == CompareLiteral {
		return literalToken == TargetLocal
	}
	return len(args) > 0 && args[0] == TargetLocal
}
