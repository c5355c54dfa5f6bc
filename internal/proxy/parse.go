package proxy

import (
	"strconv"
	"strings"
)

// ParseArgs parses the proxy's own argv (excluding argv[0]) against the
// grammar:
//
//	-p <parent-id> ( -- <resolved-exe> <args…> | <error-diagnostic> )
//
// A hand-rolled parser is used instead of a flag library because
// everything after "--" (or the diagnostic tokens) is opaque passthrough
// argv that a general-purpose flag parser would try to interpret itself.
func ParseArgs(args []string) (ParsedArgs, error) {
	if len(args) < 2 || args[0] != "-p" {
		return ParsedArgs{}, ErrNotParsed
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return ParsedArgs{}, ErrNotParsed
	}

	rest := args[2:]
	if len(rest) == 0 || rest[0] != "--" {
		return ParsedArgs{
			ParentID:     id,
			IsDiagnostic: true,
			Diagnostic:   strings.Join(rest, " "),
		}, nil
	}

	rest = rest[1:]
	if len(rest) == 0 {
		return ParsedArgs{}, ErrNotParsed
	}

	return ParsedArgs{
		ParentID: id,
		Exe:      rest[0],
		Args:     rest,
	}, nil
}
