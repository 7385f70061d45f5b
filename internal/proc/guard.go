package proc

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Guard screens command vectors before they are spawned. Deny patterns win
// over allow patterns; an empty allow list permits everything not denied.
// Patterns are doublestar globs matched against the base command name
// (path prefix stripped) and against the full command line.
type Guard struct {
	Allowed    []string
	Disallowed []string
}

func (g *Guard) Check(command []string) error {
	if g == nil {
		return nil
	}
	base := baseCommand(command)
	full := strings.Join(command, " ")

	for _, pat := range g.Disallowed {
		if matchesPattern(pat, base, full) {
			return fmt.Errorf("%w: command %q is blocked by configuration", ErrInvalidInput, base)
		}
	}

	if len(g.Allowed) == 0 {
		return nil
	}
	for _, pat := range g.Allowed {
		if matchesPattern(pat, base, full) {
			return nil
		}
	}
	return fmt.Errorf("%w: command %q is not in the allowed commands list", ErrInvalidInput, base)
}

func matchesPattern(pat, base, full string) bool {
	if ok, err := doublestar.Match(pat, base); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(pat, full)
	return err == nil && ok
}

// baseCommand returns the first real token of the vector, skipping leading
// env-var assignments (FOO=bar cmd) and stripping any path prefix.
func baseCommand(command []string) string {
	for _, tok := range command {
		if strings.Contains(tok, "=") {
			continue
		}
		if idx := strings.LastIndex(tok, "/"); idx >= 0 {
			tok = tok[idx+1:]
		}
		return tok
	}
	if len(command) > 0 {
		return command[0]
	}
	return ""
}
