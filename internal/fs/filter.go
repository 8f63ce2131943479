package fs

import (
	"path"

	"github.com/restic/xattrctl/internal/errors"
)

// SelectFilter returns a function accepting the attribute names that match
// at least one of patterns (path.Match syntax, e.g. "user.*"). Without
// patterns every name is accepted.
func SelectFilter(patterns []string) (func(name string) bool, error) {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, errors.Fatalf("invalid attribute pattern %q: %v", p, err)
		}
	}

	if len(patterns) == 0 {
		return func(string) bool { return true }, nil
	}

	return func(name string) bool {
		for _, p := range patterns {
			if ok, _ := path.Match(p, name); ok {
				return true
			}
		}
		return false
	}, nil
}
