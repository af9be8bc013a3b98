package interactive

import (
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to max candidates that fuzzy-match name, best first
func Suggest(name string, candidates []string, max int) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)
	var out []string
	for _, match := range matches {
		if match.Str == name {
			continue
		}
		out = append(out, match.Str)
		if len(out) == max {
			break
		}
	}
	return out
}
