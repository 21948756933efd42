package shell

import (
	"sort"
	"strings"
)

// CompletionAction is what the caller should do with a completion result.
type CompletionAction int

const (
	// CompleteNone leaves the buffer and transcript untouched.
	CompleteNone CompletionAction = iota
	// CompleteFill replaces the input buffer with Fill.
	CompleteFill
	// CompleteList appends a record listing Matches.
	CompleteList
)

func (a CompletionAction) String() string {
	switch a {
	case CompleteFill:
		return "fill"
	case CompleteList:
		return "list"
	default:
		return "none"
	}
}

// Completion is the result of completing a partial command name.
type Completion struct {
	Action  CompletionAction
	Fill    string
	Matches []string
}

// Complete matches partial against names by case-insensitive prefix.
func Complete(partial string, names []string) Completion {
	prefix := strings.ToLower(strings.TrimSpace(partial))
	if prefix == "" {
		return Completion{}
	}

	seen := make(map[string]bool)
	var matches []string
	for _, name := range names {
		if seen[name] || !strings.HasPrefix(name, prefix) {
			continue
		}
		seen[name] = true
		matches = append(matches, name)
	}

	switch len(matches) {
	case 0:
		return Completion{}
	case 1:
		return Completion{Action: CompleteFill, Fill: matches[0], Matches: matches}
	}
	sort.Strings(matches)
	return Completion{Action: CompleteList, Matches: matches}
}
