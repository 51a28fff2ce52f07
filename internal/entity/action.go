package entity

import "fmt"

// ActionKind identifies one of the prompt templates a user can run against a session
type ActionKind string

const (
	ActionAddComments         ActionKind = "add-comments"
	ActionExplain             ActionKind = "explain"
	ActionSuggestImprovements ActionKind = "suggest-improvements"
	ActionGenerateTests       ActionKind = "generate-tests"
)

// AllActions lists every action kind in display order
var AllActions = []ActionKind{
	ActionAddComments,
	ActionExplain,
	ActionSuggestImprovements,
	ActionGenerateTests,
}

// OutputFormat describes how an action result is presented
type OutputFormat string

const (
	OutputCode     OutputFormat = "code"
	OutputMarkdown OutputFormat = "markdown"
)

func (a ActionKind) IsValid() bool {
	switch a {
	case ActionAddComments, ActionExplain, ActionSuggestImprovements, ActionGenerateTests:
		return true
	default:
		return false
	}
}

// Format returns the presentation format of the action result.
// Code results are fence-stripped before caching.
func (a ActionKind) Format() OutputFormat {
	switch a {
	case ActionAddComments, ActionGenerateTests:
		return OutputCode
	default:
		return OutputMarkdown
	}
}

// Title is the human readable label used in UIs and exported documents
func (a ActionKind) Title() string {
	switch a {
	case ActionAddComments:
		return "Source code with documentation comments"
	case ActionExplain:
		return "Code explanation"
	case ActionSuggestImprovements:
		return "Suggested code improvements"
	case ActionGenerateTests:
		return "Unit tests source code"
	default:
		return string(a)
	}
}

// ParseActionKind validates a wire name
func ParseActionKind(s string) (ActionKind, error) {
	a := ActionKind(s)
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}
