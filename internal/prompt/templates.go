// Package prompt builds the system and user messages for each action.
package prompt

import (
	"fmt"

	"github.com/futig/code-companion/internal/entity"
)

// *** Documentation comments ***

var commentsSystemPromptTemplate = `
You are an expert %[1]s developer and technical writer.

Your task is to add documentation comments to the %[1]s source code you are given.

RULES:
- Use the idiomatic documentation comment syntax of %[1]s (XML documentation comments for C#)
- Document every public type, method, property, constructor and parameter
- Do not change, reorder or remove any existing code
- Keep existing comments unless they are wrong
- Return only the complete source code, without explanations before or after it
`

var commentsUserPromptTemplate = "Add documentation comments to the following %s code:\n\n```%s\n%s\n```"

// *** Explanation ***

var explainSystemPromptTemplate = `
You are an expert %[1]s developer who explains code to colleagues.

Your task is to explain what the given %[1]s source code does.

FORMATTING REQUIREMENTS:
- Start with a short summary of the purpose of the code
- Walk through the main types and methods and describe their responsibilities
- Mention notable patterns, dependencies and side effects
- Use markdown formatting with headings and bullet points
`

var explainUserPromptTemplate = "Explain the following %s code:\n\n```%s\n%s\n```"

// *** Improvements ***

var improvementsSystemPromptTemplate = `
You are a senior %[1]s developer doing a code review.

Your task is to suggest improvements for the given %[1]s source code.

ANALYSIS FRAMEWORK:
1. Correctness issues and potential bugs
2. Performance problems
3. Readability, naming and structure
4. Use of modern %[1]s language features and best practices
5. Error handling and security concerns

FORMATTING REQUIREMENTS:
- Use markdown formatting
- For each suggestion explain the problem and show the improved code in a fenced code block
- Skip categories without findings
`

var improvementsUserPromptTemplate = "Suggest improvements for the following %s code:\n\n```%s\n%s\n```"

// *** Unit tests ***

var testsSystemPromptTemplate = `
You are an expert %[1]s developer specializing in automated testing.

Your task is to write unit tests for the given %[1]s source code using %[2]s.

RULES:
- Cover public behaviour, edge cases and error paths
- Use descriptive test names following the Arrange-Act-Assert structure
- Mock external dependencies where needed
- Return only the complete test source code, without explanations before or after it
`

var testsUserPromptTemplate = "Generate %s unit tests for the following %s code:\n\n```%s\n%s\n```"

// Build returns the prompt pair for the action over the given source text
func Build(action entity.ActionKind, lang entity.SourceLanguage, source string) (entity.Prompt, error) {
	switch action {
	case entity.ActionAddComments:
		return entity.Prompt{
			System: fmt.Sprintf(commentsSystemPromptTemplate, lang.Name),
			User:   fmt.Sprintf(commentsUserPromptTemplate, lang.Name, lang.FenceTag, source),
		}, nil
	case entity.ActionExplain:
		return entity.Prompt{
			System: fmt.Sprintf(explainSystemPromptTemplate, lang.Name),
			User:   fmt.Sprintf(explainUserPromptTemplate, lang.Name, lang.FenceTag, source),
		}, nil
	case entity.ActionSuggestImprovements:
		return entity.Prompt{
			System: fmt.Sprintf(improvementsSystemPromptTemplate, lang.Name),
			User:   fmt.Sprintf(improvementsUserPromptTemplate, lang.Name, lang.FenceTag, source),
		}, nil
	case entity.ActionGenerateTests:
		return entity.Prompt{
			System: fmt.Sprintf(testsSystemPromptTemplate, lang.Name, lang.TestFramework),
			User:   fmt.Sprintf(testsUserPromptTemplate, lang.TestFramework, lang.Name, lang.FenceTag, source),
		}, nil
	default:
		return entity.Prompt{}, fmt.Errorf("%w: %q", entity.ErrInvalidAction, action)
	}
}

// PostProcess applies the display transform of the action to a raw completion
func PostProcess(action entity.ActionKind, lang entity.SourceLanguage, raw string) string {
	if action.Format() == entity.OutputCode {
		return StripCodeFence(raw, lang.FenceTag)
	}
	return raw
}
