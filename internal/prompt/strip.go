package prompt

import "strings"

const fence = "```"

// StripCodeFence removes a surrounding markdown code fence and its info string.
// Anything after the last closing fence is dropped. Text that does not start
// with a fence is only trimmed.
func StripCodeFence(text, tag string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, fence) {
		return s
	}

	s = strings.TrimLeft(s, "`")

	i := strings.IndexByte(s, '\n')
	if i < 0 {
		// single line: ```tag code```
		s = strings.TrimSpace(strings.TrimPrefix(s, tag))
		return strings.TrimSpace(strings.TrimRight(s, "`"))
	}

	// the opening line holds only the fence and its info string
	lines := strings.Split(s[i+1:], "\n")
	for j := len(lines) - 1; j >= 0; j-- {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), fence) {
			lines = lines[:j]
			break
		}
	}

	s = strings.TrimSpace(strings.Join(lines, "\n"))
	s = strings.TrimSuffix(s, fence)

	return strings.TrimSpace(s)
}
