package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/futig/code-companion/internal/entity"
)

// MaxMessageLength is the Telegram limit for a single text message
const MaxMessageLength = 4096

const (
	// Welcome messages
	MsgWelcome = `👋 Hi! I am your code companion.

Send me a %s source file (%s) and I can:
• add documentation comments
• explain what the code does
• suggest improvements
• generate %s unit tests`

	MsgHelp = `🤖 Commands:

/start - show the welcome message
/help - show this help
/new - forget the current file

Send a %s file at any time to start over with it. Every result is computed once per file.`

	MsgSendFile      = `📂 Send me a %s file to get started.`
	MsgSessionReady  = "📄 %s loaded (%d lines).\n\nChoose an action:"
	MsgSessionReset  = "📄 %s replaced, previous results cleared (%d lines).\n\nChoose an action:"
	MsgSessionClosed = `🗑 File forgotten. Send a new one whenever you are ready.`
	MsgWorking       = `⏳ Working on it...`
	MsgCachedResult  = `♻️ Cached result`
	MsgConfigWarning = "⚠️ Configuration warnings:\n%s"

	// Error messages
	ErrGeneric            = `❌ Something went wrong. Try again or send /start`
	ErrNoSession          = `❌ No file loaded yet. Send a %s file first.`
	ErrSessionNotFound    = `❌ Session not found. Send the file again.`
	ErrInvalidExtension   = `❌ Only %s files are supported.`
	ErrFileTooLarge       = `❌ The file is too large.`
	ErrEmptyFile          = `❌ The file is empty.`
	ErrInvalidEncoding    = `❌ The file does not look like a text source file.`
	ErrNetworkIssue       = `❌ Connection problem. Try again a bit later.`
	ErrServiceUnavailable = `❌ Service is temporarily unavailable. Try again in a couple of minutes.`
	ErrTimeout            = `❌ The operation took too long. Try again.`
	ErrServiceError       = "❌ The completion service failed:\n%s"
	ErrUnknownCommand     = `❌ Unknown command. Use /help`
)

// RenderWelcome fills the welcome message for the configured language
func RenderWelcome(lang entity.SourceLanguage) string {
	return fmt.Sprintf(MsgWelcome, lang.Name, lang.Extension, lang.TestFramework)
}

// RenderHelp fills the help message for the configured language
func RenderHelp(lang entity.SourceLanguage) string {
	return fmt.Sprintf(MsgHelp, lang.Extension)
}

// RenderWarnings lists configuration warnings, or returns "" when there are none
func RenderWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	return fmt.Sprintf(MsgConfigWarning, "• "+strings.Join(warnings, "\n• "))
}

// RenderSessionReady describes a freshly loaded file
func RenderSessionReady(session *entity.Session, replaced bool) string {
	lines := strings.Count(session.Source, "\n")
	if session.Source != "" && !strings.HasSuffix(session.Source, "\n") {
		lines++
	}
	if replaced {
		return fmt.Sprintf(MsgSessionReset, session.Filename, lines)
	}
	return fmt.Sprintf(MsgSessionReady, session.Filename, lines)
}

// RenderResultHeader is the first line sent before an action result
func RenderResultHeader(action entity.ActionKind, cached bool) string {
	header := "✨ " + action.Title()
	if cached {
		header += " (" + MsgCachedResult + ")"
	}
	return header
}

// SplitMessage splits text into chunks of at most limit runes, preferring line breaks
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)

		if currentLen+lineLen <= limit {
			current.WriteString(line)
			currentLen += lineLen
			continue
		}

		flush()

		// A single line longer than the limit is cut at rune boundaries
		for lineLen > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			lineLen -= limit
		}
		current.WriteString(line)
		currentLen = lineLen
	}
	flush()

	return chunks
}

// ClassifyError maps an error to a user facing message
func ClassifyError(err error, lang entity.SourceLanguage) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrServiceError):
		return fmt.Sprintf(ErrServiceError, err.Error())
	case errors.Is(err, entity.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, entity.ErrInvalidExtension):
		return fmt.Sprintf(ErrInvalidExtension, lang.Extension)
	case errors.Is(err, entity.ErrFileTooLarge):
		return ErrFileTooLarge
	case errors.Is(err, entity.ErrEmptyFile):
		return ErrEmptyFile
	case errors.Is(err, entity.ErrInvalidEncoding):
		return ErrInvalidEncoding
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
