package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/futig/code-companion/internal/entity"
	"github.com/stretchr/testify/assert"
)

var csharp = entity.SourceLanguage{Name: "C#", FenceTag: "csharp", Extension: ".cs", TestFramework: "xUnit"}

func TestSplitMessage(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, SplitMessage("hello", 10))
	})

	t.Run("splits on line breaks", func(t *testing.T) {
		chunks := SplitMessage("aaaa\nbbbb\ncccc", 10)
		assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, chunks)
	})

	t.Run("long line is cut by runes", func(t *testing.T) {
		text := strings.Repeat("ж", 25)
		chunks := SplitMessage(text, 10)
		assert.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
		}
		assert.Equal(t, text, strings.Join(chunks, ""))
	})

	t.Run("no content lost", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 500; i++ {
			fmt.Fprintf(&b, "line %d of the explanation\n", i)
		}
		text := b.String()
		chunks := SplitMessage(text, MaxMessageLength)
		assert.Greater(t, len(chunks), 1)
		assert.Equal(t, text, strings.Join(chunks, ""))
	})
}

func TestClassifyError(t *testing.T) {
	serviceErr := fmt.Errorf("%w: 401 Unauthorized", entity.ErrServiceError)
	assert.Contains(t, ClassifyError(serviceErr, csharp), "401 Unauthorized")

	assert.Equal(t, "❌ Only .cs files are supported.", ClassifyError(fmt.Errorf("x: %w", entity.ErrInvalidExtension), csharp))
	assert.Equal(t, ErrSessionNotFound, ClassifyError(entity.ErrSessionNotFound, csharp))
	assert.Equal(t, ErrGeneric, ClassifyError(errors.New("boom"), csharp))
}

func TestRenderSessionReady(t *testing.T) {
	s := &entity.Session{Filename: "A.cs", Source: "class A\n{\n}"}
	assert.Contains(t, RenderSessionReady(s, false), "A.cs loaded (3 lines)")
	assert.Contains(t, RenderSessionReady(s, true), "previous results cleared")
}

func TestRenderWarnings(t *testing.T) {
	assert.Empty(t, RenderWarnings(nil))
	assert.Contains(t, RenderWarnings([]string{"AZURE_OPENAI_API_KEY not set."}), "• AZURE_OPENAI_API_KEY not set.")
}
