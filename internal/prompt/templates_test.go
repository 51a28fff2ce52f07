package prompt

import (
	"testing"

	"github.com/futig/code-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csharp = entity.SourceLanguage{
	Name:          "C#",
	FenceTag:      "csharp",
	Extension:     ".cs",
	TestFramework: "xUnit",
}

func TestBuild(t *testing.T) {
	const source = "public class Calculator { public int Add(int a, int b) => a + b; }"

	for _, action := range entity.AllActions {
		t.Run(string(action), func(t *testing.T) {
			p, err := Build(action, csharp, source)
			require.NoError(t, err)

			assert.NotEmpty(t, p.System)
			assert.Contains(t, p.System, "C#")
			assert.Contains(t, p.User, source)
			assert.Contains(t, p.User, "```csharp\n")
		})
	}

	t.Run("tests prompt names the framework", func(t *testing.T) {
		p, err := Build(entity.ActionGenerateTests, csharp, source)
		require.NoError(t, err)
		assert.Contains(t, p.System, "xUnit")
		assert.Contains(t, p.User, "xUnit")
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := Build(entity.ActionKind("translate"), csharp, source)
		assert.ErrorIs(t, err, entity.ErrInvalidAction)
	})

	t.Run("build is pure", func(t *testing.T) {
		a, _ := Build(entity.ActionExplain, csharp, source)
		b, _ := Build(entity.ActionExplain, csharp, source)
		assert.Equal(t, a, b)
	})
}

func TestPostProcess(t *testing.T) {
	raw := "```csharp\nclass A {}\n```"

	assert.Equal(t, "class A {}", PostProcess(entity.ActionAddComments, csharp, raw))
	assert.Equal(t, "class A {}", PostProcess(entity.ActionGenerateTests, csharp, raw))
	assert.Equal(t, raw, PostProcess(entity.ActionExplain, csharp, raw))
	assert.Equal(t, raw, PostProcess(entity.ActionSuggestImprovements, csharp, raw))
}
